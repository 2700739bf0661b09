package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/BTR-BookingService/internal/api/handlers"
	"github.com/m04kA/BTR-BookingService/internal/domain"
)

// UserIDHeader идентификатор пользователя, проставляемый шлюзом
const UserIDHeader = "X-User-ID"

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
	msgOperatorsOnly = "действие доступно только операторам"
)

type ctxKey int

const actorKey ctxKey = iota

// OperatorDirectory список операторов
type OperatorDirectory interface {
	IsOperator(userID int64) bool
}

// Auth достает пользователя из X-User-ID и определяет его роль
func Auth(directory OperatorDirectory) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if raw == "" {
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				handlers.RespondUnauthorized(w, msgInvalidUserID)
				return
			}

			actor := domain.Actor{ID: userID, Role: domain.RoleRider}
			if directory.IsOperator(userID) {
				actor.Role = domain.RoleOperator
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireOperator пропускает только операторов. Ставится после Auth.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		if !actor.IsOperator() {
			handlers.RespondForbidden(w, msgOperatorsOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor кладет пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor пользователь запроса
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetUserID ID пользователя запроса
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	return actor.ID, ok
}
