package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/pkg/dbmetrics"
	"github.com/m04kA/BTR-BookingService/pkg/psqlbuilder"
	"github.com/m04kA/BTR-BookingService/pkg/types"
)

// Repository часы работы проката: политики по видам дней и исключения на даты
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetPolicies возвращает все политики, ключ - вид дня
func (r *Repository) GetPolicies(ctx context.Context) (domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("kind", "open_time", "close_time", "updated_at").
		From("day_policies").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicies - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicies - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedule := make(domain.Schedule, 2)
	for rows.Next() {
		var policy domain.DayPolicy
		var updatedAt sql.NullTime
		if err := rows.Scan(&policy.Kind, &policy.OpenTime, &policy.CloseTime, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetPolicies - scan row: %v", ErrScanRow, err)
		}
		policy.UpdatedAt = updatedAt.Time
		schedule[policy.Kind] = policy
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPolicies - rows error: %v", ErrScanRow, err)
	}

	return schedule, nil
}

// GetPolicy возвращает политику для вида дня
func (r *Repository) GetPolicy(ctx context.Context, kind domain.DayKind) (*domain.DayPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("kind", "open_time", "close_time", "updated_at").
		From("day_policies").
		Where(squirrel.Eq{"kind": string(kind)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicy - build select query: %v", ErrBuildQuery, err)
	}

	var policy domain.DayPolicy
	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&policy.Kind, &policy.OpenTime, &policy.CloseTime, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPolicy - scan policy: %v", ErrScanRow, err)
	}

	policy.UpdatedAt = updatedAt.Time
	return &policy, nil
}

// UpsertPolicy создает или заменяет часы работы для вида дня
func (r *Repository) UpsertPolicy(ctx context.Context, policy *domain.DayPolicy) (*domain.DayPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("day_policies").
		Columns("kind", "open_time", "close_time").
		Values(string(policy.Kind), policy.OpenTime, policy.CloseTime).
		Suffix("ON CONFLICT (kind) DO UPDATE SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time, updated_at = NOW() RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertPolicy - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertPolicy - execute upsert: %v", ErrExecQuery, err)
	}

	policy.UpdatedAt = updatedAt.Time
	return policy, nil
}

// GetOverride возвращает исключение на дату или ErrOverrideNotFound
func (r *Repository) GetOverride(ctx context.Context, date time.Time) (*domain.DayOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "open_time", "close_time", "is_closed", "updated_at").
		From("day_overrides").
		Where(squirrel.Eq{"date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %v", ErrBuildQuery, err)
	}

	override, err := scanOverride(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan override: %v", ErrScanRow, err)
	}

	return override, nil
}

// GetOverrides исключения в диапазоне дат [from, to], по возрастанию даты
func (r *Repository) GetOverrides(ctx context.Context, from, to time.Time) ([]*domain.DayOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date", "open_time", "close_time", "is_closed", "updated_at").
		From("day_overrides").
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.DayOverride, 0)
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetOverrides - scan row: %v", ErrScanRow, err)
		}
		overrides = append(overrides, override)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// UpsertOverride создает или заменяет исключение на дату
func (r *Repository) UpsertOverride(ctx context.Context, override *domain.DayOverride) (*domain.DayOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("day_overrides").
		Columns("date", "open_time", "close_time", "is_closed").
		Values(override.Date.Format(domain.DateFormat), nullable(override.OpenTime), nullable(override.CloseTime), override.IsClosed).
		Suffix("ON CONFLICT (date) DO UPDATE SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time, is_closed = EXCLUDED.is_closed, updated_at = NOW() RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - execute upsert: %v", ErrExecQuery, err)
	}

	override.UpdatedAt = updatedAt.Time
	return override, nil
}

// DeleteOverride удаляет исключение на дату
func (r *Repository) DeleteOverride(ctx context.Context, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("day_overrides").
		Where(squirrel.Eq{"date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOverride(row rowScanner) (*domain.DayOverride, error) {
	var override domain.DayOverride
	var openTime, closeTime types.NullClock
	var updatedAt sql.NullTime

	if err := row.Scan(&override.Date, &openTime, &closeTime, &override.IsClosed, &updatedAt); err != nil {
		return nil, err
	}

	override.OpenTime = openTime.Ptr()
	override.CloseTime = closeTime.Ptr()
	override.UpdatedAt = updatedAt.Time

	return &override, nil
}

func nullable(c *types.Clock) types.NullClock {
	if c == nil {
		return types.NullClock{}
	}
	return types.NullClock{Clock: *c, Valid: true}
}
