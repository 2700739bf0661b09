package domain

// ActorRole кто инициирует действие над бронью
type ActorRole string

const (
	RoleRider    ActorRole = "rider"
	RoleOperator ActorRole = "operator"
	RoleSystem   ActorRole = "system"
)

// Actor инициатор действия
type Actor struct {
	ID   int64
	Role ActorRole
}

// SystemActor фоновые задачи (завершение прошедших броней)
var SystemActor = Actor{Role: RoleSystem}

func (a Actor) IsOperator() bool { return a.Role == RoleOperator }
func (a Actor) IsSystem() bool   { return a.Role == RoleSystem }

// Owns true, если бронь принадлежит актору
func (a Actor) Owns(b *Booking) bool {
	return a.Role == RoleRider && b.RiderID == a.ID
}

// CanView владелец или оператор
func (a Actor) CanView(b *Booking) bool {
	return a.IsOperator() || a.IsSystem() || b.RiderID == a.ID
}
