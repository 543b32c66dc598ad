// AngelaMos | 2026
// actor.go

package core

const RoleAdmin = "admin"

// Actor is the authenticated caller as seen by ownership checks.
type Actor struct {
	ID   int64
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanManage reports whether the caller owns the resource or is an admin.
func (a Actor) CanManage(ownerID int64) bool {
	return (a.ID != 0 && a.ID == ownerID) || a.IsAdmin()
}
