// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/tournament-backend/internal/core"
)

type User struct {
	ID         int64     `db:"id"`
	Firstname  string    `db:"firstname"`
	Lastname   string    `db:"lastname"`
	Nickname   string    `db:"nickname"`
	Mail       string    `db:"mail"`
	Password   string    `db:"password"`
	Trophies   *int      `db:"trophies"`
	HonorPoint int       `db:"honor_point"`
	Team       *string   `db:"team"`
	Role       *string   `db:"role"`
	Avatar     *string   `db:"avatar"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return *u.Role
}

func (u *User) IsAdmin() bool {
	return u.RoleName() == RoleAdmin
}

const RoleAdmin = core.RoleAdmin

// NewUser is the initial field set handed to create_user. Password must
// already be hashed.
type NewUser struct {
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Nickname  string  `json:"nickname"`
	Mail      string  `json:"mail"`
	Password  string  `json:"password"`
	Avatar    *string `json:"avatar,omitempty"`
}

// ProfilePatch is passed to update_user. Nil fields keep their stored value.
type ProfilePatch struct {
	ID        int64   `json:"id"`
	Firstname *string `json:"firstname,omitempty"`
	Lastname  *string `json:"lastname,omitempty"`
	Nickname  *string `json:"nickname,omitempty"`
	Mail      *string `json:"mail,omitempty"`
	Trophies  *int    `json:"trophies,omitempty"`
	Team      *string `json:"team,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
}

type PasswordPatch struct {
	ID       int64  `json:"id"`
	Password string `json:"password"`
}
