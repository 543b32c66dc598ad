// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Firstname *string `json:"firstname,omitempty" validate:"omitempty,min=1,max=100"`
	Lastname  *string `json:"lastname,omitempty"  validate:"omitempty,min=1,max=100"`
	Nickname  *string `json:"nickname,omitempty"  validate:"omitempty,min=1,max=50"`
	Mail      *string `json:"mail,omitempty"      validate:"omitempty,email,max=255"`
	Trophies  *int    `json:"trophies,omitempty"  validate:"omitempty,min=0"`
	Team      *string `json:"team,omitempty"      validate:"omitempty,max=100"`
	Avatar    *string `json:"avatar,omitempty"    validate:"omitempty,url,max=2048"`
}

// UpdatePasswordRequest carries no length tag: the minimum is a runtime
// setting enforced by the service.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,max=128"`
}

type HonorPointResponse struct {
	ID         int64 `json:"id"`
	HonorPoint int   `json:"honor_point"`
}

type UserResponse struct {
	ID         int64     `json:"id"`
	Firstname  string    `json:"firstname"`
	Lastname   string    `json:"lastname"`
	Nickname   string    `json:"nickname"`
	Mail       string    `json:"mail"`
	Trophies   *int      `json:"trophies"`
	HonorPoint int       `json:"honor_point"`
	Team       *string   `json:"team"`
	Role       *string   `json:"role"`
	Avatar     *string   `json:"avatar"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Firstname:  u.Firstname,
		Lastname:   u.Lastname,
		Nickname:   u.Nickname,
		Mail:       u.Mail,
		Trophies:   u.Trophies,
		HonorPoint: u.HonorPoint,
		Team:       u.Team,
		Role:       u.Role,
		Avatar:     u.Avatar,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

func (r UpdateProfileRequest) toPatch(id int64) ProfilePatch {
	return ProfilePatch{
		ID:        id,
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Nickname:  r.Nickname,
		Mail:      r.Mail,
		Trophies:  r.Trophies,
		Team:      r.Team,
		Avatar:    r.Avatar,
	}
}
