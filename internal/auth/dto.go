// AngelaMos | 2026
// dto.go

package auth

type LoginRequest struct {
	Mail     string `json:"mail"     validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// RegisterRequest leaves the password minimum to the service, which reads
// it from configuration.
type RegisterRequest struct {
	Firstname string  `json:"firstname" validate:"required,min=1,max=100"`
	Lastname  string  `json:"lastname"  validate:"required,min=1,max=100"`
	Nickname  string  `json:"nickname"  validate:"required,min=1,max=50"`
	Mail      string  `json:"mail"      validate:"required,email,max=255"`
	Password  string  `json:"password"  validate:"required,max=128"`
	Avatar    *string `json:"avatar,omitempty" validate:"omitempty,url,max=2048"`
}

type LoginResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	FoundUser    any    `json:"foundUser"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
