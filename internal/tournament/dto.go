// AngelaMos | 2026
// dto.go

package tournament

import (
	"time"
)

type CreateTournamentRequest struct {
	Label     string    `json:"label"     validate:"required,min=1,max=200"`
	Type      string    `json:"type"      validate:"required,min=1,max=100"`
	Date      time.Time `json:"date"      validate:"required"`
	Game      string    `json:"game"      validate:"required,min=1,max=100"`
	Format    string    `json:"format"    validate:"required,min=1,max=100"`
	Moderator string    `json:"moderator" validate:"required,min=1,max=100"`
	UserID    *int64    `json:"user_id,omitempty" validate:"omitempty,min=1"`
}

type UpdateTournamentRequest struct {
	Label     *string    `json:"label,omitempty"     validate:"omitempty,min=1,max=200"`
	Type      *string    `json:"type,omitempty"      validate:"omitempty,min=1,max=100"`
	Date      *time.Time `json:"date,omitempty"`
	Game      *string    `json:"game,omitempty"      validate:"omitempty,min=1,max=100"`
	Format    *string    `json:"format,omitempty"    validate:"omitempty,min=1,max=100"`
	Moderator *string    `json:"moderator,omitempty" validate:"omitempty,min=1,max=100"`
}

type TournamentResponse struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Game      string    `json:"game"`
	Format    string    `json:"format"`
	Moderator string    `json:"moderator"`
	UserID    *int64    `json:"user_id"`
}

func ToTournamentResponse(t *Tournament) TournamentResponse {
	return TournamentResponse{
		ID:        t.ID,
		Label:     t.Label,
		Type:      t.Type,
		Date:      t.Date,
		Game:      t.Game,
		Format:    t.Format,
		Moderator: t.Moderator,
		UserID:    t.UserID,
	}
}

func ToTournamentResponseList(tournaments []Tournament) []TournamentResponse {
	responses := make([]TournamentResponse, 0, len(tournaments))
	for i := range tournaments {
		responses = append(responses, ToTournamentResponse(&tournaments[i]))
	}
	return responses
}

func (r UpdateTournamentRequest) toPatch(id int64) Patch {
	return Patch{
		ID:        id,
		Label:     r.Label,
		Type:      r.Type,
		Date:      r.Date,
		Game:      r.Game,
		Format:    r.Format,
		Moderator: r.Moderator,
	}
}
