// AngelaMos | 2026
// entity.go

package tournament

import (
	"time"
)

type Tournament struct {
	ID        int64     `db:"id"`
	Label     string    `db:"label"`
	Type      string    `db:"type"`
	Date      time.Time `db:"date"`
	Game      string    `db:"game"`
	Format    string    `db:"format"`
	Moderator string    `db:"moderator"`
	UserID    *int64    `db:"user_id"`
}

// CreatedBy reports whether userID is the recorded creator.
func (t *Tournament) CreatedBy(userID int64) bool {
	return t.UserID != nil && *t.UserID == userID
}

// Membership is one roster row. A pair appears at most once.
type Membership struct {
	TournamentID int64     `db:"tournament_id" json:"tournament_id"`
	UserID       int64     `db:"user_id"       json:"user_id"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}

type NewTournament struct {
	Label     string    `json:"label"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Game      string    `json:"game"`
	Format    string    `json:"format"`
	Moderator string    `json:"moderator"`
	UserID    *int64    `json:"user_id,omitempty"`
}

// Patch is passed to update_tournament. Nil fields keep their stored value.
type Patch struct {
	ID        int64      `json:"id"`
	Label     *string    `json:"label,omitempty"`
	Type      *string    `json:"type,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Game      *string    `json:"game,omitempty"`
	Format    *string    `json:"format,omitempty"`
	Moderator *string    `json:"moderator,omitempty"`
}
