// AngelaMos | 2026
// repository.go

package tournament

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carterperez-dev/tournament-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, fields NewTournament) (*Tournament, error)
	FindAll(ctx context.Context) ([]Tournament, error)
	FindByID(ctx context.Context, id int64) (*Tournament, error)
	Update(ctx context.Context, patch Patch) (*Tournament, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	GetRoster(ctx context.Context, tournamentID int64) ([]Membership, error)
	AddMember(ctx context.Context, tournamentID, userID int64) (*Membership, error)
	RemoveMember(ctx context.Context, tournamentID, userID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}

const tournamentColumns = `id, label, type, date, game, format, moderator, user_id`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	fields NewTournament,
) (*Tournament, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("create tournament: encode: %w", err)
	}

	query := `SELECT ` + tournamentColumns + ` FROM create_tournament($1::json)`

	var t Tournament
	if err := r.db.GetContext(ctx, &t, query, string(payload)); err != nil {
		return nil, fmt.Errorf("create tournament: %w", core.MapPgError(err))
	}

	return &t, nil
}

func (r *repository) FindAll(ctx context.Context) ([]Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM public.tournament`

	tournaments := []Tournament{}
	if err := r.db.SelectContext(ctx, &tournaments, query); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	return tournaments, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM public.tournament WHERE id = $1`

	var t Tournament
	err := r.db.GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tournament: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tournament: %w", err)
	}

	return &t, nil
}

func (r *repository) Update(ctx context.Context, patch Patch) (*Tournament, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("update tournament: encode: %w", err)
	}

	query := `SELECT ` + tournamentColumns + ` FROM update_tournament($1::json)`

	var t Tournament
	err = r.db.GetContext(ctx, &t, query, string(payload))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update tournament: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update tournament: %w", core.MapPgError(err))
	}

	return &t, nil
}

func (r *repository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM public.tournament WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("delete tournament: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete tournament: %w", err)
	}

	return rows, nil
}

func (r *repository) GetRoster(
	ctx context.Context,
	tournamentID int64,
) ([]Membership, error) {
	query := `
		SELECT tournament_id, user_id, created_at
		FROM public.tournament_has_user
		WHERE tournament_id = $1
		ORDER BY created_at`

	roster := []Membership{}
	if err := r.db.SelectContext(ctx, &roster, query, tournamentID); err != nil {
		return nil, fmt.Errorf("get roster: %w", err)
	}

	return roster, nil
}

// AddMember does not pre-check the roster. A repeated pair surfaces as
// core.ErrDuplicateKey from the unique constraint.
func (r *repository) AddMember(
	ctx context.Context,
	tournamentID, userID int64,
) (*Membership, error) {
	query := `
		INSERT INTO public.tournament_has_user (tournament_id, user_id)
		VALUES ($1, $2)
		RETURNING tournament_id, user_id, created_at`

	var m Membership
	if err := r.db.GetContext(ctx, &m, query, tournamentID, userID); err != nil {
		return nil, fmt.Errorf("add member: %w", core.MapPgError(err))
	}

	return &m, nil
}

func (r *repository) RemoveMember(
	ctx context.Context,
	tournamentID, userID int64,
) (int64, error) {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM public.tournament_has_user
		WHERE tournament_id = $1 AND user_id = $2`,
		tournamentID,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("remove member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("remove member: %w", err)
	}

	return rows, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM public.tournament`); err != nil {
		return 0, fmt.Errorf("count tournaments: %w", err)
	}
	return total, nil
}
