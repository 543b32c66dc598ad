// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carterperez-dev/tournament-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, fields NewUser) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByMail(ctx context.Context, mail string) (*User, error)
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*User, error)
	UpdatePassword(ctx context.Context, patch PasswordPatch) (*User, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	AdjustHonorPoint(ctx context.Context, id int64, delta int) (int, error)
	ExistsByMail(ctx context.Context, mail string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

const userColumns = `id, firstname, lastname, nickname, mail, password,
	trophies, honor_point, team, role, avatar, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, fields NewUser) (*User, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("create user: encode: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM create_user($1::json)`

	var user User
	if err := r.db.GetContext(ctx, &user, query, string(payload)); err != nil {
		return nil, fmt.Errorf("create user: %w", core.MapPgError(err))
	}

	return &user, nil
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM public."user"`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM public."user" WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) FindByMail(ctx context.Context, mail string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM public."user" WHERE mail = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, mail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by mail: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by mail: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdateProfile(
	ctx context.Context,
	patch ProfilePatch,
) (*User, error) {
	return r.callUpdate(ctx, "update_user", "update user", patch)
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	patch PasswordPatch,
) (*User, error) {
	return r.callUpdate(ctx, "update_pwd", "update password", patch)
}

func (r *repository) callUpdate(
	ctx context.Context,
	procedure, op string,
	patch any,
) (*User, error) {
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("%s: encode: %w", op, err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s($1::json)`, userColumns, procedure)

	var user User
	err = r.db.GetContext(ctx, &user, query, string(payload))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, core.MapPgError(err))
	}

	return &user, nil
}

func (r *repository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM public."user" WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}

	return rows, nil
}

// AdjustHonorPoint applies delta in a single UPDATE. The counter has no
// floor, repeated decrements go negative.
func (r *repository) AdjustHonorPoint(
	ctx context.Context,
	id int64,
	delta int,
) (int, error) {
	query := `
		UPDATE public."user"
		SET honor_point = honor_point + $2
		WHERE id = $1
		RETURNING honor_point`

	var honor int
	err := r.db.GetContext(ctx, &honor, query, id, delta)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("adjust honor point: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("adjust honor point: %w", err)
	}

	return honor, nil
}

func (r *repository) ExistsByMail(ctx context.Context, mail string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM public."user" WHERE mail = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, mail); err != nil {
		return false, fmt.Errorf("check mail exists: %w", err)
	}

	return exists, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM public."user"`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}
