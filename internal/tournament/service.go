// AngelaMos | 2026
// service.go

package tournament

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/tournament-backend/internal/core"
)

const codeAlreadyRegistered = "ALREADY_REGISTERED"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Tournament, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Tournament, error) {
	return s.repo.FindByID(ctx, id)
}

// Create records the caller as creator unless an admin names another user.
func (s *Service) Create(
	ctx context.Context,
	actor core.Actor,
	req CreateTournamentRequest,
) (*Tournament, error) {
	creator := actor.ID
	if req.UserID != nil && *req.UserID != actor.ID {
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("create tournament: %w", core.ErrForbidden)
		}
		creator = *req.UserID
	}

	return s.repo.Create(ctx, NewTournament{
		Label:     req.Label,
		Type:      req.Type,
		Date:      req.Date,
		Game:      req.Game,
		Format:    req.Format,
		Moderator: req.Moderator,
		UserID:    &creator,
	})
}

func (s *Service) Update(
	ctx context.Context,
	actor core.Actor,
	id int64,
	req UpdateTournamentRequest,
) (*Tournament, error) {
	if err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, req.toPatch(id))
}

func (s *Service) Delete(ctx context.Context, actor core.Actor, id int64) error {
	if err := s.authorize(ctx, actor, id); err != nil {
		return err
	}

	rows, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("delete tournament %d: %w", id, core.ErrNotFound)
	}

	return nil
}

func (s *Service) authorize(
	ctx context.Context,
	actor core.Actor,
	id int64,
) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !t.CreatedBy(actor.ID) && !actor.IsAdmin() {
		return fmt.Errorf("tournament %d: %w", id, core.ErrForbidden)
	}

	return nil
}

func (s *Service) Roster(
	ctx context.Context,
	tournamentID int64,
) ([]Membership, error) {
	if _, err := s.repo.FindByID(ctx, tournamentID); err != nil {
		return nil, err
	}

	return s.repo.GetRoster(ctx, tournamentID)
}

// authorizeMembership lets a user manage their own registration, and the
// tournament creator or an admin manage anyone's.
func (s *Service) authorizeMembership(
	ctx context.Context,
	actor core.Actor,
	tournamentID, userID int64,
) error {
	t, err := s.repo.FindByID(ctx, tournamentID)
	if err != nil {
		return err
	}

	if actor.ID != 0 && actor.ID == userID {
		return nil
	}
	if t.CreatedBy(actor.ID) || actor.IsAdmin() {
		return nil
	}

	return core.ForbiddenError(
		"only the member, the tournament creator or an admin may change this registration",
	)
}

// AddMember checks the roster before inserting. Two concurrent requests
// can both pass the check; the loser then hits the unique constraint and
// gets the same conflict.
func (s *Service) AddMember(
	ctx context.Context,
	actor core.Actor,
	tournamentID, userID int64,
) (*Membership, error) {
	ctx, span := core.StartSpan(
		ctx,
		"tournament.add_member",
		attribute.Int64("tournament.id", tournamentID),
		attribute.Int64("user.id", userID),
	)
	defer span.End()

	if err := s.authorizeMembership(ctx, actor, tournamentID, userID); err != nil {
		return nil, err
	}

	roster, err := s.repo.GetRoster(ctx, tournamentID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	for _, m := range roster {
		if m.UserID == userID {
			return nil, alreadyRegistered(tournamentID, userID)
		}
	}

	membership, err := s.repo.AddMember(ctx, tournamentID, userID)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.AddSpanEvent(ctx, "roster_race_lost")
			return nil, alreadyRegistered(tournamentID, userID)
		}
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("tournament or user")
		}
		core.SetSpanError(ctx, err)
		return nil, err
	}

	return membership, nil
}

func (s *Service) RemoveMember(
	ctx context.Context,
	actor core.Actor,
	tournamentID, userID int64,
) error {
	if err := s.authorizeMembership(ctx, actor, tournamentID, userID); err != nil {
		return err
	}

	rows, err := s.repo.RemoveMember(ctx, tournamentID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return core.NotFoundError("membership")
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func alreadyRegistered(tournamentID, userID int64) *core.AppError {
	return core.ConflictError(
		fmt.Sprintf(
			"user %d is already registered to tournament %d",
			userID,
			tournamentID,
		),
		codeAlreadyRegistered,
	)
}
