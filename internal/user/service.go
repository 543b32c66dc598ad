// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/tournament-backend/internal/auth"
	"github.com/carterperez-dev/tournament-backend/internal/core"
)

type Service struct {
	repo              Repository
	minPasswordLength int
}

func NewService(repo Repository, minPasswordLength int) *Service {
	return &Service{repo: repo, minPasswordLength: minPasswordLength}
}

func (s *Service) ListProfiles(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) GetProfile(ctx context.Context, id int64) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetProfileByMail(
	ctx context.Context,
	mail string,
) (*User, error) {
	return s.repo.FindByMail(ctx, strings.ToLower(mail))
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	actor core.Actor,
	id int64,
	req UpdateProfileRequest,
) (*User, error) {
	if !actor.CanManage(id) {
		return nil, fmt.Errorf("update profile: %w", core.ErrForbidden)
	}

	if req.Mail != nil {
		lowered := strings.ToLower(*req.Mail)
		req.Mail = &lowered
	}

	return s.repo.UpdateProfile(ctx, req.toPatch(id))
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	actor core.Actor,
	id int64,
	password string,
) (*User, error) {
	if !actor.CanManage(id) {
		return nil, fmt.Errorf("update password: %w", core.ErrForbidden)
	}

	if err := core.CheckPasswordLength(password, s.minPasswordLength); err != nil {
		return nil, err
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, PasswordPatch{ID: id, Password: hash})
}

func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	rows, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("delete user %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// DeleteByMail resolves the mail to an id first so the ownership check
// runs against the stored record.
func (s *Service) DeleteByMail(
	ctx context.Context,
	actor core.Actor,
	mail string,
) error {
	user, err := s.repo.FindByMail(ctx, strings.ToLower(mail))
	if err != nil {
		return err
	}

	if !actor.CanManage(user.ID) {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	return s.DeleteByID(ctx, user.ID)
}

func (s *Service) IncrementHonorPoint(
	ctx context.Context,
	actor core.Actor,
	id int64,
) (int, error) {
	return s.adjustHonorPoint(ctx, actor, id, 1)
}

func (s *Service) DecrementHonorPoint(
	ctx context.Context,
	actor core.Actor,
	id int64,
) (int, error) {
	return s.adjustHonorPoint(ctx, actor, id, -1)
}

// Honor points are awarded by other players; nobody votes on themselves.
func (s *Service) adjustHonorPoint(
	ctx context.Context,
	actor core.Actor,
	id int64,
	delta int,
) (int, error) {
	if actor.ID == id {
		return 0, core.ForbiddenError("you cannot change your own honor points")
	}
	return s.repo.AdjustHonorPoint(ctx, id, delta)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) GetByMail(
	ctx context.Context,
	mail string,
) (*auth.UserInfo, error) {
	user, err := s.repo.FindByMail(ctx, strings.ToLower(mail))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) MailExists(ctx context.Context, mail string) (bool, error) {
	return s.repo.ExistsByMail(ctx, strings.ToLower(mail))
}

func (s *Service) Register(
	ctx context.Context,
	reg auth.Registration,
) (*auth.UserInfo, error) {
	user, err := s.repo.Create(ctx, NewUser{
		Firstname: reg.Firstname,
		Lastname:  reg.Lastname,
		Nickname:  reg.Nickname,
		Mail:      strings.ToLower(reg.Mail),
		Password:  reg.PasswordHash,
		Avatar:    reg.Avatar,
	})
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePasswordHash(
	ctx context.Context,
	id int64,
	hash string,
) error {
	_, err := s.repo.UpdatePassword(ctx, PasswordPatch{ID: id, Password: hash})
	return err
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Mail:         u.Mail,
		Nickname:     u.Nickname,
		Role:         u.RoleName(),
		PasswordHash: u.Password,
		Profile:      ToUserResponse(u),
	}
}

var _ auth.UserProvider = (*Service)(nil)
