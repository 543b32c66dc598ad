// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/tournament-backend/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMailExists         = errors.New("mail already exists")
)

// UserInfo is the slice of a user record the auth flow needs. Profile is
// the public representation returned to clients as foundUser.
type UserInfo struct {
	ID           int64
	Mail         string
	Nickname     string
	Role         string
	PasswordHash string
	Profile      any
}

type Registration struct {
	Firstname    string
	Lastname     string
	Nickname     string
	Mail         string
	PasswordHash string
	Avatar       *string
}

type UserProvider interface {
	GetByMail(ctx context.Context, mail string) (*UserInfo, error)
	MailExists(ctx context.Context, mail string) (bool, error)
	Register(ctx context.Context, reg Registration) (*UserInfo, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type Service struct {
	jwt               *JWTManager
	users             UserProvider
	minPasswordLength int
}

func NewService(
	jwt *JWTManager,
	users UserProvider,
	minPasswordLength int,
) *Service {
	return &Service{
		jwt:               jwt,
		users:             users,
		minPasswordLength: minPasswordLength,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.login")
	defer span.End()

	user, err := s.users.GetByMail(ctx, strings.ToLower(req.Mail))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.BurnPasswordCheck(req.Password)
			return nil, ErrInvalidCredentials
		}
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("get user: %w", err)
	}

	check, err := core.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !check.Valid {
		return nil, ErrInvalidCredentials
	}

	if check.Upgrade != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePasswordHash(ctx, user.ID, check.Upgrade)
		core.AddSpanEvent(ctx, "password_rehashed")
	}

	claims := claimsFor(user)

	accessToken, err := s.jwt.CreateAccessToken(claims)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshToken, err := s.jwt.CreateRefreshToken(claims)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	core.AddSpanEvent(ctx, "login_succeeded", attribute.Int64("user.id", user.ID))

	return &LoginResponse{
		Success:      true,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		FoundUser:    user.Profile,
	}, nil
}

// Register rejects a short password before touching storage.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*UserInfo, error) {
	ctx, span := core.StartSpan(ctx, "auth.register")
	defer span.End()

	if err := core.CheckPasswordLength(req.Password, s.minPasswordLength); err != nil {
		return nil, err
	}

	mail := strings.ToLower(req.Mail)

	exists, err := s.users.MailExists(ctx, mail)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("check mail: %w", err)
	}
	if exists {
		return nil, ErrMailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Register(ctx, Registration{
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Nickname:     req.Nickname,
		Mail:         mail,
		PasswordHash: passwordHash,
		Avatar:       req.Avatar,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrMailExists
		}
		core.SetSpanError(ctx, err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Refresh mints a new access token from the identity claims embedded in
// the refresh token. The account is not re-read from storage, so a role
// change or deletion is only observed once the refresh token expires.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*RefreshResponse, error) {
	_, span := core.StartSpan(ctx, "auth.refresh")
	defer span.End()

	claims, err := s.jwt.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	accessToken, err := s.jwt.CreateAccessToken(*claims)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &RefreshResponse{AccessToken: accessToken}, nil
}

func claimsFor(user *UserInfo) Claims {
	return Claims{
		UserID:   user.ID,
		Mail:     user.Mail,
		Nickname: user.Nickname,
		Role:     user.Role,
	}
}
