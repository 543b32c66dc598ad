// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/tournament-backend/internal/config"
	"github.com/carterperez-dev/tournament-backend/internal/core"
	"github.com/carterperez-dev/tournament-backend/internal/middleware"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the identity embedded in both token kinds. Timing claims
// (iat, exp, nbf, jti) are added at signing time and never surface here.
type Claims = middleware.AccessTokenClaims

type JWTManager struct {
	accessKey  jwk.Key
	refreshKey jwk.Key
	config     config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	accessKey, err := newSigningKey(cfg.AccessTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("access key: %w", err)
	}

	refreshKey, err := newSigningKey(cfg.RefreshTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh key: %w", err)
	}

	return &JWTManager{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		config:     cfg,
	}, nil
}

func newSigningKey(secret string) (jwk.Key, error) {
	if secret == "" {
		return nil, fmt.Errorf("empty secret")
	}

	key, err := jwk.Import([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("import secret: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return key, nil
}

func (m *JWTManager) Algorithm() string {
	return jwa.HS256().String()
}

func (m *JWTManager) AccessTokenTTL() time.Duration {
	return m.config.AccessTokenExpire
}

func (m *JWTManager) CreateAccessToken(claims Claims) (string, error) {
	return m.sign(claims, tokenTypeAccess, m.accessKey, m.config.AccessTokenExpire)
}

func (m *JWTManager) CreateRefreshToken(claims Claims) (string, error) {
	return m.sign(claims, tokenTypeRefresh, m.refreshKey, m.config.RefreshTokenExpire)
}

func (m *JWTManager) sign(
	claims Claims,
	tokenType string,
	key jwk.Key,
	ttl time.Duration,
) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(strconv.FormatInt(claims.UserID, 10)).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Claim("mail", claims.Mail).
		Claim("nickname", claims.Nickname).
		Claim("role", claims.Role).
		Claim("type", tokenType).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// VerifyAccessToken satisfies middleware.TokenVerifier.
func (m *JWTManager) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*Claims, error) {
	return m.verify(tokenString, tokenTypeAccess, m.accessKey)
}

func (m *JWTManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, tokenTypeRefresh, m.refreshKey)
}

func (m *JWTManager) verify(
	tokenString, wantType string,
	key jwk.Key,
) (*Claims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != wantType {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf(
			"verify token: malformed subject: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &Claims{UserID: userID}

	for name, dst := range map[string]*string{
		"mail":     &claims.Mail,
		"nickname": &claims.Nickname,
		"role":     &claims.Role,
	} {
		if err := token.Get(name, dst); err != nil {
			return nil, fmt.Errorf(
				"verify token: missing %s claim: %w",
				name,
				core.ErrTokenInvalid,
			)
		}
	}

	return claims, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
