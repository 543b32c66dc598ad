// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tournament-backend/internal/config"
	"github.com/carterperez-dev/tournament-backend/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessTokenSecret:  "access-secret-for-tests-0123456789abcdef",
		RefreshTokenSecret: "refresh-secret-for-tests-0123456789abcdef",
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             "tournament-api",
		Audience:           "tournament-api",
	}
}

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()

	m, err := NewJWTManager(testJWTConfig())
	require.NoError(t, err)
	return m
}

var sampleClaims = Claims{
	UserID:   42,
	Mail:     "ada@example.com",
	Nickname: "ada",
	Role:     "player",
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestJWTManager(t)

	token, err := m.CreateAccessToken(sampleClaims)
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, sampleClaims, *claims)
}

func TestRefreshTokenCarriesSameIdentity(t *testing.T) {
	m := newTestJWTManager(t)

	token, err := m.CreateRefreshToken(sampleClaims)
	require.NoError(t, err)

	claims, err := m.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, sampleClaims, *claims)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newTestJWTManager(t)

	access, err := m.CreateAccessToken(sampleClaims)
	require.NoError(t, err)
	refresh, err := m.CreateRefreshToken(sampleClaims)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(context.Background(), refresh)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = m.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpire = -time.Minute

	m, err := NewJWTManager(cfg)
	require.NoError(t, err)

	token, err := m.CreateAccessToken(sampleClaims)
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestTamperedTokenIsRejected(t *testing.T) {
	m := newTestJWTManager(t)

	token, err := m.CreateAccessToken(sampleClaims)
	require.NoError(t, err)

	sig := strings.LastIndex(token, ".") + 1
	replacement := "A"
	if token[sig] == 'A' {
		replacement = "B"
	}
	tampered := token[:sig] + replacement + token[sig+1:]
	_, err = m.VerifyAccessToken(context.Background(), tampered)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = m.VerifyAccessToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestForeignIssuerIsRejected(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Issuer = "someone-else"

	foreign, err := NewJWTManager(cfg)
	require.NoError(t, err)

	token, err := foreign.CreateAccessToken(sampleClaims)
	require.NoError(t, err)

	_, err = newTestJWTManager(t).VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestNewJWTManagerRequiresSecrets(t *testing.T) {
	cfg := testJWTConfig()
	cfg.RefreshTokenSecret = ""

	_, err := NewJWTManager(cfg)
	assert.Error(t, err)
}
