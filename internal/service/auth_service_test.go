package service

import (
	"testing"

	"flicklog/config"
	"flicklog/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.JWT.AccessSecret = "test-access"
	cfg.JWT.RefreshSecret = "test-refresh"
	return cfg
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixtures(t)
	svc := NewAuthService(testConfig(), f.users)

	u, access, refresh, err := svc.Register("ana@example.com", "ana", "Ana", "hunter22")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, "hunter22", u.PasswordHash)

	claims, err := auth.ParseAccessToken(&testConfig().JWT, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	got, _, _, err := svc.Login("ana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, _, _, err = svc.Login("ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRegister_DuplicateEmailAndUsername(t *testing.T) {
	f := newFixtures(t)
	svc := NewAuthService(testConfig(), f.users)

	_, _, _, err := svc.Register("ana@example.com", "ana", "Ana", "hunter22")
	require.NoError(t, err)

	_, _, _, err = svc.Register("ana@example.com", "other", "Other", "hunter22")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, _, _, err = svc.Register("new@example.com", "ana", "Ana Again", "hunter22")
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestRefreshToken(t *testing.T) {
	f := newFixtures(t)
	svc := NewAuthService(testConfig(), f.users)

	u, _, refresh, err := svc.Register("ana@example.com", "ana", "Ana", "hunter22")
	require.NoError(t, err)

	access, newRefresh, err := svc.RefreshToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newRefresh)

	claims, err := auth.ParseAccessToken(&testConfig().JWT, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, _, err = svc.RefreshToken("garbage")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newFixtures(t)
	svc := NewAuthService(testConfig(), f.users)

	u, _, _, err := svc.Register("ana@example.com", "ana", "Ana", "hunter22")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(u.ID, "wrong", "newpass99"), ErrInvalidCreds)
	require.NoError(t, svc.ChangePassword(u.ID, "hunter22", "newpass99"))

	_, _, _, err = svc.Login("ana@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCreds)
	_, _, _, err = svc.Login("ana@example.com", "newpass99")
	assert.NoError(t, err)
}
