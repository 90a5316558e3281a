package auth

import (
	"path/filepath"
	"testing"

	"github.com/just-rehan/vitality-companion/internal/config"
	"github.com/just-rehan/vitality-companion/internal/errors"
	"github.com/just-rehan/vitality-companion/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAuth(t *testing.T) *Service {
	dir := t.TempDir()
	cfg := &config.Config{
		Storage: config.StorageConfig{
			DataDir:    dir,
			SQLitePath: filepath.Join(dir, "test.db"),
			BadgerPath: filepath.Join(dir, "badger"),
		},
	}

	st, err := store.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return New(st, zap.NewNop(), "test-secret")
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("jane@example.com"))
	assert.True(t, ValidEmail("a@b"))

	assert.False(t, ValidEmail("janeexample.com"))
	assert.False(t, ValidEmail("@example.com"))
	assert.False(t, ValidEmail("jane@"))
	assert.False(t, ValidEmail("jane doe@example.com"))
	assert.False(t, ValidEmail(""))
}

func TestLogin_InvalidEmail(t *testing.T) {
	svc := setupAuth(t)

	_, _, err := svc.Login("not-an-email", "Jane")
	assert.ErrorIs(t, err, errors.ErrInvalidEmail)
}

func TestLogin_TokenRoundTrip(t *testing.T) {
	svc := setupAuth(t)

	user, token, err := svc.Login("Jane@Example.com", "Jane")
	require.NoError(t, err)
	require.NotNil(t, user)

	// Email is normalized to lower case
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)

	assert.True(t, svc.Validate(token))

	resolved, err := svc.CurrentUser(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestLogin_DefaultsDisplayName(t *testing.T) {
	svc := setupAuth(t)

	user, _, err := svc.Login("jane@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "jane", user.DisplayName)
}

func TestLogin_SameEmailSameAccount(t *testing.T) {
	svc := setupAuth(t)

	first, _, err := svc.Login("jane@example.com", "Jane")
	require.NoError(t, err)
	second, _, err := svc.Login("jane@example.com", "Jane D.")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Jane D.", second.DisplayName)
}

func TestValidate_RejectsGarbage(t *testing.T) {
	svc := setupAuth(t)

	assert.False(t, svc.Validate("not.a.token"))
	assert.False(t, svc.Validate(""))
}

func TestCurrentUser_UnknownAccount(t *testing.T) {
	svc := setupAuth(t)
	other := setupAuth(t)

	_, token, err := other.Login("jane@example.com", "Jane")
	require.NoError(t, err)

	// The secret matches but the account lives in another store
	assert.True(t, svc.Validate(token))
	_, err = svc.CurrentUser(token)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}
