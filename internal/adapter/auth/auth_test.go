package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/core/domain"
)

type mockUsers struct {
	users map[string]*domain.User
}

func (m *mockUsers) GetUser(ctx context.Context, username string) (*domain.User, error) {
	return m.users[username], nil
}

func seededUsers(t *testing.T) *mockUsers {
	t.Helper()
	hash, err := HashPassword("1234")
	require.NoError(t, err)
	return &mockUsers{users: map[string]*domain.User{
		"admin": {Username: "admin", PasswordHash: hash, Role: domain.RoleAdmin},
	}}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", "stockroom")

	token, err := tokens.Generate("manufUser", domain.RoleManufacturing)
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "manufUser", claims.Username)
	assert.Equal(t, domain.RoleManufacturing, claims.Role)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tokens := NewTokenManager("test-secret", "stockroom")
	other := NewTokenManager("other-secret", "stockroom")

	token, err := tokens.Generate("admin", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenManager_Garbage(t *testing.T) {
	tokens := NewTokenManager("test-secret", "stockroom")
	_, err := tokens.Validate("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestAuthenticator_Login(t *testing.T) {
	a := NewAuthenticator(seededUsers(t), NewTokenManager("test-secret", "stockroom"))
	ctx := context.Background()

	token, role, err := a.Login(ctx, "admin", "1234")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	claims, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestAuthenticator_BadCredentials(t *testing.T) {
	a := NewAuthenticator(seededUsers(t), NewTokenManager("test-secret", "stockroom"))
	ctx := context.Background()

	_, _, err := a.Login(ctx, "admin", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, _, err = a.Login(ctx, "nobody", "1234")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}
