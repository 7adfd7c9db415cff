package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator checks credentials against the injected store and hands
// out role-bearing tokens. The core never sees any of this; the role
// reaches it as a plain argument.
type Authenticator struct {
	users  port.CredentialRepository
	tokens *TokenManager
}

func NewAuthenticator(users port.CredentialRepository, tokens *TokenManager) *Authenticator {
	return &Authenticator{users: users, tokens: tokens}
}

// Login verifies the password and returns a signed token plus the role.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, domain.Role, error) {
	user, err := a.users.GetUser(ctx, username)
	if err != nil {
		return "", "", fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return "", "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err := a.tokens.Generate(user.Username, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return token, user.Role, nil
}

// Verify resolves a bearer token to its claims.
func (a *Authenticator) Verify(token string) (*Claims, error) {
	return a.tokens.Validate(token)
}

// HashPassword is used by seeding tooling to produce stored hashes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
