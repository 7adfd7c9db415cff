package port

import (
	"context"

	"github.com/rl1809/stockroom/internal/core/domain"
)

type CredentialRepository interface {
	// GetUser loads one credential row by username, nil when absent.
	GetUser(ctx context.Context, username string) (*domain.User, error)
}
