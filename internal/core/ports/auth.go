package ports

import (
	"context"

	"github.com/99minutos/address-verification/internal/core/domain"
)

// AuthRepository defines the interface for user authentication persistence.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// RegisterInput carries the fields of a new API user.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
