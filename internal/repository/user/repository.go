package user

import (
	"context"

	"eshop-api/internal/domain"
)

// UpdateInput carries the mutable profile fields. Nil pointers leave
// the stored value untouched.
type UpdateInput struct {
	Name          *string
	Email         *string
	Address       *domain.Address
	PaymentMethod *string
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}
