// Package user implements accounts: signup, login, token refresh,
// profile management and the admin user operations.
package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"eshop-api/internal/domain"
	"eshop-api/internal/email"
	userrepo "eshop-api/internal/repository/user"
)

type Service struct {
	repo   userRepo
	tokens *TokenManager
	mailer email.Mailer
	logger *log.Logger
}

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, in userrepo.UpdateInput) (*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

func New(repo userrepo.Repository, tokens *TokenManager, mailer email.Mailer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, tokens: tokens, mailer: mailer, logger: logger}
}

type SignupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup creates an account, sends the welcome mail in the background
// and returns the user with a fresh token pair.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, TokenPair, error) {
	name := strings.TrimSpace(in.Name)
	mail := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || mail == "" {
		return nil, TokenPair{}, domain.Validation("name and email required")
	}
	if len(in.Password) < 6 {
		return nil, TokenPair{}, domain.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, err
	}

	created, err := s.repo.Create(ctx, domain.User{
		Name:         name,
		Email:        mail,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.tokens.Issue(created.ID, created.Email, created.Role)
	if err != nil {
		return nil, TokenPair{}, err
	}

	if s.mailer != nil {
		go func(to, name string) {
			if err := s.mailer.SendWelcome(context.Background(), to, name); err != nil {
				s.logger.Printf("user service: welcome mail to=%s error=%v", to, err)
			}
		}(created.Email, created.Name)
	}

	return created, pair, nil
}

// Login verifies the credentials and returns the user with a fresh
// token pair. Unknown email and wrong password both map to
// domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*domain.User, TokenPair, error) {
	mail := strings.ToLower(strings.TrimSpace(in.Email))
	u, err := s.repo.GetByEmail(ctx, mail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, TokenPair{}, domain.ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, TokenPair{}, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The
// user is re-read so revoked accounts and role changes take effect.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.User, TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, TokenPair{}, domain.ErrInvalidCredentials
	}
	u, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, TokenPair{}, domain.ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}
	pair, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Authenticate verifies an access token and loads its user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	u, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, domain.Validation("name must not be empty")
		}
		in.Name = &trimmed
	}
	if in.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*in.Email))
		if lowered == "" {
			return nil, domain.Validation("email must not be empty")
		}
		in.Email = &lowered
	}
	return s.repo.Update(ctx, userID, userrepo.UpdateInput{Name: in.Name, Email: in.Email})
}

// UpdateAddress replaces the user's stored shipping address.
func (s *Service) UpdateAddress(ctx context.Context, userID string, addr domain.Address) (*domain.User, error) {
	if addr.FullName == "" || addr.StreetAddress == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		return nil, domain.Validation("all address fields are required")
	}
	return s.repo.Update(ctx, userID, userrepo.UpdateInput{Address: &addr})
}

// UpdatePaymentMethod stores the user's preferred payment method.
func (s *Service) UpdatePaymentMethod(ctx context.Context, userID, method string) (*domain.User, error) {
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.Validation("invalid payment method")
	}
	return s.repo.Update(ctx, userID, userrepo.UpdateInput{PaymentMethod: &method})
}

// List returns all users. Admin only, enforced at the HTTP layer.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

type AdminUpdateInput struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

// AdminUpdate lets an admin rename a user or change their role.
func (s *Service) AdminUpdate(ctx context.Context, id string, in AdminUpdateInput) (*domain.User, error) {
	if in.Role != nil {
		if *in.Role != domain.RoleUser && *in.Role != domain.RoleAdmin {
			return nil, domain.Validation("invalid role")
		}
		if _, err := s.repo.UpdateRole(ctx, id, *in.Role); err != nil {
			return nil, err
		}
	}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, domain.Validation("name must not be empty")
		}
		return s.repo.Update(ctx, id, userrepo.UpdateInput{Name: &trimmed})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
