// Package review implements product reviews. One review per user and
// product; writing one updates the product's rating aggregate.
package review

import (
	"context"
	"io"
	"log"
	"strings"

	"eshop-api/internal/domain"
	reviewrepo "eshop-api/internal/repository/review"
)

type Service struct {
	repo   reviewRepo
	logger *log.Logger
}

type reviewRepo interface {
	Create(ctx context.Context, rv domain.Review) (*domain.Review, error)
	Update(ctx context.Context, rv domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error)
	HasPurchased(ctx context.Context, userID, productID string) (bool, error)
}

func New(repo reviewrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

type CreateInput struct {
	ProductID   string `json:"productId" binding:"required"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// Create stores a review for the user, flagging it as a verified
// purchase when the user has ordered the product before.
func (s *Service) Create(ctx context.Context, user *domain.User, in CreateInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.Validation("rating must be between 1 and 5")
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, domain.Validation("title and description required")
	}

	verified, err := s.repo.HasPurchased(ctx, user.ID, in.ProductID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, domain.Review{
		UserID:             user.ID,
		ProductID:          in.ProductID,
		Rating:             in.Rating,
		Title:              strings.TrimSpace(in.Title),
		Description:        strings.TrimSpace(in.Description),
		IsVerifiedPurchase: verified,
	})
	if err != nil {
		return nil, err
	}
	created.UserName = user.Name
	return created, nil
}

type UpdateInput struct {
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// Update rewrites a review. Only its author or an admin may do so.
func (s *Service) Update(ctx context.Context, user *domain.User, id string, in UpdateInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.Validation("rating must be between 1 and 5")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != user.ID && !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	existing.Rating = in.Rating
	existing.Title = strings.TrimSpace(in.Title)
	existing.Description = strings.TrimSpace(in.Description)
	return s.repo.Update(ctx, *existing)
}

// Delete removes a review. Only its author or an admin may do so.
func (s *Service) Delete(ctx context.Context, user *domain.User, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != user.ID && !user.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// ListResult is one page of reviews for a product.
type ListResult struct {
	Items []domain.Review `json:"items"`
	Total int             `json:"total"`
}

func (s *Service) ListByProduct(ctx context.Context, productID string, limit, offset int) (*ListResult, error) {
	items, total, err := s.repo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total}, nil
}
