package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/notify"
	"gorm.io/gorm"
)

var (
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrBusinessNotFound = errors.New("business not found")
)

// SubmitInput is a review posted by a user.
type SubmitInput struct {
	BusinessID   uint
	UserID       uint
	ReviewerName string
	Rating       int
	Comment      string
}

// Service upserts reviews and aggregates ratings.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Submit updates the user's existing review of the business in place or
// inserts a new one. Only inserts notify the business. The bool reports
// whether a row was created.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Review, bool, error) {
	_ = ctx
	if in.Rating < 1 || in.Rating > 5 {
		return nil, false, ErrInvalidRating
	}

	var (
		review  *models.Review
		created bool
	)
	err := s.repo.Transaction(func(repo Repository) error {
		ok, err := repo.BusinessExists(in.BusinessID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBusinessNotFound
		}

		existing, err := repo.Find(in.BusinessID, in.UserID)
		switch {
		case err == nil:
			existing.Rating = in.Rating
			existing.Comment = strings.TrimSpace(in.Comment)
			review = existing
			return repo.Update(existing)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		review = &models.Review{
			BusinessID: in.BusinessID,
			UserID:     in.UserID,
			Rating:     in.Rating,
			Comment:    strings.TrimSpace(in.Comment),
		}
		if err := repo.Create(review); err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		created = true
		return repo.Notify(notify.ReviewCreated(review, in.ReviewerName))
	})
	if err != nil {
		return nil, false, err
	}
	return review, created, nil
}

// ForBusiness lists reviews newest first.
func (s *Service) ForBusiness(ctx context.Context, businessID uint) ([]models.Review, error) {
	_ = ctx
	return s.repo.ListByBusiness(businessID)
}

// Average returns the mean rating, or nil without reviews.
func (s *Service) Average(ctx context.Context, businessID uint) (*float64, error) {
	_ = ctx
	return s.repo.Average(businessID)
}

// UserReview returns the user's own review of a business, nil when absent.
func (s *Service) UserReview(ctx context.Context, businessID, userID uint) (*models.Review, error) {
	_ = ctx
	if userID == 0 {
		return nil, nil
	}
	r, err := s.repo.Find(businessID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return r, err
}
