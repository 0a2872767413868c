package notify

import (
	"context"
	"errors"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned for ids outside the business inbox.
var ErrNotificationNotFound = errors.New("notification not found")

const DefaultListLimit = 100

// Service manages the per-business notification inbox.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// List returns the newest notifications of a business first.
func (s *Service) List(ctx context.Context, businessID uint) ([]models.Notification, error) {
	_ = ctx
	return s.repo.ListByBusiness(businessID, DefaultListLimit)
}

// ListForCustomer returns booking updates addressed to a user.
func (s *Service) ListForCustomer(ctx context.Context, userID uint) ([]models.Notification, error) {
	_ = ctx
	return s.repo.ListForUser(userID, DefaultListLimit)
}

func (s *Service) UnreadCount(ctx context.Context, businessID uint) (int64, error) {
	_ = ctx
	return s.repo.CountUnread(businessID)
}

// UnreadCountForOwner sums unread notifications across all businesses of a user.
func (s *Service) UnreadCountForOwner(ctx context.Context, ownerID uint) (int64, error) {
	_ = ctx
	return s.repo.CountUnreadForOwner(ownerID)
}

func (s *Service) MarkRead(ctx context.Context, businessID, id uint) error {
	_ = ctx
	return translate(s.repo.MarkRead(businessID, id))
}

func (s *Service) MarkAllRead(ctx context.Context, businessID uint) (int64, error) {
	_ = ctx
	return s.repo.MarkAllRead(businessID)
}

func (s *Service) Delete(ctx context.Context, businessID, id uint) error {
	_ = ctx
	return translate(s.repo.Delete(businessID, id))
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
