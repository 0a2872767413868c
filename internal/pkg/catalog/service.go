// Package catalog manages businesses and the listing content their owners maintain:
// photos, opening hours and time slots.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/app/repository"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/booking"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/entitlements"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/storage"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/upload"
)

var (
	ErrBusinessLimit    = errors.New("business limit reached for your plan")
	ErrPhotoLimit       = errors.New("photo limit reached for this plan")
	ErrHoursExist       = errors.New("opening hours for this day already exist")
	ErrInvalidHours     = errors.New("invalid opening hours")
	ErrInvalidTimeSlot  = errors.New("invalid time slot")
	ErrPermissionDenied = repository.ErrForbidden
)

// Service is the owner-facing catalog API.
type Service struct {
	repos *repository.Repositories
	store storage.Store
}

func NewService(repos *repository.Repositories, store storage.Store) *Service {
	return &Service{repos: repos, store: store}
}

func NewServiceFromDB(db *gorm.DB, store storage.Store) *Service {
	return NewService(repository.NewRepositories(db), store)
}

// Store returns the photo backend, used to build photo URLs.
func (s *Service) Store() storage.Store {
	return s.store
}

// BusinessLimit returns how many businesses ownerID may have and how many exist.
func (s *Service) BusinessLimit(ownerID uint) (limit int, count int64, err error) {
	return businessLimit(s.repos.Business, ownerID)
}

func businessLimit(repo repository.BusinessRepository, ownerID uint) (int, int64, error) {
	raw, err := repo.OwnerPlanTypes(ownerID)
	if err != nil {
		return 0, 0, err
	}
	plans := make([]entitlements.Plan, 0, len(raw))
	for _, p := range raw {
		plans = append(plans, entitlements.Normalize(p))
	}
	count, err := repo.CountByOwner(ownerID)
	if err != nil {
		return 0, 0, err
	}
	return entitlements.MaxBusinesses(plans), count, nil
}

// RegisterBusiness creates a business on the free plan for ownerID. The cap
// check and the insert share one transaction with the owner row locked.
func (s *Service) RegisterBusiness(ctx context.Context, ownerID uint, b *models.Business) error {
	_ = ctx
	b.ID = 0
	b.UserID = ownerID
	b.IsActive = true
	b.Plan = &models.BusinessPlan{PlanType: string(entitlements.PlanFree)}

	return s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Business.LockOwner(ownerID); err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}
		limit, count, err := businessLimit(tx.Business, ownerID)
		if err != nil {
			return err
		}
		if count >= int64(limit) {
			return ErrBusinessLimit
		}
		if err := tx.Business.Create(b); err != nil {
			return fmt.Errorf("create business: %w", err)
		}
		return nil
	})
}

// Owned loads a business of ownerID.
func (s *Service) Owned(ownerID, businessID uint) (*models.Business, error) {
	return s.repos.Business.GetOwned(businessID, ownerID)
}

// UpdateBusiness stores the editable fields of an owned business.
func (s *Service) UpdateBusiness(ctx context.Context, ownerID uint, b *models.Business) error {
	_ = ctx
	existing, err := s.repos.Business.GetOwned(b.ID, ownerID)
	if err != nil {
		return err
	}
	b.UserID = existing.UserID
	return s.repos.Business.Update(b)
}

// DeleteBusiness removes an owned business, its children and its stored photos.
func (s *Service) DeleteBusiness(ctx context.Context, ownerID, businessID uint) error {
	if _, err := s.repos.Business.GetOwned(businessID, ownerID); err != nil {
		return err
	}
	photos, err := s.repos.Photo.ListByBusiness(businessID)
	if err != nil {
		return err
	}
	if err := s.repos.Business.Delete(businessID); err != nil {
		return fmt.Errorf("delete business: %w", err)
	}
	for i := range photos {
		s.removeFiles(ctx, &photos[i])
	}
	return nil
}

// AddPhoto stores an uploaded photo and its thumbnail within the plan's photo limit.
func (s *Service) AddPhoto(ctx context.Context, ownerID, businessID uint, p *upload.Photo) (*models.BusinessPhoto, error) {
	b, err := s.repos.Business.GetOwned(businessID, ownerID)
	if err != nil {
		return nil, err
	}
	count, err := s.repos.Photo.CountByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	if count >= int64(b.Capabilities().MaxPhotos) {
		return nil, ErrPhotoLimit
	}

	processed, err := imageprocessor.Process(p.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upload.ErrUnsupportedType, err)
	}

	key, thumbKey := storage.PhotoKeys(businessID, p.Ext)
	putCtx, cancel := context.WithTimeout(ctx, storage.DefaultTimeout)
	defer cancel()
	if err := s.store.Put(putCtx, key, bytes.NewReader(p.Data), int64(len(p.Data)), p.ContentType); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}
	if err := s.store.Put(putCtx, thumbKey, bytes.NewReader(processed.Thumbnail), int64(len(processed.Thumbnail)), "image/jpeg"); err != nil {
		_ = s.store.Delete(putCtx, key)
		return nil, fmt.Errorf("store thumbnail: %w", err)
	}

	photo := &models.BusinessPhoto{
		BusinessID:    businessID,
		Path:          key,
		ThumbnailPath: thumbKey,
		ContentType:   p.ContentType,
		Size:          int64(len(p.Data)),
	}
	if err := s.repos.Photo.Create(photo); err != nil {
		s.removeFiles(ctx, photo)
		return nil, fmt.Errorf("save photo: %w", err)
	}
	return photo, nil
}

// Photos lists the photos of an owned business.
func (s *Service) Photos(ownerID, businessID uint) ([]models.BusinessPhoto, error) {
	if _, err := s.repos.Business.GetOwned(businessID, ownerID); err != nil {
		return nil, err
	}
	return s.repos.Photo.ListByBusiness(businessID)
}

func (s *Service) SetPrimaryPhoto(ctx context.Context, ownerID, businessID, photoID uint) error {
	_ = ctx
	if _, err := s.repos.Business.GetOwned(businessID, ownerID); err != nil {
		return err
	}
	return s.repos.Photo.SetPrimary(businessID, photoID)
}

func (s *Service) DeletePhoto(ctx context.Context, ownerID, businessID, photoID uint) error {
	if _, err := s.repos.Business.GetOwned(businessID, ownerID); err != nil {
		return err
	}
	photo, err := s.repos.Photo.Delete(businessID, photoID)
	if err != nil {
		return err
	}
	s.removeFiles(ctx, photo)
	return nil
}

// removeFiles deletes stored objects; failures only leave orphans behind.
func (s *Service) removeFiles(ctx context.Context, photo *models.BusinessPhoto) {
	delCtx, cancel := context.WithTimeout(ctx, storage.DefaultTimeout)
	defer cancel()
	for _, key := range []string{photo.Path, photo.ThumbnailPath} {
		if key == "" {
			continue
		}
		if err := s.store.Delete(delCtx, key); err != nil {
			logger.Named("catalog").Warn("failed to delete stored photo",
				zap.Uint("photo_id", photo.ID), zap.String("key", key), zap.Error(err))
		}
	}
}

// Hours lists the opening hours of an owned business, Monday first.
func (s *Service) Hours(ownerID, businessID uint) ([]models.BusinessHours, error) {
	if _, err := s.repos.Business.GetOwned(businessID, ownerID); err != nil {
		return nil, err
	}
	return s.repos.Hours.ListByBusiness(businessID)
}

// AddHours adds the opening hours of one weekday.
func (s *Service) AddHours(ctx context.Context, ownerID uint, h *models.BusinessHours) error {
	_ = ctx
	if _, err := s.repos.Business.GetOwned(h.BusinessID, ownerID); err != nil {
		return err
	}
	if err := validateHours(h); err != nil {
		return err
	}
	err := s.repos.Hours.Create(h)
	if errors.Is(err, repository.ErrConflict) {
		return ErrHoursExist
	}
	return err
}

func (s *Service) DeleteHours(ctx context.Context, ownerID, businessID, hoursID uint) error {
	_ = ctx
	if _, err := s.repos.Business.GetOwned(businessID, ownerID); err != nil {
		return err
	}
	return s.repos.Hours.Delete(businessID, hoursID)
}

func validateHours(h *models.BusinessHours) error {
	h.DayOfWeek = strings.ToLower(strings.TrimSpace(h.DayOfWeek))
	if !models.IsWeekdayKey(h.DayOfWeek) {
		return fmt.Errorf("%w: unknown day %q", ErrInvalidHours, h.DayOfWeek)
	}
	if h.IsClosed {
		h.OpenTime, h.CloseTime = "", ""
		return nil
	}
	open, err := booking.ParseClock(h.OpenTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}
	closing, err := booking.ParseClock(h.CloseTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHours, err)
	}
	if open >= closing {
		return fmt.Errorf("%w: opening time must be before closing time", ErrInvalidHours)
	}
	h.OpenTime, h.CloseTime = booking.FormatClock(open), booking.FormatClock(closing)
	return nil
}

// TimeSlots lists the time slots of an owned business.
func (s *Service) TimeSlots(ownerID, businessID uint) ([]models.TimeSlot, error) {
	if _, err := s.repos.Business.GetOwned(businessID, ownerID); err != nil {
		return nil, err
	}
	return s.repos.TimeSlot.ListByBusiness(businessID)
}

// AddTimeSlot adds a recurring availability slot.
func (s *Service) AddTimeSlot(ctx context.Context, ownerID uint, slot *models.TimeSlot) error {
	_ = ctx
	if _, err := s.repos.Business.GetOwned(slot.BusinessID, ownerID); err != nil {
		return err
	}
	slot.DayOfWeek = strings.ToLower(strings.TrimSpace(slot.DayOfWeek))
	if !models.IsWeekdayKey(slot.DayOfWeek) {
		return fmt.Errorf("%w: unknown day %q", ErrInvalidTimeSlot, slot.DayOfWeek)
	}
	start, err := booking.ParseClock(slot.StartTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	end, err := booking.ParseClock(slot.EndTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}
	if start >= end {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidTimeSlot)
	}
	if slot.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidTimeSlot)
	}
	slot.StartTime, slot.EndTime = booking.FormatClock(start), booking.FormatClock(end)
	slot.IsActive = true
	return s.repos.TimeSlot.Create(slot)
}

func (s *Service) DeleteTimeSlot(ctx context.Context, ownerID, businessID, slotID uint) error {
	_ = ctx
	if _, err := s.repos.Business.GetOwned(businessID, ownerID); err != nil {
		return err
	}
	return s.repos.TimeSlot.Delete(businessID, slotID)
}
