package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/notify"
	"gorm.io/gorm"
)

var (
	ErrSlotTaken         = errors.New("this date and time is already booked")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBusinessNotFound  = errors.New("business not found")
	ErrInvalidTransition = errors.New("booking status cannot change this way")
	ErrInvalidAction     = errors.New("unknown booking action")
	ErrDateInPast        = errors.New("booking date lies in the past")
	ErrInvalidBooking    = errors.New("invalid booking")
)

// CreateInput is a booking submitted by a customer.
type CreateInput struct {
	BusinessID      uint
	CustomerID      uint
	CustomerName    string
	ServiceName     string
	Date            time.Time
	Time            string
	Duration        int
	NumberOfPeople  int
	SpecialRequests string
}

// Service runs the booking workflow.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a booking service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceFromDB creates a booking service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Create stores a pending booking and notifies the business. Only the exact
// (business, date, time) triple is guarded; overlapping times are accepted.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	_ = ctx
	minutes, err := ParseClock(strings.TrimSpace(in.Time))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBooking, err)
	}
	if strings.TrimSpace(in.ServiceName) == "" {
		return nil, fmt.Errorf("%w: service name is required", ErrInvalidBooking)
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidBooking)
	}
	if in.NumberOfPeople < 1 {
		return nil, fmt.Errorf("%w: at least one person is required", ErrInvalidBooking)
	}
	date := models.NormalizeDate(in.Date)
	if date.Before(models.NormalizeDate(s.now())) {
		return nil, ErrDateInPast
	}

	b := &models.Booking{
		BusinessID:      in.BusinessID,
		UserID:          in.CustomerID,
		ServiceName:     strings.TrimSpace(in.ServiceName),
		BookingDate:     date,
		BookingTime:     FormatClock(minutes),
		Duration:        in.Duration,
		NumberOfPeople:  in.NumberOfPeople,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Status:          models.BookingStatusPending,
	}

	err = s.repo.Transaction(func(repo Repository) error {
		if _, err := repo.GetBusiness(in.BusinessID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBusinessNotFound
			}
			return err
		}
		taken, err := repo.SlotTaken(b.BusinessID, b.BookingDate, b.BookingTime)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		if err := repo.Create(b); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotTaken
			}
			return fmt.Errorf("create booking: %w", err)
		}
		return repo.Notify(notify.BookingCreated(b, in.CustomerName))
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Transition applies an owner action (confirm, cancel, complete) and
// notifies the customer.
func (s *Service) Transition(ctx context.Context, ownerID, businessID, bookingID uint, action string) (*models.Booking, error) {
	_ = ctx
	target, ok := TargetStatus(strings.ToLower(strings.TrimSpace(action)))
	if !ok {
		return nil, ErrInvalidAction
	}

	var booking *models.Booking
	err := s.repo.Transaction(func(repo Repository) error {
		business, err := repo.GetBusiness(businessID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		if err != nil {
			return err
		}
		if !business.IsOwnedBy(ownerID) {
			return ErrPermissionDenied
		}

		b, err := repo.Get(businessID, bookingID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		if !CanTransition(b.Status, target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, target)
		}

		b.Status = target
		if err := repo.UpdateStatus(b); err != nil {
			return err
		}
		booking = b
		return repo.Notify(notify.BookingStatusChanged(b))
	})
	return booking, err
}

// AvailableTimes lists the start times offered on a date: derived from the
// active time slots of that weekday, or DefaultTimes when there are none.
// Existing bookings are not subtracted.
func (s *Service) AvailableTimes(ctx context.Context, businessID uint, date time.Time) ([]string, error) {
	_ = ctx
	slots, err := s.repo.ActiveSlots(businessID, models.WeekdayKey(date.Weekday()))
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		out := make([]string, len(DefaultTimes))
		copy(out, DefaultTimes)
		return out, nil
	}
	return SlotTimes(slots), nil
}

// ForBusiness lists bookings of a business, newest date and time first,
// optionally filtered by status.
func (s *Service) ForBusiness(ctx context.Context, businessID uint, status string) ([]models.Booking, error) {
	_ = ctx
	return s.repo.ListByBusiness(businessID, status)
}

// ForCustomer lists the bookings a user made.
func (s *Service) ForCustomer(ctx context.Context, userID uint) ([]models.Booking, error) {
	_ = ctx
	return s.repo.ListByUser(userID)
}

func (s *Service) CountPending(ctx context.Context, businessID uint) (int64, error) {
	_ = ctx
	return s.repo.CountByStatus(businessID, models.BookingStatusPending)
}

func (s *Service) CountAll(ctx context.Context) (int64, error) {
	_ = ctx
	return s.repo.Count()
}

// ParseDate parses a YYYY-MM-DD booking date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
