package apiv1

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/app/repository"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/booking"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/notify"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

// APIServer serves the JSON API documented in public/docs/v1/openapi.yml
type APIServer struct {
	businesses    repository.BusinessRepository
	bookings      *booking.Service
	notifications *notify.Service
}

// NewAPIServer creates a new API server instance
func NewAPIServer(db *gorm.DB) *APIServer {
	return &APIServer{
		businesses:    repository.NewBusinessRepository(db),
		bookings:      booking.NewServiceFromDB(db),
		notifications: notify.NewServiceFromDB(db),
	}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetAvailableTimes returns the bookable start times for ?date=YYYY-MM-DD
func (s *APIServer) GetAvailableTimes(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(Error{Error: "bad_request", Message: "invalid business id"})
	}
	date, err := booking.ParseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Error{Error: "bad_request", Message: "date must be YYYY-MM-DD"})
	}

	b, err := s.businesses.GetByID(uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !b.IsActive) {
		return c.Status(fiber.StatusNotFound).JSON(Error{Error: "not_found", Message: "business not found"})
	}
	if err != nil {
		return err
	}

	times, err := s.bookings.AvailableTimes(c.UserContext(), b.ID, date)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(AvailableTimes{
		BusinessID:     b.ID,
		Date:           date.Format(models.DateLayout),
		AvailableTimes: times,
	})
}

// GetUnreadNotifications returns the unread inbox count over all businesses of the session user
func (s *APIServer) GetUnreadNotifications(c *fiber.Ctx) error {
	n, err := s.notifications.UnreadCountForOwner(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(UnreadNotifications{Unread: n})
}
