package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/booking"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

func bookPath(businessID uint) string {
	return fmt.Sprintf("/businesses/book/%d/", businessID)
}

func detailPath(businessID uint) string {
	return fmt.Sprintf("/businesses/business/%d/", businessID)
}

// HandleBook shows the booking form and creates bookings
func (ctl *Controller) HandleBook(c *fiber.Ctx) error {
	id, ok := paramID(c, "business_id")
	if !ok {
		return notFound(c)
	}
	b, err := ctl.repos.Business.GetByID(id)
	if isNotFound(err) || (err == nil && !b.IsActive) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	uc := usercontext.GetUserContext(c)
	path := bookPath(b.ID)

	if c.Method() != fiber.MethodPost {
		return ctl.render(c, "bookings/new", "Book "+b.Name, fiber.Map{
			"Business": b,
			"Form":     BookingForm{Duration: 60, NumberOfPeople: 1},
		})
	}

	var form BookingForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithError(c, path, "Please check your input.")
	}
	if err := form.Validate(); err != nil {
		return redirectWithError(c, path, validationMessage(err))
	}
	date, err := booking.ParseDate(form.Date)
	if err != nil {
		return redirectWithError(c, path, "Please enter a valid date.")
	}

	_, err = ctl.bookings.Create(c.UserContext(), booking.CreateInput{
		BusinessID:      b.ID,
		CustomerID:      uc.UserID,
		CustomerName:    uc.Username,
		ServiceName:     form.ServiceName,
		Date:            date,
		Time:            form.Time,
		Duration:        form.Duration,
		NumberOfPeople:  form.NumberOfPeople,
		SpecialRequests: form.SpecialRequests,
	})
	switch {
	case errors.Is(err, booking.ErrSlotTaken):
		return redirectWithError(c, path, "This date and time is already booked. Please choose another time.")
	case errors.Is(err, booking.ErrDateInPast):
		return redirectWithError(c, path, "Please choose a date in the future.")
	case errors.Is(err, booking.ErrInvalidBooking):
		return redirectWithError(c, path, err.Error())
	case errors.Is(err, booking.ErrBusinessNotFound):
		return notFound(c)
	case err != nil:
		return handleError(c, path, "Could not create your booking.", err)
	}

	return redirectWithSuccess(c, "/businesses/my-bookings/", "Your booking request has been sent.")
}

// HandleOwnerBookings lists the bookings of a business and applies owner actions
func (ctl *Controller) HandleOwnerBookings(c *fiber.Ctx) error {
	return ctl.withBusiness(c, func(b *models.Business, owned []models.Business) error {
		ctx := c.UserContext()
		path := dashboardURL("bookings", b.ID)

		if c.Method() != fiber.MethodPost {
			status := c.Query("status")
			switch status {
			case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCancelled, models.BookingStatusCompleted:
			default:
				status = ""
			}
			list, err := ctl.bookings.ForBusiness(ctx, b.ID, status)
			if err != nil {
				return err
			}
			return ctl.render(c, "dashboard/bookings", "Bookings", fiber.Map{
				"Business": b,
				"Owned":    owned,
				"Bookings": list,
				"Status":   status,
			})
		}

		updated, err := ctl.bookings.Transition(ctx, usercontext.GetUserID(c), b.ID, formID(c, "booking_id"), c.FormValue("action"))
		switch {
		case errors.Is(err, booking.ErrInvalidAction):
			return redirectWithError(c, path, "Unknown action.")
		case errors.Is(err, booking.ErrBookingNotFound):
			return redirectWithError(c, path, "Booking not found.")
		case errors.Is(err, booking.ErrInvalidTransition):
			return redirectWithError(c, path, "This booking can no longer be changed that way.")
		case errors.Is(err, booking.ErrPermissionDenied):
			return redirectWithError(c, dashboardPath(0), "You do not have permission to manage this business.")
		case err != nil:
			return handleError(c, path, "Could not update the booking.", err)
		}
		return redirectWithSuccess(c, path, fmt.Sprintf("Booking %s.", updated.Status))
	})
}

// HandleMyBookings shows the customer's bookings and the updates sent to them
func (ctl *Controller) HandleMyBookings(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := usercontext.GetUserID(c)
	list, err := ctl.bookings.ForCustomer(ctx, userID)
	if err != nil {
		return err
	}
	updates, err := ctl.notifications.ListForCustomer(ctx, userID)
	if err != nil {
		return err
	}
	return ctl.render(c, "bookings/mine", "My bookings", fiber.Map{
		"Bookings": list,
		"Updates":  updates,
	})
}

// HandleAvailableTimes returns the bookable start times of a date as JSON
func (ctl *Controller) HandleAvailableTimes(c *fiber.Ctx) error {
	id, ok := paramID(c, "business_id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "business not found"})
	}
	date, err := booking.ParseDate(c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	if _, err := ctl.repos.Business.GetByID(id); err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "business not found"})
		}
		return err
	}
	times, err := ctl.bookings.AvailableTimes(c.UserContext(), id, date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"available_times": times})
}
