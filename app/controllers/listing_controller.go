package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/catalog"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/upload"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

// HandlePhotos lists, uploads, promotes and deletes business photos
func (ctl *Controller) HandlePhotos(c *fiber.Ctx) error {
	return ctl.withBusiness(c, func(b *models.Business, owned []models.Business) error {
		userID := usercontext.GetUserID(c)
		path := dashboardURL("photos", b.ID)

		if c.Method() != fiber.MethodPost {
			photos, err := ctl.catalog.Photos(userID, b.ID)
			if err != nil {
				return err
			}
			return ctl.render(c, "dashboard/photos", "Photos", fiber.Map{
				"Business":  b,
				"Owned":     owned,
				"Photos":    photos,
				"MaxPhotos": b.Capabilities().MaxPhotos,
				"CanUpload": len(photos) < b.Capabilities().MaxPhotos,
			})
		}

		ctx := c.UserContext()
		switch c.FormValue("action", "upload") {
		case "primary":
			if err := ctl.catalog.SetPrimaryPhoto(ctx, userID, b.ID, formID(c, "photo_id")); err != nil {
				if isNotFound(err) {
					return redirectWithError(c, path, "Photo not found.")
				}
				return handleError(c, path, "Could not update the primary photo.", err)
			}
			return redirectWithSuccess(c, path, "Primary photo updated.")

		case "delete":
			if err := ctl.catalog.DeletePhoto(ctx, userID, b.ID, formID(c, "photo_id")); err != nil {
				if isNotFound(err) {
					return redirectWithError(c, path, "Photo not found.")
				}
				return handleError(c, path, "Could not delete the photo.", err)
			}
			return redirectWithSuccess(c, path, "Photo deleted.")
		}

		fh, err := c.FormFile("photo")
		if err != nil {
			return redirectWithError(c, path, "Please choose a photo to upload.")
		}
		p, err := upload.ReadPhoto(fh)
		if err != nil {
			return redirectWithError(c, path, err.Error())
		}
		_, err = ctl.catalog.AddPhoto(ctx, userID, b.ID, p)
		switch {
		case errors.Is(err, catalog.ErrPhotoLimit):
			return redirectWithError(c, path, fmt.Sprintf("Your plan allows %d photo(s). Upgrade to add more.", b.Capabilities().MaxPhotos))
		case errors.Is(err, upload.ErrUnsupportedType):
			return redirectWithError(c, path, upload.ErrUnsupportedType.Error())
		case err != nil:
			return handleError(c, path, "Could not upload the photo.", err)
		}
		return redirectWithSuccess(c, path, "Photo uploaded.")
	})
}

// HandleHours manages opening hours, one row per weekday
func (ctl *Controller) HandleHours(c *fiber.Ctx) error {
	return ctl.withBusiness(c, func(b *models.Business, owned []models.Business) error {
		userID := usercontext.GetUserID(c)
		path := dashboardURL("hours", b.ID)

		if c.Method() != fiber.MethodPost {
			hours, err := ctl.catalog.Hours(userID, b.ID)
			if err != nil {
				return err
			}
			return ctl.render(c, "dashboard/hours", "Opening hours", fiber.Map{
				"Business": b,
				"Owned":    owned,
				"Hours":    hours,
			})
		}

		ctx := c.UserContext()
		if c.FormValue("action") == "delete" {
			if err := ctl.catalog.DeleteHours(ctx, userID, b.ID, formID(c, "hours_id")); err != nil {
				if isNotFound(err) {
					return redirectWithError(c, path, "Opening hours not found.")
				}
				return handleError(c, path, "Could not delete the opening hours.", err)
			}
			return redirectWithSuccess(c, path, "Opening hours deleted.")
		}

		h := &models.BusinessHours{
			BusinessID: b.ID,
			DayOfWeek:  c.FormValue("day_of_week"),
			OpenTime:   c.FormValue("open_time"),
			CloseTime:  c.FormValue("close_time"),
			IsClosed:   c.FormValue("is_closed") != "",
		}
		err := ctl.catalog.AddHours(ctx, userID, h)
		switch {
		case errors.Is(err, catalog.ErrHoursExist):
			return redirectWithError(c, path, "Opening hours for this day already exist.")
		case errors.Is(err, catalog.ErrInvalidHours):
			return redirectWithError(c, path, err.Error())
		case err != nil:
			return handleError(c, path, "Could not save the opening hours.", err)
		}
		return redirectWithSuccess(c, path, "Opening hours added.")
	})
}

// HandleTimeSlots manages the recurring availability template
func (ctl *Controller) HandleTimeSlots(c *fiber.Ctx) error {
	return ctl.withBusiness(c, func(b *models.Business, owned []models.Business) error {
		userID := usercontext.GetUserID(c)
		path := dashboardURL("time-slots", b.ID)

		if c.Method() != fiber.MethodPost {
			slots, err := ctl.catalog.TimeSlots(userID, b.ID)
			if err != nil {
				return err
			}
			return ctl.render(c, "dashboard/time_slots", "Time slots", fiber.Map{
				"Business":  b,
				"Owned":     owned,
				"TimeSlots": slots,
			})
		}

		ctx := c.UserContext()
		if c.FormValue("action") == "delete" {
			if err := ctl.catalog.DeleteTimeSlot(ctx, userID, b.ID, formID(c, "slot_id")); err != nil {
				if isNotFound(err) {
					return redirectWithError(c, path, "Time slot not found.")
				}
				return handleError(c, path, "Could not delete the time slot.", err)
			}
			return redirectWithSuccess(c, path, "Time slot deleted.")
		}

		slot := &models.TimeSlot{
			BusinessID: b.ID,
			DayOfWeek:  c.FormValue("day_of_week"),
			StartTime:  c.FormValue("start_time"),
			EndTime:    c.FormValue("end_time"),
		}
		if d, err := strconv.Atoi(c.FormValue("duration")); err == nil {
			slot.Duration = d
		}
		err := ctl.catalog.AddTimeSlot(ctx, userID, slot)
		switch {
		case errors.Is(err, catalog.ErrInvalidTimeSlot):
			return redirectWithError(c, path, err.Error())
		case err != nil:
			return handleError(c, path, "Could not save the time slot.", err)
		}
		return redirectWithSuccess(c, path, "Time slot added.")
	})
}
