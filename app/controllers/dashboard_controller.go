package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/app/repository"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

const recentLimit = 5

var errNoBusiness = errors.New("user owns no business")

func dashboardPath(businessID uint) string {
	return dashboardURL("", businessID)
}

// dashboardURL builds /businesses/dashboard/<sub>?business_id=<id>
func dashboardURL(sub string, businessID uint) string {
	path := "/businesses/dashboard/"
	if sub != "" {
		path += sub + "/"
	}
	if businessID == 0 {
		return path
	}
	return fmt.Sprintf("%s?business_id=%d", path, businessID)
}

// selectBusiness resolves the business the dashboard works on: the
// business_id parameter when given, the owner's first business otherwise.
func (ctl *Controller) selectBusiness(c *fiber.Ctx) (*models.Business, []models.Business, error) {
	uc := usercontext.GetUserContext(c)
	owned, err := ctl.repos.Business.ListByOwner(uc.UserID)
	if err != nil {
		return nil, nil, err
	}
	if len(owned) == 0 {
		return nil, nil, errNoBusiness
	}

	id := formID(c, "business_id")
	if id == 0 {
		id = owned[0].ID
	}
	b, err := ctl.repos.Business.GetOwned(id, uc.UserID)
	if err != nil {
		return nil, owned, err
	}
	return b, owned, nil
}

// withBusiness runs fn for the selected business, redirecting when there is none
func (ctl *Controller) withBusiness(c *fiber.Ctx, fn func(b *models.Business, owned []models.Business) error) error {
	b, owned, err := ctl.selectBusiness(c)
	switch {
	case errors.Is(err, errNoBusiness):
		return redirectWithInfo(c, "/businesses/register/", "Register a business first.")
	case errors.Is(err, repository.ErrForbidden), isNotFound(err):
		return redirectWithError(c, dashboardPath(0), "Business not found or you do not have permission.")
	case err != nil:
		return err
	}
	return fn(b, owned)
}

// HandleDashboard is the owner overview
func (ctl *Controller) HandleDashboard(c *fiber.Ctx) error {
	return ctl.withBusiness(c, func(b *models.Business, owned []models.Business) error {
		ctx := c.UserContext()
		photoCount, err := ctl.repos.Photo.CountByBusiness(b.ID)
		if err != nil {
			return err
		}
		pending, err := ctl.bookings.CountPending(ctx, b.ID)
		if err != nil {
			return err
		}
		avg, err := ctl.reviews.Average(ctx, b.ID)
		if err != nil {
			return err
		}
		unread, err := ctl.notifications.UnreadCount(ctx, b.ID)
		if err != nil {
			return err
		}
		notifications, err := ctl.notifications.List(ctx, b.ID)
		if err != nil {
			return err
		}
		if len(notifications) > recentLimit {
			notifications = notifications[:recentLimit]
		}
		upgrades, err := ctl.upgrades.ForBusiness(ctx, b.ID, recentLimit)
		if err != nil {
			return err
		}

		return ctl.render(c, "dashboard/index", "Dashboard", fiber.Map{
			"Business":        b,
			"Owned":           owned,
			"Capabilities":    b.Capabilities(),
			"PhotoCount":      photoCount,
			"PendingBookings": pending,
			"AvgRating":       avg,
			"UnreadCount":     unread,
			"Notifications":   notifications,
			"Upgrades":        upgrades,
		})
	})
}

// HandleEdit updates the business details
func (ctl *Controller) HandleEdit(c *fiber.Ctx) error {
	return ctl.withBusiness(c, func(b *models.Business, owned []models.Business) error {
		path := dashboardURL("edit", b.ID)
		if c.Method() != fiber.MethodPost {
			categories, err := ctl.repos.Category.List()
			if err != nil {
				return err
			}
			return ctl.render(c, "dashboard/edit", "Edit business", fiber.Map{
				"Business":     b,
				"Owned":        owned,
				"Capabilities": b.Capabilities(),
				"Categories":   categories,
				"Form":         businessFormFrom(b),
			})
		}

		var form BusinessForm
		if err := c.BodyParser(&form); err != nil {
			return redirectWithError(c, path, "Please check your input.")
		}
		if err := form.Validate(); err != nil {
			return redirectWithError(c, path, validationMessage(err))
		}
		form.Apply(b)
		if err := ctl.catalog.UpdateBusiness(c.UserContext(), usercontext.GetUserID(c), b); err != nil {
			return handleError(c, path, "Could not update your business.", err)
		}
		return redirectWithSuccess(c, dashboardPath(b.ID), "Business updated.")
	})
}

// HandleDelete removes the business and everything attached to it
func (ctl *Controller) HandleDelete(c *fiber.Ctx) error {
	return ctl.withBusiness(c, func(b *models.Business, _ []models.Business) error {
		if err := ctl.catalog.DeleteBusiness(c.UserContext(), usercontext.GetUserID(c), b.ID); err != nil {
			return handleError(c, dashboardPath(b.ID), "Could not delete your business.", err)
		}
		return redirectWithSuccess(c, "/businesses/", fmt.Sprintf("%s has been deleted.", b.Name))
	})
}
