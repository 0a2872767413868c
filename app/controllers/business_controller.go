package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/app/repository"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/catalog"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

const (
	listLimit     = 50
	featuredLimit = 6
)

// HandleHome shows featured businesses and the category list
func (ctl *Controller) HandleHome(c *fiber.Ctx) error {
	featured, err := ctl.repos.Business.Featured(featuredLimit)
	if err != nil {
		return err
	}
	categories, err := ctl.repos.Category.List()
	if err != nil {
		return err
	}
	return ctl.render(c, "home", "Local businesses", fiber.Map{
		"Featured":   featured,
		"Categories": categories,
	})
}

// HandleList is the searchable directory
func (ctl *Controller) HandleList(c *fiber.Ctx) error {
	filter := repository.BusinessFilter{
		Query:        strings.TrimSpace(c.Query("q")),
		BusinessType: c.Query("type"),
		Limit:        listLimit,
	}
	if id, err := strconv.ParseUint(c.Query("category"), 10, 64); err == nil {
		filter.CategoryID = uint(id)
	}
	if filter.BusinessType != models.BusinessTypeCommerce && filter.BusinessType != models.BusinessTypeService {
		filter.BusinessType = ""
	}

	businesses, err := ctl.repos.Business.Search(filter)
	if err != nil {
		return err
	}
	categories, err := ctl.repos.Category.List()
	if err != nil {
		return err
	}
	return ctl.render(c, "businesses/list", "Businesses", fiber.Map{
		"Businesses": businesses,
		"Categories": categories,
		"Filter":     filter,
	})
}

// HandleNearby lists active businesses, featured first then by rating.
// There is no geolocation ranking.
func (ctl *Controller) HandleNearby(c *fiber.Ctx) error {
	businesses, err := ctl.repos.Business.Nearby(listLimit)
	if err != nil {
		return err
	}
	return ctl.render(c, "businesses/nearby", "Nearby", fiber.Map{
		"Businesses": businesses,
	})
}

// HandleDetail is the public business page
func (ctl *Controller) HandleDetail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	b, err := ctl.repos.Business.GetDetail(id)
	if isNotFound(err) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	uc := usercontext.GetUserContext(c)
	if !b.IsActive && !b.IsOwnedBy(uc.UserID) {
		return notFound(c)
	}

	ctx := c.UserContext()
	if !b.IsOwnedBy(uc.UserID) {
		if err := counter.AddBusinessView(ctx, b.ID); err != nil {
			logger.Named("http").Debug("failed to count business view", zap.Uint("business_id", b.ID), zap.Error(err))
		}
	}
	list, err := ctl.reviews.ForBusiness(ctx, b.ID)
	if err != nil {
		return err
	}
	avg, err := ctl.reviews.Average(ctx, b.ID)
	if err != nil {
		return err
	}
	var own *models.Review
	if uc.IsLoggedIn {
		if own, err = ctl.reviews.UserReview(ctx, b.ID, uc.UserID); err != nil {
			return err
		}
	}

	return ctl.render(c, "businesses/detail", b.Name, fiber.Map{
		"Business":     b,
		"Capabilities": b.Capabilities(),
		"Reviews":      list,
		"AvgRating":    avg,
		"UserReview":   own,
		"IsOwner":      b.IsOwnedBy(uc.UserID),
	})
}

// HandleRegisterBusiness creates a business for the current user within the plan cap
func (ctl *Controller) HandleRegisterBusiness(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	const path = "/businesses/register/"

	if c.Method() != fiber.MethodPost {
		limit, count, err := ctl.catalog.BusinessLimit(uc.UserID)
		if err != nil {
			return err
		}
		categories, err := ctl.repos.Category.List()
		if err != nil {
			return err
		}
		return ctl.render(c, "businesses/register", "Register your business", fiber.Map{
			"Categories": categories,
			"Form":       BusinessForm{BusinessType: models.BusinessTypeService},
			"Limit":      limit,
			"Count":      count,
		})
	}

	var form BusinessForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithError(c, path, "Please check your input.")
	}
	if err := form.Validate(); err != nil {
		return redirectWithError(c, path, validationMessage(err))
	}

	b := &models.Business{}
	form.Apply(b)
	err := ctl.catalog.RegisterBusiness(c.UserContext(), uc.UserID, b)
	if errors.Is(err, catalog.ErrBusinessLimit) {
		return redirectWithError(c, path, "You have reached the maximum number of businesses for your plan. Upgrade to add more.")
	}
	if err != nil {
		return handleError(c, path, "Could not register your business.", err)
	}

	return redirectWithSuccess(c, dashboardPath(b.ID), "Your business has been registered.")
}
