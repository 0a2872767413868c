package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/reviews"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

// HandleReview creates or updates the current user's review of a business
func (ctl *Controller) HandleReview(c *fiber.Ctx) error {
	id, ok := paramID(c, "business_id")
	if !ok {
		return notFound(c)
	}
	b, err := ctl.repos.Business.GetByID(id)
	if isNotFound(err) {
		return notFound(c)
	}
	if err != nil {
		return err
	}
	uc := usercontext.GetUserContext(c)
	ctx := c.UserContext()
	path := fmt.Sprintf("/businesses/review/%d/", b.ID)

	if c.Method() != fiber.MethodPost {
		existing, err := ctl.reviews.UserReview(ctx, b.ID, uc.UserID)
		if err != nil {
			return err
		}
		form := ReviewForm{Rating: 5}
		if existing != nil {
			form = ReviewForm{Rating: existing.Rating, Comment: existing.Comment}
		}
		return ctl.render(c, "reviews/form", "Review "+b.Name, fiber.Map{
			"Business": b,
			"Form":     form,
			"Existing": existing,
		})
	}

	var form ReviewForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithError(c, path, "Please check your input.")
	}
	if err := form.Validate(); err != nil {
		return redirectWithError(c, path, reviews.ErrInvalidRating.Error())
	}

	_, created, err := ctl.reviews.Submit(ctx, reviews.SubmitInput{
		BusinessID:   b.ID,
		UserID:       uc.UserID,
		ReviewerName: uc.Username,
		Rating:       form.Rating,
		Comment:      form.Comment,
	})
	switch {
	case errors.Is(err, reviews.ErrInvalidRating):
		return redirectWithError(c, path, err.Error())
	case errors.Is(err, reviews.ErrBusinessNotFound):
		return notFound(c)
	case err != nil:
		return handleError(c, path, "Could not save your review.", err)
	}

	if created {
		return redirectWithSuccess(c, detailPath(b.ID), "Thank you for your review!")
	}
	return redirectWithSuccess(c, detailPath(b.ID), "Your review has been updated.")
}
