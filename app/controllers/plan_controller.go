package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/billing"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/entitlements"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/security"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/session"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/statistics"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/upgrade"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

const noSelectionMessage = "Please choose a plan first."

// HandlePlan shows the plans and records the owner's choice. The free plan is
// applied right away; paid plans continue at checkout.
func (ctl *Controller) HandlePlan(c *fiber.Ctx) error {
	return ctl.withBusiness(c, func(b *models.Business, owned []models.Business) error {
		uc := usercontext.GetUserContext(c)
		path := dashboardURL("plan", b.ID)
		ctx := c.UserContext()

		if c.Method() != fiber.MethodPost {
			prices, err := ctl.billing.Catalog(ctx)
			if err != nil {
				return err
			}
			return ctl.render(c, "dashboard/plan", "Choose a plan", fiber.Map{
				"Business":    b,
				"Owned":       owned,
				"CurrentPlan": b.PlanType(),
				"Plans":       entitlements.All(),
				"Prices":      pricesByPlan(prices),
				"PlanRow":     b.Plan,
			})
		}

		raw := strings.ToLower(strings.TrimSpace(c.FormValue("plan")))
		if !entitlements.IsValid(raw) {
			return redirectWithError(c, path, "Unknown plan.")
		}
		plan := entitlements.Plan(raw)

		if !entitlements.IsPaid(plan) {
			if _, err := ctl.upgrades.ApplyFree(ctx, upgrade.Actor{UserID: uc.UserID}, b.ID); err != nil {
				return handleError(c, path, "Could not change the plan.", err)
			}
			return redirectWithSuccess(c, dashboardPath(b.ID), "Your business is now on the free plan.")
		}

		token, err := security.GenerateCheckoutToken(uc.UserID, b.ID, string(plan), security.CheckoutTokenTTL, ctl.secret)
		if err != nil {
			return handleError(c, path, "Could not start the checkout.", err)
		}
		if err := session.SetSessionValue(c, usercontext.KeyCheckoutToken, token); err != nil {
			return handleError(c, path, "Could not start the checkout.", err)
		}
		return c.Redirect(dashboardURL("checkout", b.ID), fiber.StatusSeeOther)
	})
}

// checkoutSelection returns the plan selection stored in the session when it
// is valid for the current user. Expired or tampered tokens count as no selection.
func (ctl *Controller) checkoutSelection(c *fiber.Ctx) *security.CheckoutClaims {
	token := session.GetSessionValue(c, usercontext.KeyCheckoutToken)
	if token == "" {
		return nil
	}
	claims, err := security.VerifyCheckoutToken(token, ctl.secret)
	if err != nil {
		if !errors.Is(err, security.ErrTokenExpired) {
			logger.Named("http").Warn("rejected checkout token", zap.Uint("user_id", usercontext.GetUserID(c)), zap.Error(err))
		}
		return nil
	}
	if claims.UserID != usercontext.GetUserID(c) {
		return nil
	}
	return claims
}

// HandleCheckout confirms a paid plan with a simulated payment and files
// a pending upgrade request for an administrator.
func (ctl *Controller) HandleCheckout(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	ctx := c.UserContext()

	claims := ctl.checkoutSelection(c)
	if claims == nil {
		return redirectWithError(c, dashboardURL("plan", formID(c, "business_id")), noSelectionMessage)
	}
	b, err := ctl.repos.Business.GetOwned(claims.BusinessID, uc.UserID)
	if err != nil {
		_ = session.DeleteSessionValue(c, usercontext.KeyCheckoutToken)
		return redirectWithError(c, dashboardPath(0), "Business not found or you do not have permission.")
	}
	plan := entitlements.Normalize(claims.Plan)
	path := dashboardURL("checkout", b.ID)

	if c.Method() != fiber.MethodPost {
		bp, err := ctl.billing.ResolvePlan(ctx, plan)
		if errors.Is(err, billing.ErrPlanNotMapped) {
			return redirectWithError(c, dashboardURL("plan", b.ID), "No billing plan is mapped to this plan yet.")
		}
		if err != nil {
			return err
		}
		return ctl.render(c, "dashboard/checkout", "Checkout", fiber.Map{
			"Business":     b,
			"Plan":         plan,
			"BillingPlan":  bp,
			"Capabilities": entitlements.For(plan),
			"ExpiresAt":    claims.ExpiresAtTime(),
		})
	}

	var form CheckoutForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithError(c, path, "Please check your input.")
	}
	if err := form.Validate(); err != nil {
		return redirectWithError(c, path, validationMessage(err))
	}

	_, err = ctl.upgrades.Create(ctx, upgrade.CheckoutInput{
		UserID:     uc.UserID,
		BusinessID: b.ID,
		Plan:       plan,
		Payment:    billing.Payment{Method: form.PaymentMethod, CardNumber: form.CardNumber},
	})
	switch {
	case errors.Is(err, billing.ErrInvalidPaymentMethod), errors.Is(err, billing.ErrInvalidCardNumber):
		return redirectWithError(c, path, "Invalid payment details: "+err.Error()+".")
	case errors.Is(err, billing.ErrPlanNotMapped):
		return redirectWithError(c, dashboardURL("plan", b.ID), "No billing plan is mapped to this plan yet.")
	case errors.Is(err, upgrade.ErrPermissionDenied), errors.Is(err, upgrade.ErrBusinessNotFound):
		return redirectWithError(c, dashboardPath(0), "Business not found or you do not have permission.")
	case err != nil:
		return handleError(c, path, "Could not submit your upgrade request.", err)
	}

	if err := session.DeleteSessionValue(c, usercontext.KeyCheckoutToken); err != nil {
		logger.Named("http").Warn("failed to clear checkout selection", zap.Error(err))
	}
	statistics.Invalidate(ctx)
	return redirectWithSuccess(c, dashboardPath(b.ID), "Thank you! Your upgrade request is awaiting approval.")
}

func pricesByPlan(plans []models.BillingPlan) map[string]models.BillingPlan {
	out := make(map[string]models.BillingPlan, len(plans))
	for _, p := range plans {
		out[strings.ToLower(p.Name)] = p
	}
	return out
}
