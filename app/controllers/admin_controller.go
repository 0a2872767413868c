package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/middleware"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/statistics"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/upgrade"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

const (
	adminPath        = "/businesses/admin/"
	adminListLimit   = 50
	adminRecentLimit = 10
)

func actor(c *fiber.Ctx) upgrade.Actor {
	uc := usercontext.GetUserContext(c)
	return upgrade.Actor{UserID: uc.UserID, IsAdmin: uc.IsAdmin}
}

// HandleAdmin shows the counters and the upgrade queue
func (ctl *Controller) HandleAdmin(c *fiber.Ctx) error {
	ctx := c.UserContext()
	stats, err := statistics.Get(ctx, ctl.db)
	if err != nil {
		return err
	}
	pending, err := ctl.upgrades.Pending(ctx, adminListLimit)
	if err != nil {
		return err
	}
	resolved, err := ctl.upgrades.RecentlyResolved(ctx, adminRecentLimit)
	if err != nil {
		return err
	}
	return ctl.render(c, "admin/index", "Admin", fiber.Map{
		"Stats":    stats,
		"Pending":  pending,
		"Resolved": resolved,
	})
}

func (ctl *Controller) HandleApprove(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return redirectWithError(c, adminPath, "Upgrade request not found.")
	}
	req, err := ctl.upgrades.Approve(c.UserContext(), actor(c), id)
	if err != nil {
		return upgradeError(c, err)
	}
	statistics.Invalidate(c.UserContext())
	return redirectWithSuccess(c, adminPath, fmt.Sprintf("Upgrade request #%d approved: %s plan activated.", req.ID, req.RequestedPlan))
}

func (ctl *Controller) HandleReject(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return redirectWithError(c, adminPath, "Upgrade request not found.")
	}
	req, err := ctl.upgrades.Reject(c.UserContext(), actor(c), id, c.FormValue("reason"))
	if err != nil {
		return upgradeError(c, err)
	}
	statistics.Invalidate(c.UserContext())
	return redirectWithSuccess(c, adminPath, fmt.Sprintf("Upgrade request #%d rejected.", req.ID))
}

func upgradeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, upgrade.ErrPermissionDenied):
		return redirectWithError(c, "/businesses/", middleware.PermissionDeniedMessage)
	case errors.Is(err, upgrade.ErrRequestNotFound):
		return redirectWithError(c, adminPath, "Upgrade request not found or already resolved.")
	default:
		return handleError(c, adminPath, "Could not resolve the upgrade request.", err)
	}
}
