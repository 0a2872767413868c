package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/notify"
)

// HandleNotifications is the business inbox
func (ctl *Controller) HandleNotifications(c *fiber.Ctx) error {
	return ctl.withBusiness(c, func(b *models.Business, owned []models.Business) error {
		ctx := c.UserContext()
		path := dashboardURL("notifications", b.ID)

		if c.Method() != fiber.MethodPost {
			list, err := ctl.notifications.List(ctx, b.ID)
			if err != nil {
				return err
			}
			unread, err := ctl.notifications.UnreadCount(ctx, b.ID)
			if err != nil {
				return err
			}
			return ctl.render(c, "dashboard/notifications", "Notifications", fiber.Map{
				"Business":      b,
				"Owned":         owned,
				"Notifications": list,
				"UnreadCount":   unread,
			})
		}

		id := formID(c, "notification_id")
		var (
			msg string
			err error
		)
		switch c.FormValue("action") {
		case "read":
			err = ctl.notifications.MarkRead(ctx, b.ID, id)
			msg = "Notification marked as read."
		case "read_all":
			var n int64
			n, err = ctl.notifications.MarkAllRead(ctx, b.ID)
			msg = fmt.Sprintf("%d notification(s) marked as read.", n)
		case "delete":
			err = ctl.notifications.Delete(ctx, b.ID, id)
			msg = "Notification deleted."
		default:
			return redirectWithError(c, path, "Unknown action.")
		}
		if errors.Is(err, notify.ErrNotificationNotFound) {
			return redirectWithError(c, path, "Notification not found.")
		}
		if err != nil {
			return handleError(c, path, "Could not update the notifications.", err)
		}
		return redirectWithSuccess(c, path, msg)
	})
}
