package router

import (
	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes installs the routes that never take form posts
func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/businesses/nearby/", h.ctl.HandleNearby)
	app.Get("/businesses/business/:id/", h.ctl.HandleDetail)
	app.Get("/businesses/api/available-times/:business_id/:date/", h.ctl.HandleAvailableTimes)
	app.Get("/logout", h.ctl.HandleAuthLogout)
}
