package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/env"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", h.ctl.HandleHome)
	group.Get("/login", h.ctl.HandleAuthLogin)
	group.Post("/login", h.ctl.HandleAuthLogin)
	group.Get("/register", h.ctl.HandleAuthRegister)
	group.Post("/register", h.ctl.HandleAuthRegister)
	group.Post("/logout", middleware.RequireAuth, h.ctl.HandleAuthLogout)

	biz := group.Group("/businesses")
	biz.Get("/", h.ctl.HandleList)
	biz.Get("/register/", middleware.RequireAuth, h.ctl.HandleRegisterBusiness)
	biz.Post("/register/", middleware.RequireAuth, h.ctl.HandleRegisterBusiness)
	biz.Get("/review/:business_id/", middleware.RequireAuth, h.ctl.HandleReview)
	biz.Post("/review/:business_id/", middleware.RequireAuth, h.ctl.HandleReview)
	biz.Get("/book/:business_id/", middleware.RequireAuth, h.ctl.HandleBook)
	biz.Post("/book/:business_id/", middleware.RequireAuth, h.ctl.HandleBook)
	biz.Get("/my-bookings/", middleware.RequireAuth, h.ctl.HandleMyBookings)

	// owner dashboard
	dash := biz.Group("/dashboard", middleware.RequireAuth)
	dash.Get("/", h.ctl.HandleDashboard)
	dash.Get("/edit/", h.ctl.HandleEdit)
	dash.Post("/edit/", h.ctl.HandleEdit)
	dash.Post("/delete/", h.ctl.HandleDelete)
	dash.Get("/photos/", h.ctl.HandlePhotos)
	dash.Post("/photos/", h.ctl.HandlePhotos)
	dash.Get("/hours/", h.ctl.HandleHours)
	dash.Post("/hours/", h.ctl.HandleHours)
	dash.Get("/plan/", h.ctl.HandlePlan)
	dash.Post("/plan/", h.ctl.HandlePlan)
	dash.Get("/checkout/", h.ctl.HandleCheckout)
	dash.Post("/checkout/", h.ctl.HandleCheckout)
	dash.Get("/time-slots/", h.ctl.HandleTimeSlots)
	dash.Post("/time-slots/", h.ctl.HandleTimeSlots)
	dash.Get("/notifications/", h.ctl.HandleNotifications)
	dash.Post("/notifications/", h.ctl.HandleNotifications)
	dash.Get("/bookings/", h.ctl.HandleOwnerBookings)
	dash.Post("/bookings/", h.ctl.HandleOwnerBookings)

	// upgrade approval
	admin := biz.Group("/admin", middleware.RequireAdmin)
	admin.Get("/", h.ctl.HandleAdmin)
	admin.Post("/approve/:id/", h.ctl.HandleApprove)
	admin.Post("/reject/:id/", h.ctl.HandleReject)
}
