package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LocalBiz/app/controllers"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/middleware"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/session"
)

type HttpRouter struct {
	ctl *controllers.Controller
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter(ctl *controllers.Controller) *HttpRouter {
	return &HttpRouter{ctl: ctl}
}
