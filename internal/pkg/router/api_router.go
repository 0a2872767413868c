package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	apiv1 "github.com/ManuelReschke/LocalBiz/internal/api/v1"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/middleware"
)

type ApiRouter struct {
	db *gorm.DB
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer(h.db)
	v1.Get("/ping", apiServer.GetPing)
	v1.Get("/businesses/:id/available-times", apiServer.GetAvailableTimes)
	v1.Get("/notifications/unread", middleware.RequireAPISessionAuth, apiServer.GetUnreadNotifications)
}

func NewApiRouter(db *gorm.DB) *ApiRouter {
	return &ApiRouter{db: db}
}
