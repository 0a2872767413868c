package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/repository"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/billing"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/booking"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/catalog"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/env"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/hcaptcha"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/notify"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/reviews"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/storage"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/upgrade"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/viewmodel"
)

const layoutMain = "layouts/main"

// Controller serves the server-rendered pages of the directory
type Controller struct {
	db            *gorm.DB
	repos         *repository.Repositories
	catalog       *catalog.Service
	bookings      *booking.Service
	reviews       *reviews.Service
	notifications *notify.Service
	upgrades      *upgrade.Service
	billing       *billing.Service
	captcha       *hcaptcha.Verifier
	secret        string
}

// NewController wires the services on top of db and the photo store
func NewController(db *gorm.DB, store storage.Store) *Controller {
	repos := repository.NewRepositories(db)
	return &Controller{
		db:            db,
		repos:         repos,
		catalog:       catalog.NewService(repos, store),
		bookings:      booking.NewServiceFromDB(db),
		reviews:       reviews.NewServiceFromDB(db),
		notifications: notify.NewServiceFromDB(db),
		upgrades:      upgrade.NewServiceFromDB(db),
		billing:       billing.NewServiceFromDB(db),
		captcha:       hcaptcha.FromEnv(),
		secret:        env.GetEnv("CHECKOUT_SECRET", "change-me-in-production"),
	}
}

// render fills the layout from the request and renders tpl inside layouts/main
func (ctl *Controller) render(c *fiber.Ctx, tpl, title string, data fiber.Map) error {
	uc := usercontext.GetUserContext(c)
	layout := viewmodel.Layout{
		Title:         title,
		FromProtected: uc.IsLoggedIn,
		IsAdmin:       uc.IsAdmin,
		Username:      uc.Username,
		Msg:           flash.Get(c),
	}
	if token, ok := c.Locals("csrf").(string); ok {
		layout.CSRF = token
	}
	if uc.IsLoggedIn {
		if n, err := ctl.notifications.UnreadCountForOwner(c.UserContext(), uc.UserID); err == nil {
			layout.Unread = n
		}
	}
	if data == nil {
		data = fiber.Map{}
	}
	return c.Render(tpl, viewmodel.Page{Layout: layout, Data: data}, layoutMain)
}

func redirectWithError(c *fiber.Ctx, path, message string) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message,
	}
	return flash.WithError(c, fm).Redirect(path, fiber.StatusSeeOther)
}

func redirectWithSuccess(c *fiber.Ctx, path, message string) error {
	fm := fiber.Map{
		"type":    "success",
		"message": message,
	}
	return flash.WithSuccess(c, fm).Redirect(path, fiber.StatusSeeOther)
}

func redirectWithInfo(c *fiber.Ctx, path, message string) error {
	fm := fiber.Map{
		"type":    "info",
		"message": message,
	}
	return flash.WithInfo(c, fm).Redirect(path, fiber.StatusSeeOther)
}

// handleError logs unexpected errors and shows a generic message
func handleError(c *fiber.Ctx, path, message string, err error) error {
	logger.Named("http").Error(message,
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Uint("user_id", usercontext.GetUserID(c)),
		zap.Error(err))
	return redirectWithError(c, path, message)
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).SendString("Not Found")
}

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// formID parses a positive id from the form body or the query string
func formID(c *fiber.Ctx, name string) uint {
	raw := c.FormValue(name)
	if raw == "" {
		raw = c.Query(name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
