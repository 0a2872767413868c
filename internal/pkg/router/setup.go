package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/controllers"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/storage"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App, db *gorm.DB, store storage.Store) {
	// HttpRouter goes first: it installs the session store and the
	// UserContext middleware the API routes depend on.
	ctl := controllers.NewController(db, store)
	setup(app, NewHttpRouter(ctl), NewApiRouter(db))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
