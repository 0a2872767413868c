package viewmodel

import "github.com/gofiber/fiber/v2"

// Layout is the data every page passes to layouts/main
type Layout struct {
	Title         string
	FromProtected bool
	IsAdmin       bool
	Username      string
	Msg           fiber.Map
	CSRF          string
	Unread        int64
}

// Page bundles the layout with page specific data
type Page struct {
	Layout
	Data fiber.Map
}
