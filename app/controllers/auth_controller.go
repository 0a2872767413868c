package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/session"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/usercontext"
)

const loginFailedMessage = "There is a problem with the login process"

func (ctl *Controller) HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		if usercontext.IsLoggedIn(c) {
			return c.Redirect("/businesses/", fiber.StatusSeeOther)
		}
		return ctl.render(c, "auth/login", "Login", nil)
	}

	var form LoginForm
	if err := c.BodyParser(&form); err != nil || validate.Struct(&form) != nil {
		return redirectWithError(c, "/login", loginFailedMessage)
	}

	// never tell the visitor which part of the login failed
	user, err := ctl.repos.User.GetByEmail(strings.ToLower(strings.TrimSpace(form.Email)))
	if err != nil || !user.IsActive() || !models.CheckPasswordHash(form.Password, user.Password) {
		return redirectWithError(c, "/login", loginFailedMessage)
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return handleError(c, "/login", "Something went wrong, please try again.", err)
	}
	// new session id on privilege change
	if err := sess.Regenerate(); err != nil {
		return handleError(c, "/login", "Something went wrong, please try again.", err)
	}

	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.IsAdmin())
	if err := sess.Save(); err != nil {
		return handleError(c, "/login", "Something went wrong, please try again.", err)
	}

	if err := ctl.repos.User.TouchLastLogin(user.ID); err != nil {
		logger.Named("http").Warn("failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return redirectWithSuccess(c, "/businesses/", "Welcome back, "+user.Name+"!")
}

func (ctl *Controller) HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return redirectWithError(c, "/login", "Logged out.")
	}
	if err := sess.Destroy(); err != nil {
		return handleError(c, "/login", "Something went wrong, please try again.", err)
	}
	usercontext.Set(c, usercontext.Anonymous)

	return redirectWithSuccess(c, "/login", "You have been logged out.")
}

func (ctl *Controller) HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		data := fiber.Map{}
		if ctl.captcha.Enabled() {
			data["HCaptchaSiteKey"] = ctl.captcha.SiteKey
		}
		return ctl.render(c, "auth/register", "Register", data)
	}

	if ctl.captcha.Enabled() {
		if err := ctl.captcha.Verify(c.UserContext(), c.FormValue("h-captcha-response"), c.IP()); err != nil {
			logger.Named("http").Info("sign-up captcha rejected", zap.String("ip", c.IP()), zap.Error(err))
			return redirectWithError(c, "/register", "Please complete the captcha.")
		}
	}

	var form RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithError(c, "/register", "Please check your input.")
	}
	if err := validate.Struct(&form); err != nil {
		return redirectWithError(c, "/register", validationMessage(err))
	}

	user, err := models.CreateUser(form.Username, form.Email, form.Password)
	if err != nil {
		return redirectWithError(c, "/register", validationMessage(err))
	}
	if err := ctl.repos.User.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return redirectWithError(c, "/register", "This email address is already registered.")
		}
		return handleError(c, "/register", "Could not create your account.", err)
	}

	return redirectWithSuccess(c, "/login", "Your account was created. Please log in.")
}
