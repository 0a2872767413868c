package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/LocalBiz/app/models"
)

var validate = validator.New()

// validationMessage turns the first validation error into a readable sentence
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check your input."
	}
	fe := verrs[0]
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL.", field)
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid coordinate.", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s.", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}

// BusinessForm is the register/edit business form
type BusinessForm struct {
	Name         string `form:"name" validate:"required,max=200"`
	Description  string `form:"description" validate:"required"`
	BusinessType string `form:"business_type" validate:"required,oneof=commerce service"`
	CategoryID   uint   `form:"category"`
	Address      string `form:"address" validate:"required,max=300"`
	Latitude     string `form:"latitude" validate:"omitempty,latitude"`
	Longitude    string `form:"longitude" validate:"omitempty,longitude"`
	Phone        string `form:"phone" validate:"max=20"`
	Whatsapp     string `form:"whatsapp" validate:"max=20"`
	Email        string `form:"email" validate:"omitempty,email,max=200"`
	Website      string `form:"website" validate:"omitempty,url,max=200"`
}

func (f *BusinessForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Address = strings.TrimSpace(f.Address)
	f.Description = strings.TrimSpace(f.Description)
	f.Latitude = strings.TrimSpace(f.Latitude)
	f.Longitude = strings.TrimSpace(f.Longitude)
	return validate.Struct(f)
}

// Apply copies the form onto b
func (f *BusinessForm) Apply(b *models.Business) {
	b.Name = f.Name
	b.Description = f.Description
	b.BusinessType = f.BusinessType
	b.CategoryID = nil
	if f.CategoryID != 0 {
		id := f.CategoryID
		b.CategoryID = &id
	}
	b.Address = f.Address
	b.Latitude = parseCoordinate(f.Latitude)
	b.Longitude = parseCoordinate(f.Longitude)
	b.Phone = strings.TrimSpace(f.Phone)
	b.Whatsapp = strings.TrimSpace(f.Whatsapp)
	b.Email = strings.TrimSpace(f.Email)
	b.Website = strings.TrimSpace(f.Website)
}

func parseCoordinate(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func businessFormFrom(b *models.Business) BusinessForm {
	f := BusinessForm{
		Name:         b.Name,
		Description:  b.Description,
		BusinessType: b.BusinessType,
		Address:      b.Address,
		Latitude:     formatCoordinate(b.Latitude),
		Longitude:    formatCoordinate(b.Longitude),
		Phone:        b.Phone,
		Whatsapp:     b.Whatsapp,
		Email:        b.Email,
		Website:      b.Website,
	}
	if b.CategoryID != nil {
		f.CategoryID = *b.CategoryID
	}
	return f
}

// BookingForm is the customer booking form
type BookingForm struct {
	ServiceName     string `form:"service_name" validate:"required,max=200"`
	Date            string `form:"booking_date" validate:"required"`
	Time            string `form:"booking_time" validate:"required"`
	Duration        int    `form:"duration" validate:"required,gte=1"`
	NumberOfPeople  int    `form:"number_of_people" validate:"required,gte=1"`
	SpecialRequests string `form:"special_requests" validate:"max=2000"`
}

func (f *BookingForm) Validate() error {
	return validate.Struct(f)
}

// ReviewForm is the review upsert form
type ReviewForm struct {
	Rating  int    `form:"rating" validate:"required,gte=1,lte=5"`
	Comment string `form:"comment" validate:"max=2000"`
}

func (f *ReviewForm) Validate() error {
	return validate.Struct(f)
}

// CheckoutForm is the simulated payment form
type CheckoutForm struct {
	PaymentMethod string `form:"payment_method" validate:"required,oneof=card pix boleto"`
	CardNumber    string `form:"card_number"`
}

func (f *CheckoutForm) Validate() error {
	f.PaymentMethod = strings.ToLower(strings.TrimSpace(f.PaymentMethod))
	return validate.Struct(f)
}

// LoginForm is the session login form
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm is the account sign-up form
type RegisterForm struct {
	Username string `form:"username" validate:"required,min=3,max=150"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}
