package models

import (
	"time"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/entitlements"
)

const (
	BusinessTypeCommerce = "commerce"
	BusinessTypeService  = "service"
)

type Business struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	UserID        uint              `gorm:"index;not null" json:"user_id"`
	User          *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Name          string            `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description   string            `gorm:"type:text" json:"description" validate:"required"`
	BusinessType  string            `gorm:"type:varchar(20);not null" json:"business_type" validate:"oneof=commerce service"`
	CategoryID    *uint             `gorm:"index" json:"category_id"`
	Category      *BusinessCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Address       string            `gorm:"type:varchar(300)" json:"address" validate:"required,max=300"`
	Latitude      *float64          `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude     *float64          `gorm:"type:decimal(9,6)" json:"longitude"`
	Phone         string            `gorm:"type:varchar(20)" json:"phone" validate:"max=20"`
	Whatsapp      string            `gorm:"type:varchar(20)" json:"whatsapp" validate:"max=20"`
	Email         string            `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email,max=200"`
	Website       string            `gorm:"type:varchar(200)" json:"website" validate:"omitempty,url,max=200"`
	IsActive      bool              `gorm:"default:true" json:"is_active"`
	ViewCount     int64             `gorm:"default:0" json:"view_count"`
	Plan          *BusinessPlan     `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"plan,omitempty"`
	Photos        []BusinessPhoto   `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	Hours         []BusinessHours   `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"hours,omitempty"`
	TimeSlots     []TimeSlot        `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"time_slots,omitempty"`
	Reviews       []Review          `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	Bookings      []Booking         `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification    `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// PlanType returns the business plan type, free when no plan is loaded.
func (b *Business) PlanType() entitlements.Plan {
	if b.Plan == nil {
		return entitlements.PlanFree
	}
	return b.Plan.Type()
}

// Capabilities returns the features unlocked by the business plan.
func (b *Business) Capabilities() entitlements.Capabilities {
	return entitlements.For(b.PlanType())
}

// IsOwnedBy reports whether userID owns the business.
func (b *Business) IsOwnedBy(userID uint) bool {
	return userID != 0 && b.UserID == userID
}

// PrimaryPhoto returns the primary photo, or the first one when none is flagged.
func (b *Business) PrimaryPhoto() *BusinessPhoto {
	for i := range b.Photos {
		if b.Photos[i].IsPrimary {
			return &b.Photos[i]
		}
	}
	if len(b.Photos) > 0 {
		return &b.Photos[0]
	}
	return nil
}

// BusinessWithRating is a list row carrying the aggregated review score.
type BusinessWithRating struct {
	Business
	AvgRating   *float64 `json:"avg_rating"`
	ReviewCount int64    `json:"review_count"`
}
