package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationTypeBooking       = "booking"
	NotificationTypeBookingUpdate = "booking_update"
	NotificationTypeReview        = "review"
	NotificationTypePlanUpgrade   = "plan_upgrade"
	NotificationTypePlanApproved  = "plan_approved"
	NotificationTypePlanRejected  = "plan_rejected"
	NotificationTypeGeneral       = "general"
)

// Notification is an in-app inbox entry of a business. UserID is the user
// that triggered it or, for booking updates, the customer it is addressed to.
type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"index;not null" json:"business_id"`
	Business   *Business `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"business,omitempty"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Type       string    `gorm:"type:varchar(20);not null" json:"type"`
	Title      string    `gorm:"type:varchar(200);not null" json:"title"`
	Message    string    `gorm:"type:text" json:"message"`
	IsRead     bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// MarkAsRead flags the notification as read
func (n *Notification) MarkAsRead(db *gorm.DB) error {
	n.IsRead = true
	return db.Model(n).Update("is_read", true).Error
}
