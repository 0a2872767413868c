package models

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

type Booking struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BusinessID      uint      `gorm:"uniqueIndex:idx_booking_slot;not null" json:"business_id"`
	Business        *Business `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"business,omitempty"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	ServiceName     string    `gorm:"type:varchar(200);not null" json:"service_name"`
	BookingDate     time.Time `gorm:"type:date;uniqueIndex:idx_booking_slot;not null" json:"booking_date"`
	BookingTime     string    `gorm:"type:varchar(5);uniqueIndex:idx_booking_slot;not null" json:"booking_time"` // HH:MM
	Duration        int       `gorm:"default:60" json:"duration"`                                                // minutes
	NumberOfPeople  int       `gorm:"default:1" json:"number_of_people"`
	SpecialRequests string    `gorm:"type:text" json:"special_requests"`
	Status          string    `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DateString formats the booking date as YYYY-MM-DD.
func (b *Booking) DateString() string {
	return b.BookingDate.Format(DateLayout)
}

// NormalizeDate truncates t to midnight UTC of its calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
