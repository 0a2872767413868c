package models

import "time"

// TimeSlot is a recurring availability template. Bookings are not validated against it.
type TimeSlot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"index;not null" json:"business_id"`
	DayOfWeek  string    `gorm:"type:varchar(10);not null" json:"day_of_week"`
	StartTime  string    `gorm:"type:varchar(5);not null" json:"start_time"` // HH:MM
	EndTime    string    `gorm:"type:varchar(5);not null" json:"end_time"`   // HH:MM
	Duration   int       `gorm:"default:60" json:"duration"`                 // minutes
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
