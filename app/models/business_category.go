package models

import "time"

type BusinessCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Icon      string    `gorm:"type:varchar(50)" json:"icon"` // font awesome class
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
