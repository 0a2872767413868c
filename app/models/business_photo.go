package models

import "time"

type BusinessPhoto struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BusinessID    uint      `gorm:"index;not null" json:"business_id"`
	Path          string    `gorm:"type:varchar(500);not null" json:"path"`
	ThumbnailPath string    `gorm:"type:varchar(500)" json:"thumbnail_path"`
	ContentType   string    `gorm:"type:varchar(100)" json:"content_type"`
	Size          int64     `json:"size"`
	IsPrimary     bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
