package models

import "time"

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"uniqueIndex:idx_review_business_user;not null" json:"business_id"`
	UserID     uint      `gorm:"uniqueIndex:idx_review_business_user;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Rating     int       `gorm:"not null" json:"rating" validate:"required,min=1,max=5"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
