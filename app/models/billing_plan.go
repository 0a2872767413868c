package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingPlan is the billing catalog entry a business plan type is sold as.
// It is matched by name, case-insensitively.
type BillingPlan struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreditsPerMonth int             `gorm:"default:0" json:"credits_per_month"`
	IsPremium       bool            `gorm:"default:false" json:"is_premium"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// FormattedPrice renders the price with two decimals.
func (p BillingPlan) FormattedPrice() string {
	return p.Price.StringFixed(2)
}
