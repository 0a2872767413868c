package models

import (
	"time"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/entitlements"
)

// BusinessPlan stores the tier of a business. Capabilities are derived from
// PlanType on every read and never persisted.
type BusinessPlan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BusinessID uint       `gorm:"uniqueIndex;not null" json:"business_id"`
	PlanType   string     `gorm:"type:varchar(20);default:'free';not null" json:"plan_type"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *BusinessPlan) Type() entitlements.Plan {
	return entitlements.Normalize(p.PlanType)
}

func (p *BusinessPlan) Capabilities() entitlements.Capabilities {
	return entitlements.For(p.Type())
}

// Apply switches the plan type and sets the expiry in one step.
func (p *BusinessPlan) Apply(plan entitlements.Plan, expiresAt *time.Time) {
	p.PlanType = string(entitlements.Normalize(string(plan)))
	p.ExpiresAt = expiresAt
}

// IsExpired reports whether a paid plan has run past its expiry.
func (p *BusinessPlan) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}
