package models

import "time"

const (
	UpgradeStatusPending  = "pending"
	UpgradeStatusApproved = "approved"
	UpgradeStatusRejected = "rejected"
)

const (
	PaymentMethodCard   = "card"
	PaymentMethodPix    = "pix"
	PaymentMethodBoleto = "boleto"
)

type PlanUpgradeRequest struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	BusinessID       uint         `gorm:"index;not null" json:"business_id"`
	Business         *Business    `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"business,omitempty"`
	RequestedPlan    string       `gorm:"type:varchar(20);not null" json:"requested_plan"`
	BillingPlanID    uint         `gorm:"index" json:"billing_plan_id"`
	BillingPlan      *BillingPlan `gorm:"foreignKey:BillingPlanID" json:"billing_plan,omitempty"`
	PaymentMethod    string       `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentReference string       `gorm:"type:varchar(50)" json:"payment_reference"` // masked, never the full card number
	Status           string       `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	RequestedByID    uint         `gorm:"index" json:"requested_by_id"`
	ApprovedByID     *uint        `gorm:"index" json:"approved_by_id,omitempty"`
	ApprovedBy       *User        `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	ApprovedAt       *time.Time   `json:"approved_at,omitempty"`
	RejectReason     string       `gorm:"type:text" json:"reject_reason,omitempty"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *PlanUpgradeRequest) IsPending() bool {
	return r.Status == UpgradeStatusPending
}
