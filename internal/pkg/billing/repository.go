package billing

import (
	"strings"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	FindPlanByName(name string) (*models.BillingPlan, error)
	ListActivePlans() ([]models.BillingPlan, error)
	UpsertPlan(plan *models.BillingPlan) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindPlanByName(name string) (*models.BillingPlan, error) {
	var p models.BillingPlan
	err := r.db.
		Where("LOWER(name) = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(name)), true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) ListActivePlans() ([]models.BillingPlan, error) {
	var plans []models.BillingPlan
	err := r.db.Where("is_active = ?", true).Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *gormRepository) UpsertPlan(plan *models.BillingPlan) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"description",
			"price",
			"credits_per_month",
			"is_premium",
			"is_active",
			"updated_at",
		}),
	}).Create(plan).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("name = ?", plan.Name).First(plan).Error
}
