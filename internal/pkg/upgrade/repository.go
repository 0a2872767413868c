package upgrade

import (
	"errors"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/notify"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the upgrade workflow.
type Repository interface {
	Transaction(fn func(Repository) error) error
	GetBusiness(id uint) (*models.Business, error)
	CreateRequest(req *models.PlanUpgradeRequest) error
	GetRequest(id uint) (*models.PlanUpgradeRequest, error)
	ResolvePending(req *models.PlanUpgradeRequest) (bool, error)
	GetOrCreatePlan(businessID uint) (*models.BusinessPlan, error)
	SavePlan(plan *models.BusinessPlan) error
	Notify(n *models.Notification) error
	ListByStatus(status string, limit int) ([]models.PlanUpgradeRequest, error)
	ListResolved(limit int) ([]models.PlanUpgradeRequest, error)
	ListByBusiness(businessID uint, limit int) ([]models.PlanUpgradeRequest, error)
	CountByStatus(status string) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an upgrade repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) GetBusiness(id uint) (*models.Business, error) {
	var b models.Business
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *gormRepository) CreateRequest(req *models.PlanUpgradeRequest) error {
	return r.db.Create(req).Error
}

func (r *gormRepository) GetRequest(id uint) (*models.PlanUpgradeRequest, error) {
	var req models.PlanUpgradeRequest
	err := r.db.Preload("Business").Preload("BillingPlan").First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ResolvePending moves a pending request to its new status. It reports false
// when the row was no longer pending, so two resolutions cannot both win.
func (r *gormRepository) ResolvePending(req *models.PlanUpgradeRequest) (bool, error) {
	res := r.db.Model(&models.PlanUpgradeRequest{}).
		Where("id = ? AND status = ?", req.ID, models.UpgradeStatusPending).
		Updates(map[string]interface{}{
			"status":         req.Status,
			"approved_by_id": req.ApprovedByID,
			"approved_at":    req.ApprovedAt,
			"reject_reason":  req.RejectReason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormRepository) GetOrCreatePlan(businessID uint) (*models.BusinessPlan, error) {
	var plan models.BusinessPlan
	err := r.db.Where("business_id = ?", businessID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		plan = models.BusinessPlan{BusinessID: businessID, PlanType: "free"}
		err = r.db.Create(&plan).Error
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) SavePlan(plan *models.BusinessPlan) error {
	return r.db.Save(plan).Error
}

func (r *gormRepository) Notify(n *models.Notification) error {
	return notify.NewRepository(r.db).Create(n)
}

func (r *gormRepository) ListByStatus(status string, limit int) ([]models.PlanUpgradeRequest, error) {
	var list []models.PlanUpgradeRequest
	q := r.db.Preload("Business").Preload("BillingPlan").
		Where("status = ?", status).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *gormRepository) ListResolved(limit int) ([]models.PlanUpgradeRequest, error) {
	var list []models.PlanUpgradeRequest
	q := r.db.Preload("Business").Preload("ApprovedBy").
		Where("status <> ?", models.UpgradeStatusPending).
		Order("approved_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *gormRepository) ListByBusiness(businessID uint, limit int) ([]models.PlanUpgradeRequest, error) {
	var list []models.PlanUpgradeRequest
	q := r.db.Preload("BillingPlan").
		Where("business_id = ?", businessID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *gormRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.PlanUpgradeRequest{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
