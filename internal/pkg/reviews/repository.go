package reviews

import (
	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/notify"
	"gorm.io/gorm"
)

// Repository provides DB operations used by review aggregation.
type Repository interface {
	Transaction(fn func(Repository) error) error
	BusinessExists(id uint) (bool, error)
	Find(businessID, userID uint) (*models.Review, error)
	Create(r *models.Review) error
	Update(r *models.Review) error
	ListByBusiness(businessID uint) ([]models.Review, error)
	Average(businessID uint) (*float64, error)
	Notify(n *models.Notification) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a review repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) BusinessExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Business{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) Find(businessID, userID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("business_id = ? AND user_id = ?", businessID, userID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *gormRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *gormRepository) Update(review *models.Review) error {
	return r.db.Model(review).Select("Rating", "Comment").Updates(review).Error
}

func (r *gormRepository) ListByBusiness(businessID uint) ([]models.Review, error) {
	var list []models.Review
	err := r.db.Preload("User").
		Where("business_id = ?", businessID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

type averageRow struct {
	Average *float64
}

// Average returns nil when the business has no reviews.
func (r *gormRepository) Average(businessID uint) (*float64, error) {
	var row averageRow
	err := r.db.Model(&models.Review{}).
		Select("AVG(rating) AS average").
		Where("business_id = ?", businessID).
		Scan(&row).Error
	return row.Average, err
}

func (r *gormRepository) Notify(n *models.Notification) error {
	return notify.NewRepository(r.db).Create(n)
}
