package booking

import (
	"time"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/notify"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the booking workflow.
type Repository interface {
	Transaction(fn func(Repository) error) error
	GetBusiness(id uint) (*models.Business, error)
	SlotTaken(businessID uint, date time.Time, at string) (bool, error)
	Create(b *models.Booking) error
	Get(businessID, id uint) (*models.Booking, error)
	UpdateStatus(b *models.Booking) error
	ListByBusiness(businessID uint, status string) ([]models.Booking, error)
	ListByUser(userID uint) ([]models.Booking, error)
	CountByStatus(businessID uint, status string) (int64, error)
	Count() (int64, error)
	ActiveSlots(businessID uint, day string) ([]models.TimeSlot, error)
	Notify(n *models.Notification) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a booking repository backed by GORM.
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

func (r *gormRepository) SlotTaken(businessID uint, date time.Time, at string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("business_id = ? AND booking_date = ? AND booking_time = ?", businessID, date, at).
		Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) Create(b *models.Booking) error {
	return r.db.Create(b).Error
}

func (r *gormRepository) Get(businessID, id uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.Preload("User").Where("id = ? AND business_id = ?", id, businessID).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *gormRepository) UpdateStatus(b *models.Booking) error {
	return r.db.Model(b).Update("status", b.Status).Error
}

func (r *gormRepository) ListByBusiness(businessID uint, status string) ([]models.Booking, error) {
	var list []models.Booking
	q := r.db.Preload("User").Where("business_id = ?", businessID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("booking_date DESC, booking_time DESC").Find(&list).Error
	return list, err
}

func (r *gormRepository) ListByUser(userID uint) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Preload("Business").
		Where("user_id = ?", userID).
		Order("booking_date DESC, booking_time DESC").
		Find(&list).Error
	return list, err
}

func (r *gormRepository) CountByStatus(businessID uint, status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("business_id = ? AND status = ?", businessID, status).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).Count(&count).Error
	return count, err
}

func (r *gormRepository) ActiveSlots(businessID uint, day string) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	err := r.db.Where("business_id = ? AND day_of_week = ? AND is_active = ?", businessID, day, true).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *gormRepository) Notify(n *models.Notification) error {
	return notify.NewRepository(r.db).Create(n)
}
