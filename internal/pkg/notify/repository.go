package notify

import (
	"github.com/ManuelReschke/LocalBiz/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations on the notification inbox.
type Repository interface {
	Create(n *models.Notification) error
	ListByBusiness(businessID uint, limit int) ([]models.Notification, error)
	ListForUser(userID uint, limit int) ([]models.Notification, error)
	CountUnread(businessID uint) (int64, error)
	CountUnreadForOwner(ownerID uint) (int64, error)
	MarkRead(businessID, id uint) error
	MarkAllRead(businessID uint) (int64, error)
	Delete(businessID, id uint) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a notification repository backed by GORM. Pass a
// transaction handle to emit notifications atomically with other writes.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *gormRepository) ListByBusiness(businessID uint, limit int) ([]models.Notification, error) {
	var list []models.Notification
	q := r.db.Preload("User").Where("business_id = ?", businessID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *gormRepository) ListForUser(userID uint, limit int) ([]models.Notification, error) {
	var list []models.Notification
	q := r.db.Preload("Business").
		Where("user_id = ? AND type = ?", userID, models.NotificationTypeBookingUpdate).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *gormRepository) CountUnread(businessID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("business_id = ? AND is_read = ?", businessID, false).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) CountUnreadForOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Joins("JOIN businesses ON businesses.id = notifications.business_id").
		Where("businesses.user_id = ? AND notifications.is_read = ?", ownerID, false).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) MarkRead(businessID, id uint) error {
	var n models.Notification
	if err := r.db.Where("id = ? AND business_id = ?", id, businessID).First(&n).Error; err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return n.MarkAsRead(r.db)
}

func (r *gormRepository) MarkAllRead(businessID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("business_id = ? AND is_read = ?", businessID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *gormRepository) Delete(businessID, id uint) error {
	res := r.db.Where("id = ? AND business_id = ?", id, businessID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
