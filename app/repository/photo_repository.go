package repository

import (
	"github.com/ManuelReschke/LocalBiz/app/models"
	"gorm.io/gorm"
)

// photoRepository implements the PhotoRepository interface
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository instance
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// Create inserts a photo; the first photo of a business becomes primary
func (r *photoRepository) Create(photo *models.BusinessPhoto) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.BusinessPhoto{}).Where("business_id = ?", photo.BusinessID).Count(&count).Error; err != nil {
			return err
		}
		photo.IsPrimary = count == 0
		return tx.Create(photo).Error
	})
}

// GetByID retrieves a photo that belongs to the given business
func (r *photoRepository) GetByID(businessID, id uint) (*models.BusinessPhoto, error) {
	var photo models.BusinessPhoto
	err := r.db.Where("id = ? AND business_id = ?", id, businessID).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// ListByBusiness returns the photos of a business, primary first
func (r *photoRepository) ListByBusiness(businessID uint) ([]models.BusinessPhoto, error) {
	var photos []models.BusinessPhoto
	err := r.db.Where("business_id = ?", businessID).Order("is_primary DESC, id ASC").Find(&photos).Error
	return photos, err
}

// CountByBusiness returns the number of photos of a business
func (r *photoRepository) CountByBusiness(businessID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.BusinessPhoto{}).Where("business_id = ?", businessID).Count(&count).Error
	return count, err
}

// SetPrimary makes one photo the only primary photo of its business
func (r *photoRepository) SetPrimary(businessID, id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var photo models.BusinessPhoto
		if err := tx.Where("id = ? AND business_id = ?", id, businessID).First(&photo).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BusinessPhoto{}).
			Where("business_id = ? AND id <> ?", businessID, id).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&photo).Update("is_primary", true).Error
	})
}

// Delete removes a photo and promotes the oldest remaining one when the
// primary photo was deleted. The deleted row is returned so callers can
// remove the stored files.
func (r *photoRepository) Delete(businessID, id uint) (*models.BusinessPhoto, error) {
	var photo models.BusinessPhoto
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND business_id = ?", id, businessID).First(&photo).Error; err != nil {
			return err
		}
		if err := tx.Delete(&photo).Error; err != nil {
			return err
		}
		if !photo.IsPrimary {
			return nil
		}
		var next models.BusinessPhoto
		err := tx.Where("business_id = ?", businessID).Order("id ASC").First(&next).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_primary", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
