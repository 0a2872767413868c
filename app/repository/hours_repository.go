package repository

import (
	"errors"
	"sort"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"gorm.io/gorm"
)

// hoursRepository implements the HoursRepository interface
type hoursRepository struct {
	db *gorm.DB
}

// NewHoursRepository creates a new hours repository instance
func NewHoursRepository(db *gorm.DB) HoursRepository {
	return &hoursRepository{db: db}
}

// ListByBusiness returns opening hours ordered monday to sunday
func (r *hoursRepository) ListByBusiness(businessID uint) ([]models.BusinessHours, error) {
	var hours []models.BusinessHours
	if err := r.db.Where("business_id = ?", businessID).Find(&hours).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return models.WeekdayOrder(hours[i].DayOfWeek) < models.WeekdayOrder(hours[j].DayOfWeek)
	})
	return hours, nil
}

// Create inserts opening hours; a second row for the same weekday is ErrConflict
func (r *hoursRepository) Create(hours *models.BusinessHours) error {
	err := r.db.Create(hours).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

// Delete removes an opening-hours row of the given business
func (r *hoursRepository) Delete(businessID, id uint) error {
	res := r.db.Where("id = ? AND business_id = ?", id, businessID).Delete(&models.BusinessHours{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
