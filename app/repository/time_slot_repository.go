package repository

import (
	"sort"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"gorm.io/gorm"
)

// timeSlotRepository implements the TimeSlotRepository interface
type timeSlotRepository struct {
	db *gorm.DB
}

// NewTimeSlotRepository creates a new time slot repository instance
func NewTimeSlotRepository(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepository{db: db}
}

// ListByBusiness returns all slots ordered by weekday and start time
func (r *timeSlotRepository) ListByBusiness(businessID uint) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	if err := r.db.Where("business_id = ?", businessID).Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return models.WeekdayOrder(slots[i].DayOfWeek) < models.WeekdayOrder(slots[j].DayOfWeek)
	})
	return slots, nil
}

// ListActiveByDay returns the active slots of one weekday
func (r *timeSlotRepository) ListActiveByDay(businessID uint, day string) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	err := r.db.Where("business_id = ? AND day_of_week = ? AND is_active = ?", businessID, day, true).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

// Create inserts a time slot
func (r *timeSlotRepository) Create(slot *models.TimeSlot) error {
	return r.db.Create(slot).Error
}

// Delete removes a slot of the given business
func (r *timeSlotRepository) Delete(businessID, id uint) error {
	res := r.db.Where("id = ? AND business_id = ?", id, businessID).Delete(&models.TimeSlot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
