package repository

import (
	"github.com/ManuelReschke/LocalBiz/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	TouchLastLogin(id uint) error
	Count() (int64, error)
}

// BusinessFilter narrows the public business listing
type BusinessFilter struct {
	Query        string
	CategoryID   uint
	BusinessType string
	Limit        int
}

// BusinessRepository defines the interface for business and business plan operations
type BusinessRepository interface {
	Create(business *models.Business) error
	GetByID(id uint) (*models.Business, error)
	GetDetail(id uint) (*models.Business, error)
	GetOwned(id, userID uint) (*models.Business, error)
	ListByOwner(userID uint) ([]models.Business, error)
	CountByOwner(userID uint) (int64, error)
	OwnerPlanTypes(userID uint) ([]string, error)
	LockOwner(userID uint) error
	Search(filter BusinessFilter) ([]models.BusinessWithRating, error)
	Nearby(limit int) ([]models.BusinessWithRating, error)
	Featured(limit int) ([]models.BusinessWithRating, error)
	Update(business *models.Business) error
	Delete(id uint) error
	Count() (int64, error)
	GetPlan(businessID uint) (*models.BusinessPlan, error)
	SavePlan(plan *models.BusinessPlan) error
}

// CategoryRepository defines the interface for business categories
type CategoryRepository interface {
	List() ([]models.BusinessCategory, error)
	GetByID(id uint) (*models.BusinessCategory, error)
	Create(category *models.BusinessCategory) error
}

// PhotoRepository defines the interface for business photos
type PhotoRepository interface {
	Create(photo *models.BusinessPhoto) error
	GetByID(businessID, id uint) (*models.BusinessPhoto, error)
	ListByBusiness(businessID uint) ([]models.BusinessPhoto, error)
	CountByBusiness(businessID uint) (int64, error)
	SetPrimary(businessID, id uint) error
	Delete(businessID, id uint) (*models.BusinessPhoto, error)
}

// HoursRepository defines the interface for opening hours
type HoursRepository interface {
	ListByBusiness(businessID uint) ([]models.BusinessHours, error)
	Create(hours *models.BusinessHours) error
	Delete(businessID, id uint) error
}

// TimeSlotRepository defines the interface for recurring time slots
type TimeSlotRepository interface {
	ListByBusiness(businessID uint) ([]models.TimeSlot, error)
	ListActiveByDay(businessID uint, day string) ([]models.TimeSlot, error)
	Create(slot *models.TimeSlot) error
	Delete(businessID, id uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User     UserRepository
	Business BusinessRepository
	Category CategoryRepository
	Photo    PhotoRepository
	Hours    HoursRepository
	TimeSlot TimeSlotRepository

	db *gorm.DB
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Business: NewBusinessRepository(db),
		Category: NewCategoryRepository(db),
		Photo:    NewPhotoRepository(db),
		Hours:    NewHoursRepository(db),
		TimeSlot: NewTimeSlotRepository(db),
		db:       db,
	}
}

// Transaction runs fn with repositories bound to a single database transaction
func (r *Repositories) Transaction(fn func(tx *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
