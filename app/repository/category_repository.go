package repository

import (
	"github.com/ManuelReschke/LocalBiz/app/models"
	"gorm.io/gorm"
)

// categoryRepository implements the CategoryRepository interface
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns all categories ordered by name
func (r *categoryRepository) List() ([]models.BusinessCategory, error) {
	var categories []models.BusinessCategory
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// GetByID retrieves a category by its ID
func (r *categoryRepository) GetByID(id uint) (*models.BusinessCategory, error) {
	var category models.BusinessCategory
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Create creates a new category
func (r *categoryRepository) Create(category *models.BusinessCategory) error {
	return r.db.Create(category).Error
}
