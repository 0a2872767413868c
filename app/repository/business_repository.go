package repository

import (
	"errors"
	"sort"
	"strings"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// businessRepository implements the BusinessRepository interface
type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository instance
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// Create inserts the business together with its plan row.
// A business without a plan gets a free one.
func (r *businessRepository) Create(business *models.Business) error {
	if business.Plan == nil {
		business.Plan = &models.BusinessPlan{PlanType: "free"}
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(business).Error
	})
}

// GetByID retrieves a business with its plan
func (r *businessRepository) GetByID(id uint) (*models.Business, error) {
	var business models.Business
	err := r.db.Preload("Plan").First(&business, id).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// GetDetail retrieves a business with everything the public page shows
func (r *businessRepository) GetDetail(id uint) (*models.Business, error) {
	var business models.Business
	err := r.db.
		Preload("Plan").
		Preload("Category").
		Preload("User").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, id ASC")
		}).
		Preload("Hours").
		First(&business, id).Error
	if err != nil {
		return nil, err
	}
	sort.SliceStable(business.Hours, func(i, j int) bool {
		return models.WeekdayOrder(business.Hours[i].DayOfWeek) < models.WeekdayOrder(business.Hours[j].DayOfWeek)
	})
	return &business, nil
}

// GetOwned retrieves a business and checks that userID owns it
func (r *businessRepository) GetOwned(id, userID uint) (*models.Business, error) {
	business, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !business.IsOwnedBy(userID) {
		return nil, ErrForbidden
	}
	return business, nil
}

// ListByOwner returns all businesses of a user, oldest first
func (r *businessRepository) ListByOwner(userID uint) ([]models.Business, error) {
	var businesses []models.Business
	err := r.db.Preload("Plan").Where("user_id = ?", userID).Order("id ASC").Find(&businesses).Error
	return businesses, err
}

// CountByOwner returns the number of businesses a user owns
func (r *businessRepository) CountByOwner(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Business{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// OwnerPlanTypes returns the plan type of every business a user owns
func (r *businessRepository) OwnerPlanTypes(userID uint) ([]string, error) {
	var types []string
	err := r.db.Model(&models.BusinessPlan{}).
		Joins("JOIN businesses ON businesses.id = business_plans.business_id").
		Where("businesses.user_id = ?", userID).
		Pluck("business_plans.plan_type", &types).Error
	return types, err
}

// LockOwner takes a row lock on the owner so concurrent registrations of the
// same user are serialized. It only has an effect inside a transaction.
func (r *businessRepository) LockOwner(userID uint) error {
	var user models.User
	return r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&user, userID).Error
}

// Search lists active businesses matching the filter with their average rating
func (r *businessRepository) Search(filter BusinessFilter) ([]models.BusinessWithRating, error) {
	q := r.activeQuery()
	if s := strings.TrimSpace(filter.Query); s != "" {
		like := "%" + s + "%"
		q = q.Where("(businesses.name LIKE ? OR businesses.description LIKE ?)", like, like)
	}
	if filter.CategoryID != 0 {
		q = q.Where("businesses.category_id = ?", filter.CategoryID)
	}
	if filter.BusinessType != "" {
		q = q.Where("businesses.business_type = ?", filter.BusinessType)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var businesses []models.Business
	if err := q.Order("businesses.name ASC").Find(&businesses).Error; err != nil {
		return nil, err
	}
	return r.withRatings(businesses)
}

// Nearby lists active businesses, featured first, then by rating.
// There is no geolocation; the ordering stands in for proximity.
func (r *businessRepository) Nearby(limit int) ([]models.BusinessWithRating, error) {
	var businesses []models.Business
	if err := r.activeQuery().Order("businesses.id ASC").Find(&businesses).Error; err != nil {
		return nil, err
	}
	rows, err := r.withRatings(businesses)
	if err != nil {
		return nil, err
	}
	sortFeaturedThenRating(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Featured lists active businesses whose plan marks them as featured
func (r *businessRepository) Featured(limit int) ([]models.BusinessWithRating, error) {
	rows, err := r.Nearby(0)
	if err != nil {
		return nil, err
	}
	featured := make([]models.BusinessWithRating, 0, len(rows))
	for _, row := range rows {
		if row.Capabilities().IsFeatured {
			featured = append(featured, row)
		}
	}
	if limit > 0 && len(featured) > limit {
		featured = featured[:limit]
	}
	return featured, nil
}

// Update saves the editable columns of a business
func (r *businessRepository) Update(business *models.Business) error {
	return r.db.Model(business).Select(
		"Name", "Description", "BusinessType", "CategoryID", "Address",
		"Latitude", "Longitude", "Phone", "Whatsapp", "Email", "Website", "IsActive",
	).Updates(business).Error
}

// Delete removes a business and all rows owned by it
func (r *businessRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		business := models.Business{ID: id}
		res := tx.Select(clause.Associations).Delete(&business)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		// not modelled as an association on Business
		return tx.Where("business_id = ?", id).Delete(&models.PlanUpgradeRequest{}).Error
	})
}

// Count returns the total number of businesses
func (r *businessRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Business{}).Count(&count).Error
	return count, err
}

// GetPlan returns the plan of a business, creating a free one when missing
func (r *businessRepository) GetPlan(businessID uint) (*models.BusinessPlan, error) {
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

// SavePlan persists a business plan
func (r *businessRepository) SavePlan(plan *models.BusinessPlan) error {
	return r.db.Save(plan).Error
}

func (r *businessRepository) activeQuery() *gorm.DB {
	return r.db.Model(&models.Business{}).
		Preload("Plan").
		Preload("Category").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, id ASC")
		}).
		Where("businesses.is_active = ?", true)
}

type ratingRow struct {
	BusinessID  uint
	AvgRating   *float64
	ReviewCount int64
}

func (r *businessRepository) withRatings(businesses []models.Business) ([]models.BusinessWithRating, error) {
	rows := make([]models.BusinessWithRating, len(businesses))
	if len(businesses) == 0 {
		return rows, nil
	}

	ids := make([]uint, len(businesses))
	for i, b := range businesses {
		ids[i] = b.ID
	}
	var ratings []ratingRow
	err := r.db.Model(&models.Review{}).
		Select("business_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count").
		Where("business_id IN ?", ids).
		Group("business_id").
		Scan(&ratings).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]ratingRow, len(ratings))
	for _, rr := range ratings {
		byID[rr.BusinessID] = rr
	}

	for i, b := range businesses {
		rows[i].Business = b
		if rr, ok := byID[b.ID]; ok {
			rows[i].AvgRating = rr.AvgRating
			rows[i].ReviewCount = rr.ReviewCount
		}
	}
	return rows, nil
}

func sortFeaturedThenRating(rows []models.BusinessWithRating) {
	sort.SliceStable(rows, func(i, j int) bool {
		fi, fj := rows[i].Capabilities().IsFeatured, rows[j].Capabilities().IsFeatured
		if fi != fj {
			return fi
		}
		return rating(rows[i]) > rating(rows[j])
	})
}

func rating(row models.BusinessWithRating) float64 {
	if row.AvgRating == nil {
		return 0
	}
	return *row.AvgRating
}
