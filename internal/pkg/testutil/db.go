// Package testutil provides an in-memory SQLite database for package tests.
package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/database"
)

// NewDB opens a fresh in-memory database with every application table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// every pooled connection would otherwise get its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts an active user with the given name and role.
func CreateUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	u := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
		Status:   models.STATUS_ACTIVE,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateBusiness inserts an active business for owner with a BusinessPlan of planType.
func CreateBusiness(t *testing.T, db *gorm.DB, owner *models.User, name, planType string) *models.Business {
	t.Helper()

	b := &models.Business{
		UserID:       owner.ID,
		Name:         name,
		Description:  name + " description",
		BusinessType: models.BusinessTypeService,
		Address:      "Main Street 1",
		IsActive:     true,
	}
	require.NoError(t, db.Create(b).Error)
	require.NoError(t, db.Create(&models.BusinessPlan{BusinessID: b.ID, PlanType: planType}).Error)
	return b
}

// CreateBillingPlans inserts the Free, Pro and Premium billing catalog entries.
func CreateBillingPlans(t *testing.T, db *gorm.DB) map[string]*models.BillingPlan {
	t.Helper()

	plans := map[string]*models.BillingPlan{
		"free":    {Name: "Free", Price: decimal.Zero, IsActive: true},
		"pro":     {Name: "Pro", Price: decimal.RequireFromString("19.90"), CreditsPerMonth: 100, IsActive: true},
		"premium": {Name: "Premium", Price: decimal.RequireFromString("49.90"), CreditsPerMonth: 500, IsPremium: true, IsActive: true},
	}
	for _, key := range []string{"free", "pro", "premium"} {
		require.NoError(t, db.Create(plans[key]).Error)
	}
	return plans
}
