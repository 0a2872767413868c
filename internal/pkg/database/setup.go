package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/env"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// DB is the process-wide database handle.
var DB *gorm.DB

// GetDB returns the process-wide database handle.
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the process-wide handle (tests, tools).
func SetDB(db *gorm.DB) {
	DB = db
}

// Migrate creates or updates all tables owned by this application.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.BillingPlan{},
		&models.BusinessCategory{},
		&models.Business{},
		&models.BusinessPlan{},
		&models.BusinessPhoto{},
		&models.BusinessHours{},
		&models.TimeSlot{},
		&models.Review{},
		&models.Booking{},
		&models.Notification{},
		&models.PlanUpgradeRequest{},
	)
}

func SetupDatabase() {
	var err error
	log := logger.Named("database")
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	level := gormlogger.Warn
	if env.IsDev() {
		level = gormlogger.Info
	}

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{
			Logger:         logger.NewGormLogger(logger.L(), level),
			TranslateError: true,
		})
		if err == nil {
			if err = Migrate(DB); err != nil {
				log.Error("auto migration failed", zap.Error(err))
				panic(err)
			}
			return
		}

		log.Warn("failed to connect to database",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err))
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}
