package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/app/repository"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/billing"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/catalog"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/database"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/entitlements"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/env"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/storage"
)

var billingPlans = []models.BillingPlan{
	{Name: "Free", Description: "One business with one photo", Price: decimal.Zero, IsActive: true},
	{Name: "Pro", Description: "Up to three businesses, five photos, website and WhatsApp", Price: decimal.RequireFromString("29.90"), IsActive: true},
	{Name: "Premium", Description: "Up to ten businesses, ten photos, menu and featured placement", Price: decimal.RequireFromString("79.90"), IsPremium: true, IsActive: true},
}

var categories = []models.BusinessCategory{
	{Name: "Restaurants", Icon: "fa-utensils"},
	{Name: "Beauty & Wellness", Icon: "fa-spa"},
	{Name: "Services", Icon: "fa-screwdriver-wrench"},
}

func main() {
	env.SetupEnvFile()
	adminPassword := flag.String("admin-password", env.GetEnv("SEED_ADMIN_PASSWORD", "admin12345"), "password of the seeded admin account")
	demo := flag.Bool("demo", true, "create a demo owner with sample businesses")
	flag.Parse()

	logger.Setup(env.GetEnv("APP_ENV", "dev"), "info")
	log := logger.Named("seed")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	database.SetupDatabase()
	db := database.GetDB()

	if err := seedBillingPlans(ctx, db); err != nil {
		log.Fatal("failed to seed billing plans", zap.Error(err))
	}
	repos := repository.NewRepositories(db)
	cats, err := seedCategories(repos)
	if err != nil {
		log.Fatal("failed to seed categories", zap.Error(err))
	}
	if _, err := ensureUser(repos, "Administrator", "admin@localbiz.local", *adminPassword, models.ROLE_ADMIN); err != nil {
		log.Fatal("failed to seed admin", zap.Error(err))
	}
	log.Info("base data ready", zap.Int("billing_plans", len(billingPlans)), zap.Int("categories", len(cats)))

	if !*demo {
		return
	}
	if err := seedDemo(ctx, db, repos, cats); err != nil {
		log.Error("failed to seed demo data", zap.Error(err))
		os.Exit(1)
	}
	log.Info("demo data ready")
}

func seedBillingPlans(ctx context.Context, db *gorm.DB) error {
	svc := billing.NewServiceFromDB(db)
	for i := range billingPlans {
		if err := svc.EnsurePlan(ctx, &billingPlans[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedCategories(repos *repository.Repositories) ([]models.BusinessCategory, error) {
	existing, err := repos.Category.List()
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}
	for i := range categories {
		if err := repos.Category.Create(&categories[i]); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func ensureUser(repos *repository.Repositories, name, email, password, role string) (*models.User, error) {
	u, err := repos.User.GetByEmail(email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	u, err = models.CreateUser(name, email, password)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := repos.User.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func seedDemo(ctx context.Context, db *gorm.DB, repos *repository.Repositories, cats []models.BusinessCategory) error {
	owner, err := ensureUser(repos, "Demo Owner", "owner@localbiz.local", "owner12345", models.ROLE_USER)
	if err != nil {
		return err
	}
	if n, err := repos.Business.CountByOwner(owner.ID); err != nil || n > 0 {
		return err
	}

	svc := catalog.NewService(repos, storage.Default())
	categoryID := func(i int) *uint {
		if i >= len(cats) {
			return nil
		}
		id := cats[i].ID
		return &id
	}

	b := &models.Business{
		Name:         "Corner Barber",
		Description:  "Classic cuts and hot towel shaves.",
		BusinessType: models.BusinessTypeService,
		CategoryID:   categoryID(1),
		Address:      "12 Main Street",
		Phone:        "555-0100",
	}
	if err := svc.RegisterBusiness(ctx, owner.ID, b); err != nil {
		return err
	}
	for _, day := range []string{models.DayMonday, models.DayTuesday, models.DayWednesday, models.DayThursday, models.DayFriday} {
		if err := svc.AddHours(ctx, owner.ID, &models.BusinessHours{BusinessID: b.ID, DayOfWeek: day, OpenTime: "09:00", CloseTime: "18:00"}); err != nil {
			return err
		}
		if err := svc.AddTimeSlot(ctx, owner.ID, &models.TimeSlot{BusinessID: b.ID, DayOfWeek: day, StartTime: "09:00", EndTime: "17:00", Duration: 30}); err != nil {
			return err
		}
	}
	if err := svc.AddHours(ctx, owner.ID, &models.BusinessHours{BusinessID: b.ID, DayOfWeek: models.DaySunday, IsClosed: true}); err != nil {
		return err
	}

	// the plan upgrade flow is skipped for demo data
	plan, err := repos.Business.GetPlan(b.ID)
	if err != nil {
		return err
	}
	plan.Apply(entitlements.PlanPremium, nil)
	if err := repos.Business.SavePlan(plan); err != nil {
		return err
	}

	return svc.RegisterBusiness(ctx, owner.ID, &models.Business{
		Name:         "Green Leaf Bistro",
		Description:  "Seasonal lunch menu and vegetarian dishes.",
		BusinessType: models.BusinessTypeCommerce,
		CategoryID:   categoryID(0),
		Address:      "48 Market Square",
		Website:      "https://greenleaf.example",
	})
}
