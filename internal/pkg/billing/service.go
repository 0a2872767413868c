package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// ErrPlanNotMapped is returned when no billing plan is named after a plan type.
var ErrPlanNotMapped = errors.New("no billing plan mapped to plan type")

// Service resolves business plan types against the billing catalog.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// ResolvePlan returns the billing plan whose name matches the plan type,
// ignoring case.
func (s *Service) ResolvePlan(ctx context.Context, plan entitlements.Plan) (*models.BillingPlan, error) {
	_ = ctx
	if !entitlements.IsValid(string(plan)) {
		return nil, fmt.Errorf("%w: %q", ErrPlanNotMapped, plan)
	}
	bp, err := s.repo.FindPlanByName(string(plan))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrPlanNotMapped, plan)
	}
	if err != nil {
		return nil, err
	}
	return bp, nil
}

// Catalog lists the active billing plans by ascending price.
func (s *Service) Catalog(ctx context.Context) ([]models.BillingPlan, error) {
	_ = ctx
	return s.repo.ListActivePlans()
}

// EnsurePlan creates or updates a catalog entry by name.
func (s *Service) EnsurePlan(ctx context.Context, plan *models.BillingPlan) error {
	_ = ctx
	if plan.Name == "" {
		return errors.New("billing plan name is required")
	}
	return s.repo.UpsertPlan(plan)
}
