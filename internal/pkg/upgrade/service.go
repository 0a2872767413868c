package upgrade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/LocalBiz/app/models"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/billing"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/entitlements"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/notify"
	"gorm.io/gorm"
)

// PlanDuration is how long an approved paid plan stays active.
const PlanDuration = 30 * 24 * time.Hour

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrRequestNotFound  = errors.New("upgrade request not found or not pending")
	ErrPlanNotPaid      = errors.New("plan does not require checkout")
	ErrBusinessNotFound = errors.New("business not found")
)

// Actor is the user performing a workflow action.
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// CheckoutInput is a submitted checkout for a paid plan.
type CheckoutInput struct {
	UserID     uint
	BusinessID uint
	Plan       entitlements.Plan
	Payment    billing.Payment
}

// Service runs the plan upgrade workflow: pending -> approved | rejected.
type Service struct {
	repo    Repository
	billing *billing.Service
	now     func() time.Time
}

// NewService creates an upgrade service from an injected repository.
func NewService(repo Repository, billingSvc *billing.Service) *Service {
	return &Service{repo: repo, billing: billingSvc, now: time.Now}
}

// NewServiceFromDB creates an upgrade service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), billing.NewServiceFromDB(db))
}

// ApplyFree switches a business straight to the free plan; it never goes through checkout.
func (s *Service) ApplyFree(ctx context.Context, actor Actor, businessID uint) (*models.BusinessPlan, error) {
	_ = ctx
	var plan *models.BusinessPlan
	err := s.repo.Transaction(func(repo Repository) error {
		if _, err := ownedBusiness(repo, actor, businessID); err != nil {
			return err
		}
		p, err := repo.GetOrCreatePlan(businessID)
		if err != nil {
			return err
		}
		p.Apply(entitlements.PlanFree, nil)
		if err := repo.SavePlan(p); err != nil {
			return err
		}
		plan = p
		return nil
	})
	return plan, err
}

// Create records a pending upgrade request for a paid plan and notifies the business.
func (s *Service) Create(ctx context.Context, in CheckoutInput) (*models.PlanUpgradeRequest, error) {
	plan := entitlements.Normalize(string(in.Plan))
	if !entitlements.IsPaid(plan) {
		return nil, ErrPlanNotPaid
	}
	ref, err := billing.ValidatePayment(in.Payment)
	if err != nil {
		return nil, err
	}
	bp, err := s.billing.ResolvePlan(ctx, plan)
	if err != nil {
		return nil, err
	}

	req := &models.PlanUpgradeRequest{
		BusinessID:       in.BusinessID,
		RequestedPlan:    string(plan),
		BillingPlanID:    bp.ID,
		PaymentMethod:    strings.ToLower(strings.TrimSpace(in.Payment.Method)),
		PaymentReference: ref,
		Status:           models.UpgradeStatusPending,
		RequestedByID:    in.UserID,
	}
	err = s.repo.Transaction(func(repo Repository) error {
		if _, err := ownedBusiness(repo, Actor{UserID: in.UserID}, in.BusinessID); err != nil {
			return err
		}
		if err := repo.CreateRequest(req); err != nil {
			return fmt.Errorf("create upgrade request: %w", err)
		}
		return repo.Notify(notify.UpgradeRequested(req))
	})
	if err != nil {
		return nil, err
	}
	req.BillingPlan = bp
	return req, nil
}

// Approve activates the requested plan for PlanDuration.
func (s *Service) Approve(ctx context.Context, actor Actor, requestID uint) (*models.PlanUpgradeRequest, error) {
	_ = ctx
	if !actor.IsAdmin {
		return nil, ErrPermissionDenied
	}

	var req *models.PlanUpgradeRequest
	err := s.repo.Transaction(func(repo Repository) error {
		r, err := pendingRequest(repo, requestID)
		if err != nil {
			return err
		}
		now := s.now()
		r.Status = models.UpgradeStatusApproved
		r.ApprovedByID = &actor.UserID
		r.ApprovedAt = &now
		if err := resolve(repo, r); err != nil {
			return err
		}

		plan, err := repo.GetOrCreatePlan(r.BusinessID)
		if err != nil {
			return err
		}
		expires := now.Add(PlanDuration)
		plan.Apply(entitlements.Plan(r.RequestedPlan), &expires)
		if err := repo.SavePlan(plan); err != nil {
			return fmt.Errorf("apply plan: %w", err)
		}

		req = r
		return repo.Notify(notify.UpgradeApproved(r))
	})
	return req, err
}

// Reject closes the request with a reason. The business plan is left untouched.
func (s *Service) Reject(ctx context.Context, actor Actor, requestID uint, reason string) (*models.PlanUpgradeRequest, error) {
	_ = ctx
	if !actor.IsAdmin {
		return nil, ErrPermissionDenied
	}

	var req *models.PlanUpgradeRequest
	err := s.repo.Transaction(func(repo Repository) error {
		r, err := pendingRequest(repo, requestID)
		if err != nil {
			return err
		}
		now := s.now()
		r.Status = models.UpgradeStatusRejected
		r.ApprovedByID = &actor.UserID
		r.ApprovedAt = &now
		r.RejectReason = strings.TrimSpace(reason)
		if err := resolve(repo, r); err != nil {
			return err
		}
		req = r
		return repo.Notify(notify.UpgradeRejected(r))
	})
	return req, err
}

// Pending lists open requests, oldest first.
func (s *Service) Pending(ctx context.Context, limit int) ([]models.PlanUpgradeRequest, error) {
	_ = ctx
	return s.repo.ListByStatus(models.UpgradeStatusPending, limit)
}

// RecentlyResolved lists approved and rejected requests, newest first.
func (s *Service) RecentlyResolved(ctx context.Context, limit int) ([]models.PlanUpgradeRequest, error) {
	_ = ctx
	return s.repo.ListResolved(limit)
}

// ForBusiness lists the requests of one business, newest first.
func (s *Service) ForBusiness(ctx context.Context, businessID uint, limit int) ([]models.PlanUpgradeRequest, error) {
	_ = ctx
	return s.repo.ListByBusiness(businessID, limit)
}

func (s *Service) CountPending(ctx context.Context) (int64, error) {
	_ = ctx
	return s.repo.CountByStatus(models.UpgradeStatusPending)
}

func ownedBusiness(repo Repository, actor Actor, businessID uint) (*models.Business, error) {
	b, err := repo.GetBusiness(businessID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(actor.UserID) {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func pendingRequest(repo Repository, id uint) (*models.PlanUpgradeRequest, error) {
	r, err := repo.GetRequest(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if !r.IsPending() {
		return nil, ErrRequestNotFound
	}
	return r, nil
}

func resolve(repo Repository, r *models.PlanUpgradeRequest) error {
	ok, err := repo.ResolvePending(r)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRequestNotFound
	}
	return nil
}
