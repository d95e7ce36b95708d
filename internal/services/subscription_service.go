package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"plantcare/internal/models/db_models"
	"plantcare/internal/models/response_models"
	"plantcare/internal/repositories"
	"plantcare/pkg/utils"
)

// Plan names carrying special upgrade semantics. There is no generalized
// tier hierarchy: the lifetime-Premium-to-Ultimate path is the single legal
// cross-plan upgrade, everything else is extension-or-blocked.
const (
	PlanNamePremium  = "Premium"
	PlanNameUltimate = "Ultimate"
)

type SubscriptionServiceInterface interface {
	CheckUpgrade(ctx context.Context, userID uuid.UUID, targetPlanName string) (*response_models.UpgradeCheck, error)
	ApplyPayment(ctx context.Context, userID uuid.UUID, plan *db_models.Plan, paymentID *uuid.UUID, subType db_models.SubscriptionType) (*db_models.Subscription, error)
	Create(ctx context.Context, userID uuid.UUID, planID uint, paymentID *uuid.UUID, subType db_models.SubscriptionType) (*response_models.SubscriptionDetail, error)
	HandleExpirationWithFallback(ctx context.Context) (*response_models.SweepResult, error)

	GetActive(ctx context.Context, userID uuid.UUID) (*response_models.SubscriptionDetail, error)
	GetHistory(ctx context.Context, userID uuid.UUID) ([]response_models.SubscriptionDetail, error)
	Cancel(ctx context.Context, userID uuid.UUID) error
	Assign(ctx context.Context, userID uuid.UUID, planID uint, subType db_models.SubscriptionType, durationMonths int) (*response_models.SubscriptionDetail, error)
	GetExpiring(ctx context.Context, daysAhead int) ([]response_models.SubscriptionDetail, error)
	Stats(ctx context.Context) (*response_models.SubscriptionStats, error)
}

type subscriptionService struct {
	subRepo  repositories.ISubscriptionRepository
	planRepo repositories.IPlanRepository
}

func NewSubscriptionService(subRepo repositories.ISubscriptionRepository, planRepo repositories.IPlanRepository) SubscriptionServiceInterface {
	return &subscriptionService{
		subRepo:  subRepo,
		planRepo: planRepo,
	}
}

// CheckUpgrade implements the upgrade decision table:
//  1. no active subscription        -> new subscription
//  2. same plan                     -> extension
//  3. lifetime Premium -> Ultimate  -> fork with fallback
//  4. anything else                 -> rejected until expiry or cancel
func (s *subscriptionService) CheckUpgrade(ctx context.Context, userID uuid.UUID, targetPlanName string) (*response_models.UpgradeCheck, error) {

	current, err := s.subRepo.GetUserActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}

	if current == nil {
		return &response_models.UpgradeCheck{
			CanUpgrade: true,
			Reason:     "No existing subscription",
			Action:     response_models.UpgradeNew,
		}, nil
	}

	detail := subscriptionDetail(current)

	if current.Plan.Name == targetPlanName {
		return &response_models.UpgradeCheck{
			CanUpgrade:          true,
			Reason:              "Extension of current plan allowed",
			IsExtension:         true,
			CurrentSubscription: detail,
			Action:              response_models.UpgradeExtend,
		}, nil
	}

	if current.Plan.Name == PlanNamePremium &&
		current.SubscriptionType == db_models.SubTypeLifetime &&
		targetPlanName == PlanNameUltimate {
		return &response_models.UpgradeCheck{
			CanUpgrade:          true,
			Reason:              "Lifetime Premium can upgrade to Ultimate with fallback",
			HasLifetimeFallback: true,
			CurrentSubscription: detail,
			Action:              response_models.UpgradeForkWithFallback,
		}, nil
	}

	return &response_models.UpgradeCheck{
		CanUpgrade:          false,
		Reason:              "Cannot upgrade active subscription. Please wait for expiration or cancel manually.",
		CurrentSubscription: detail,
		Action:              response_models.UpgradeRejected,
	}, nil
}

// ApplyPayment mutates subscription state after a payment settles. The
// decision comes from CheckUpgrade so the callback path and the interactive
// path share one rule set.
func (s *subscriptionService) ApplyPayment(ctx context.Context, userID uuid.UUID, plan *db_models.Plan, paymentID *uuid.UUID, subType db_models.SubscriptionType) (*db_models.Subscription, error) {

	check, err := s.CheckUpgrade(ctx, userID, plan.Name)
	if err != nil {
		return nil, err
	}

	switch check.Action {
	case response_models.UpgradeExtend:
		return s.extendCurrent(ctx, userID, paymentID, subType)

	case response_models.UpgradeForkWithFallback:
		return s.forkWithFallback(ctx, userID, plan.ID, paymentID, subType, check.CurrentSubscription.ID)

	case response_models.UpgradeNew:
		if _, err := s.subRepo.DeactivateUserSubscriptions(ctx, userID); err != nil {
			return nil, err
		}
		return s.createSubscription(ctx, userID, plan.ID, paymentID, subType, nil)

	default:
		return nil, utils.ErrUpgradeBlocked
	}
}

// Create is the interactive variant of ApplyPayment: same decision table,
// plan given by id, detail-shaped response.
func (s *subscriptionService) Create(ctx context.Context, userID uuid.UUID, planID uint, paymentID *uuid.UUID, subType db_models.SubscriptionType) (*response_models.SubscriptionDetail, error) {

	plan, err := s.planRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrRecordNotFound
	}

	sub, err := s.ApplyPayment(ctx, userID, plan, paymentID, subType)
	if err != nil {
		return nil, err
	}
	sub.Plan = *plan
	return subscriptionDetail(sub), nil
}

// extendCurrent pushes the term forward from its existing end date so no
// paid-for time is lost; a lifetime purchase converts the row in place.
func (s *subscriptionService) extendCurrent(ctx context.Context, userID uuid.UUID, paymentID *uuid.UUID, subType db_models.SubscriptionType) (*db_models.Subscription, error) {

	current, err := s.subRepo.GetUserActiveSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, utils.ErrNoActiveSubscription
	}

	if subType == db_models.SubTypeLifetime {
		err = s.subRepo.UpdateFields(ctx, current.ID, map[string]interface{}{
			"sub_end":           nil,
			"subscription_type": db_models.SubTypeLifetime,
			"payment_id":        paymentID,
			"auto_renew":        false,
		})
		if err != nil {
			return nil, err
		}
		return s.subRepo.GetByID(ctx, current.ID)
	}

	months := 1
	if subType == db_models.SubTypeYearly {
		months = 12
	}

	base := time.Now()
	if current.SubEnd != nil {
		base = *current.SubEnd
	}
	newEnd := base.AddDate(0, months, 0)

	err = s.subRepo.UpdateFields(ctx, current.ID, map[string]interface{}{
		"sub_end":    newEnd,
		"payment_id": paymentID,
	})
	if err != nil {
		return nil, err
	}
	return s.subRepo.GetByID(ctx, current.ID)
}

// forkWithFallback deactivates the lifetime Premium row without deleting it
// and creates the Ultimate term pointing back at it, so the sweep can
// restore the lifetime entitlement when the Ultimate term lapses.
func (s *subscriptionService) forkWithFallback(ctx context.Context, userID uuid.UUID, planID uint, paymentID *uuid.UUID, subType db_models.SubscriptionType, fallbackID uuid.UUID) (*db_models.Subscription, error) {

	if _, err := s.subRepo.DeactivateByID(ctx, fallbackID); err != nil {
		return nil, err
	}

	return s.createSubscription(ctx, userID, planID, paymentID, subType, &fallbackID)
}

func (s *subscriptionService) createSubscription(ctx context.Context, userID uuid.UUID, planID uint, paymentID *uuid.UUID, subType db_models.SubscriptionType, fallbackID *uuid.UUID) (*db_models.Subscription, error) {

	if !db_models.ValidSubscriptionType(subType) {
		return nil, utils.ErrInvalidInput
	}

	now := time.Now()
	sub := &db_models.Subscription{
		UserID:                 userID,
		PlanID:                 planID,
		PaymentID:              paymentID,
		SubscriptionType:       subType,
		SubStart:               now,
		SubEnd:                 computeSubEnd(now, subType),
		IsActive:               true,
		AutoRenew:              subType != db_models.SubTypeLifetime,
		FallbackSubscriptionID: fallbackID,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func computeSubEnd(from time.Time, subType db_models.SubscriptionType) *time.Time {
	switch subType {
	case db_models.SubTypeMonthly:
		end := from.AddDate(0, 1, 0)
		return &end
	case db_models.SubTypeYearly:
		end := from.AddDate(1, 0, 0)
		return &end
	default: // lifetime
		return nil
	}
}

// HandleExpirationWithFallback is the scheduled sweep. Fallback rows are
// processed first, then the remaining lapsed rows are deactivated in bulk.
// Both halves are guarded UPDATEs, so re-running with no newly-lapsed rows
// is a no-op.
func (s *subscriptionService) HandleExpirationWithFallback(ctx context.Context) (*response_models.SweepResult, error) {

	now := time.Now()
	due, err := s.subRepo.FindDueWithFallback(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &response_models.SweepResult{}

	for _, expired := range due {
		flipped, err := s.subRepo.DeactivateByID(ctx, expired.ID)
		if err != nil {
			return nil, err
		}
		if flipped == 0 {
			// Lost the race to a concurrent sweep; the other run owns it.
			continue
		}
		result.ExpiredWithFallback++

		if expired.FallbackSubscriptionID != nil {
			reactivated, err := s.subRepo.ReactivateByID(ctx, *expired.FallbackSubscriptionID)
			if err != nil {
				return nil, err
			}
			if reactivated > 0 {
				log.Printf("subscription fallback activated: user %s reverted to subscription %s",
					expired.UserID, *expired.FallbackSubscriptionID)
			}
		}
	}

	plain, err := s.subRepo.ExpireDueWithoutFallback(ctx, now)
	if err != nil {
		return nil, err
	}
	result.RegularExpired = int(plain)

	return result, nil
}

func (s *subscriptionService) GetActive(ctx context.Context, userID uuid.UUID) (*response_models.SubscriptionDetail, error) {

	sub, err := s.subRepo.GetUserActiveSubscription(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if sub == nil {
		return nil, utils.ErrNoActiveSubscription
	}
	return subscriptionDetail(sub), nil
}

func (s *subscriptionService) GetHistory(ctx context.Context, userID uuid.UUID) ([]response_models.SubscriptionDetail, error) {

	subs, err := s.subRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.SubscriptionDetail, 0, len(subs))
	for i := range subs {
		out = append(out, *subscriptionDetail(&subs[i]))
	}
	return out, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userID uuid.UUID) error {

	sub, err := s.subRepo.GetUserActiveSubscription(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if sub == nil {
		return utils.ErrNoActiveSubscription
	}

	return s.subRepo.UpdateFields(ctx, sub.ID, map[string]interface{}{
		"is_active":    false,
		"cancelled_at": time.Now(),
	})
}

// Assign creates a subscription without a payment (admin action). Admin
// grants never auto-renew; a custom duration overrides the standard term.
func (s *subscriptionService) Assign(ctx context.Context, userID uuid.UUID, planID uint, subType db_models.SubscriptionType, durationMonths int) (*response_models.SubscriptionDetail, error) {

	plan, err := s.planRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrRecordNotFound
	}

	if _, err := s.subRepo.DeactivateUserSubscriptions(ctx, userID); err != nil {
		return nil, err
	}

	sub, err := s.createSubscription(ctx, userID, planID, nil, subType, nil)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"auto_renew": false}
	if durationMonths > 0 && subType != db_models.SubTypeLifetime {
		end := time.Now().AddDate(0, durationMonths, 0)
		fields["sub_end"] = end
		sub.SubEnd = &end
	}
	if err := s.subRepo.UpdateFields(ctx, sub.ID, fields); err != nil {
		return nil, err
	}
	sub.AutoRenew = false
	sub.Plan = *plan

	return subscriptionDetail(sub), nil
}

func (s *subscriptionService) GetExpiring(ctx context.Context, daysAhead int) ([]response_models.SubscriptionDetail, error) {

	subs, err := s.subRepo.GetExpiring(ctx, daysAhead)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.SubscriptionDetail, 0, len(subs))
	for i := range subs {
		out = append(out, *subscriptionDetail(&subs[i]))
	}
	return out, nil
}

func (s *subscriptionService) Stats(ctx context.Context) (*response_models.SubscriptionStats, error) {

	active, err := s.subRepo.CountActive(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	expired, err := s.subRepo.CountExpired(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	expiring, err := s.subRepo.CountExpiringWithin(ctx, 7)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.SubscriptionStats{
		ActiveCount:   active,
		ExpiredCount:  expired,
		ExpiringCount: expiring,
	}, nil
}

func subscriptionDetail(sub *db_models.Subscription) *response_models.SubscriptionDetail {
	return &response_models.SubscriptionDetail{
		ID:               sub.ID,
		UserID:           sub.UserID,
		PlanID:           sub.PlanID,
		PlanName:         sub.Plan.Name,
		PaymentID:        sub.PaymentID,
		SubscriptionType: string(sub.SubscriptionType),
		SubStart:         sub.SubStart,
		SubEnd:           sub.SubEnd,
		IsActive:         sub.IsActive,
		AutoRenew:        sub.AutoRenew,
		CancelledAt:      sub.CancelledAt,
		IsExpired:        sub.IsExpired(),
		DaysUntilExpiry:  sub.DaysUntilExpiry(),
	}
}
