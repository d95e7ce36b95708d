package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantcare/internal/models/db_models"
)

type ISubscriptionRepository interface {
	Create(ctx context.Context, sub *db_models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	GetUserActiveSubscription(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]db_models.Subscription, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	// Guarded activation toggles. Both return the number of rows actually
	// flipped so callers can tell a no-op retry from a real transition.
	DeactivateByID(ctx context.Context, id uuid.UUID) (int64, error)
	ReactivateByID(ctx context.Context, id uuid.UUID) (int64, error)
	DeactivateUserSubscriptions(ctx context.Context, userID uuid.UUID) (int64, error)

	FindDueWithFallback(ctx context.Context, now time.Time) ([]db_models.Subscription, error)
	ExpireDueWithoutFallback(ctx context.Context, now time.Time) (int64, error)

	GetExpiring(ctx context.Context, daysAhead int) ([]db_models.Subscription, error)
	CountActive(ctx context.Context) (int64, error)
	CountExpired(ctx context.Context) (int64, error)
	CountExpiringWithin(ctx context.Context, daysAhead int) (int64, error)
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) ISubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (s *SubscriptionRepository) Create(ctx context.Context, sub *db_models.Subscription) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {

	var sub db_models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		First(&sub, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

// GetUserActiveSubscription returns the most recent active, non-expired
// subscription for the user, or nil when there is none.
func (s *SubscriptionRepository) GetUserActiveSubscription(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error) {

	var sub db_models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND is_active = TRUE AND (sub_end IS NULL OR sub_end > ?)", userID, time.Now()).
		Order("created_at DESC").
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (s *SubscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]db_models.Subscription, error) {

	var subs []db_models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error

	if err != nil {
		return nil, err
	}

	return subs, nil
}

func (s *SubscriptionRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (s *SubscriptionRepository) DeactivateByID(ctx context.Context, id uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ? AND is_active = TRUE", id).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (s *SubscriptionRepository) ReactivateByID(ctx context.Context, id uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ? AND is_active = FALSE", id).
		Update("is_active", true)
	return res.RowsAffected, res.Error
}

func (s *SubscriptionRepository) DeactivateUserSubscriptions(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("user_id = ? AND is_active = TRUE", userID).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// FindDueWithFallback lists active rows past their end date that carry a
// fallback reference; the sweep reactivates those fallbacks.
func (s *SubscriptionRepository) FindDueWithFallback(ctx context.Context, now time.Time) ([]db_models.Subscription, error) {

	var subs []db_models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Where("is_active = TRUE AND sub_end IS NOT NULL AND sub_end <= ? AND fallback_subscription_id IS NOT NULL", now).
		Find(&subs).Error

	if err != nil {
		return nil, err
	}

	return subs, nil
}

// ExpireDueWithoutFallback deactivates every lapsed row without a fallback
// in a single guarded UPDATE. Safe to re-run.
func (s *SubscriptionRepository) ExpireDueWithoutFallback(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("is_active = TRUE AND sub_end IS NOT NULL AND sub_end <= ? AND fallback_subscription_id IS NULL", now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (s *SubscriptionRepository) GetExpiring(ctx context.Context, daysAhead int) ([]db_models.Subscription, error) {

	now := time.Now()
	until := now.AddDate(0, 0, daysAhead)

	var subs []db_models.Subscription
	err := s.db.WithContext(ctx).
		Preload("Plan").
		Preload("User").
		Where("is_active = TRUE AND sub_end IS NOT NULL AND sub_end BETWEEN ? AND ?", now, until).
		Order("sub_end ASC").
		Find(&subs).Error

	if err != nil {
		return nil, err
	}

	return subs, nil
}

func (s *SubscriptionRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("is_active = TRUE AND (sub_end IS NULL OR sub_end > ?)", time.Now()).
		Count(&n).Error
	return n, err
}

func (s *SubscriptionRepository) CountExpired(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("is_active = FALSE OR (sub_end IS NOT NULL AND sub_end <= ?)", time.Now()).
		Count(&n).Error
	return n, err
}

func (s *SubscriptionRepository) CountExpiringWithin(ctx context.Context, daysAhead int) (int64, error) {
	now := time.Now()
	var n int64
	err := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("is_active = TRUE AND sub_end IS NOT NULL AND sub_end BETWEEN ? AND ?", now, now.AddDate(0, 0, daysAhead)).
		Count(&n).Error
	return n, err
}
