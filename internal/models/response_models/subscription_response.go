package response_models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionDetail struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	PlanID           uint       `json:"plan_id"`
	PlanName         string     `json:"plan_name,omitempty"`
	PaymentID        *uuid.UUID `json:"payment_id,omitempty"`
	SubscriptionType string     `json:"subscription_type"`
	SubStart         time.Time  `json:"sub_start"`
	SubEnd           *time.Time `json:"sub_end,omitempty"`
	IsActive         bool       `json:"is_active"`
	AutoRenew        bool       `json:"auto_renew"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	IsExpired        bool       `json:"is_expired"`
	DaysUntilExpiry  *int       `json:"days_until_expiry,omitempty"`
}

// UpgradeCheck mirrors the eligibility decision handed to clients. The
// boolean flags are the wire contract; Action carries the same decision as
// an enum for exhaustive dispatch inside the engine.
type UpgradeCheck struct {
	CanUpgrade          bool                `json:"can_upgrade"`
	Reason              string              `json:"reason"`
	IsExtension         bool                `json:"is_extension"`
	HasLifetimeFallback bool                `json:"has_lifetime_fallback"`
	CurrentSubscription *SubscriptionDetail `json:"current_subscription,omitempty"`

	Action UpgradeAction `json:"-"`
}

// UpgradeAction is the engine's decision variant.
type UpgradeAction int

const (
	UpgradeNew UpgradeAction = iota
	UpgradeExtend
	UpgradeForkWithFallback
	UpgradeRejected
)

// SweepResult summarizes one expiration sweep.
type SweepResult struct {
	ExpiredWithFallback int `json:"expired_with_fallback"`
	RegularExpired      int `json:"regular_expired"`
}

// SubscriptionStats is the daily maintenance summary.
type SubscriptionStats struct {
	ActiveCount   int64 `json:"active_count"`
	ExpiredCount  int64 `json:"expired_count"`
	ExpiringCount int64 `json:"expiring_count"` // within the next 7 days
}
