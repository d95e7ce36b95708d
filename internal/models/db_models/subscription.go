package db_models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionType string

const (
	SubTypeMonthly  SubscriptionType = "monthly"
	SubTypeYearly   SubscriptionType = "yearly"
	SubTypeLifetime SubscriptionType = "lifetime"
)

func ValidSubscriptionType(t SubscriptionType) bool {
	switch t {
	case SubTypeMonthly, SubTypeYearly, SubTypeLifetime:
		return true
	}
	return false
}

// Subscription is one row per subscription term. Rows are never deleted:
// expiry and cancellation both toggle IsActive off. A row whose
// FallbackSubscriptionID is set supersedes the referenced row, which is
// reactivated by the expiration sweep once this one lapses.
type Subscription struct {
	BaseModel
	UserID           uuid.UUID        `gorm:"type:uuid;index;not null"`
	PlanID           uint             `gorm:"index;not null"`
	PaymentID        *uuid.UUID       `gorm:"type:uuid"` // nil for admin-assigned
	SubscriptionType SubscriptionType `gorm:"size:10;not null"`
	SubStart         time.Time        `gorm:"not null"`
	SubEnd           *time.Time       // nil = lifetime
	IsActive         bool             `gorm:"default:true;index"`
	AutoRenew        bool             `gorm:"default:true"`
	CancelledAt      *time.Time

	FallbackSubscriptionID *uuid.UUID `gorm:"type:uuid"`

	User    User     `gorm:"foreignKey:UserID"`
	Plan    Plan     `gorm:"foreignKey:PlanID"`
	Payment *Payment `gorm:"foreignKey:PaymentID"`
}

// IsExpired reports whether the term has lapsed. Lifetime rows never expire.
func (s *Subscription) IsExpired() bool {
	if s.SubEnd == nil {
		return false
	}
	return time.Now().After(*s.SubEnd)
}

// IsCurrent reports whether the row is active and the term has not lapsed.
func (s *Subscription) IsCurrent() bool {
	return s.IsActive && !s.IsExpired()
}

// DaysUntilExpiry returns nil for lifetime rows.
func (s *Subscription) DaysUntilExpiry() *int {
	if s.SubEnd == nil {
		return nil
	}
	days := int(time.Until(*s.SubEnd).Hours() / 24)
	return &days
}
