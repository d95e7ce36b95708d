package db_models

import (
	"github.com/lib/pq"
)

// Plan is the subscription plan catalog (Basic, Premium, Ultimate, Admin).
// Prices are VND with no minor unit; a nil price means the tier is not
// offered for that plan.
type Plan struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"size:50;not null"`
	Description   *string
	PriceMonthly  *int64
	PriceYearly   *int64
	PriceLifetime *int64
	Features      pq.StringArray `gorm:"type:text[]"`
	MaxPlants     *int           // nil = unlimited
	IsAdminOnly   bool           `gorm:"default:false"`
	IsActive      bool           `gorm:"default:true"`
	CreatedAt     int64          `gorm:"autoCreateTime"`
	UpdatedAt     int64          `gorm:"autoUpdateTime"`
}

// PriceFor returns the plan's price for a billing type, or nil when the
// plan does not offer that tier.
func (p *Plan) PriceFor(subType SubscriptionType) *int64 {
	switch subType {
	case SubTypeMonthly:
		return p.PriceMonthly
	case SubTypeYearly:
		return p.PriceYearly
	case SubTypeLifetime:
		return p.PriceLifetime
	default:
		return nil
	}
}
