package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment is one row per payment attempt. OrderID is the merchant-generated
// reference (vnp_TxnRef) correlating the record with gateway callbacks;
// the gateway echo fields stay empty until a callback arrives.
type Payment struct {
	BaseModel
	UserID    uuid.UUID     `gorm:"type:uuid;index;not null"`
	OrderID   string        `gorm:"uniqueIndex;size:64;not null"`
	Amount    int64         `gorm:"not null"` // VND
	OrderInfo string
	BankCode  *string
	IPAddress *string
	Status    PaymentStatus `gorm:"size:10;index;default:PENDING"`

	// Filled from the gateway callback
	TransactionNo  *string
	ResponseCode   *string
	PayDate        *string        // gateway format yyyyMMddHHmmss
	GatewayPayload datatypes.JSON // decoded callback, kept for dispute audits

	User User `gorm:"foreignKey:UserID"`
}

// IsTerminal reports whether the payment has reached SUCCESS or FAILED.
// Terminal statuses are never reversed.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusSuccess || p.Status == PaymentStatusFailed
}
