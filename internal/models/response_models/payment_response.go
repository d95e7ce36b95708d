package response_models

import "github.com/google/uuid"

type CreatePaymentResponse struct {
	PaymentURL string    `json:"payment_url"`
	OrderID    string    `json:"order_id"`
	PaymentID  uuid.UUID `json:"payment_id"`
	Amount     int64     `json:"amount"`
	ExpireDate string    `json:"expire_date"`
}

type PaymentDetail struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	UserID        uuid.UUID `json:"user_id"`
	OrderID       string    `json:"order_id"`
	Amount        int64     `json:"amount"`
	OrderInfo     string    `json:"order_info"`
	BankCode      *string   `json:"bank_code,omitempty"`
	TransactionNo *string   `json:"transaction_no,omitempty"`
	ResponseCode  *string   `json:"response_code,omitempty"`
	PayDate       *string   `json:"pay_date,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     int64     `json:"created_at"`
	UpdatedAt     int64     `json:"updated_at"`
}

// IPNAck is the acknowledgement object VNPay expects from the notification
// endpoint. The RspCode vocabulary is gateway-specified and fixed.
type IPNAck struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

// PaymentStats aggregates payment outcomes over a trailing window.
type PaymentStats struct {
	Days         int   `json:"days"`
	TotalCount   int64 `json:"total_count"`
	SuccessCount int64 `json:"success_count"`
	FailedCount  int64 `json:"failed_count"`
	PendingCount int64 `json:"pending_count"`
	TotalRevenue int64 `json:"total_revenue"`
}
