package request_models

type CreatePaymentRequest struct {
	Amount    int64  `json:"amount" binding:"required"`
	OrderInfo string `json:"order_info" binding:"required"`
	PlanName  string `json:"plan_name"`
	BankCode  string `json:"bank_code"`
}
