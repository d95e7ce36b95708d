package request_models

import "github.com/google/uuid"

type CreateSubscriptionRequest struct {
	PlanID           uint       `json:"plan_id" binding:"required"`
	PaymentID        *uuid.UUID `json:"payment_id"`
	SubscriptionType string     `json:"subscription_type" binding:"required,oneof=monthly yearly lifetime"`
}

type AssignSubscriptionRequest struct {
	UserID           uuid.UUID `json:"user_id" binding:"required"`
	PlanID           uint      `json:"plan_id" binding:"required"`
	SubscriptionType string    `json:"subscription_type" binding:"required,oneof=monthly yearly lifetime"`
	DurationMonths   int       `json:"duration_months"`
}
