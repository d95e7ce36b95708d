package utils

import "errors"

var (
	ErrInvalidAmount        = errors.New("invalid payment amount")
	ErrInvalidInput         = errors.New("invalid input")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNoActiveSubscription = errors.New("no active subscription to extend")
	ErrUpgradeBlocked       = errors.New("cannot upgrade active subscription")
	ErrRecordNotFound       = errors.New("record not found")
	ErrForbidden            = errors.New("forbidden")
	ErrDatabaseError        = errors.New("database error")
)
