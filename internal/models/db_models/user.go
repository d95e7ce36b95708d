package db_models

// User carries only what the payment flow touches. The Role column is a
// best-effort entitlement snapshot kept for older readers; active
// Subscription rows are the source of truth.
type User struct {
	BaseModel
	Email string `gorm:"uniqueIndex"`
	Name  string
	Role  string `gorm:"size:20;default:Basic"`
}
