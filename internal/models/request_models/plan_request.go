package request_models

type UpsertPlanRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   *string  `json:"description"`
	PriceMonthly  *int64   `json:"price_monthly"`
	PriceYearly   *int64   `json:"price_yearly"`
	PriceLifetime *int64   `json:"price_lifetime"`
	Features      []string `json:"features"`
	MaxPlants     *int     `json:"max_plants"`
	IsAdminOnly   bool     `json:"is_admin_only"`
}
