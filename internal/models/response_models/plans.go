package response_models

type PlanDetail struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Description   *string  `json:"description,omitempty"`
	PriceMonthly  *int64   `json:"price_monthly,omitempty"`
	PriceYearly   *int64   `json:"price_yearly,omitempty"`
	PriceLifetime *int64   `json:"price_lifetime,omitempty"`
	Features      []string `json:"features,omitempty"`
	MaxPlants     *int     `json:"max_plants,omitempty"`
	IsAdminOnly   bool     `json:"is_admin_only"`
	IsActive      bool     `json:"is_active"`
}
