package repositories

import (
	"context"
	"errors"
	"gorm.io/gorm"

	"plantcare/internal/models/db_models"
)

type IPlanRepository interface {
	GetPlanByID(ctx context.Context, planID uint) (*db_models.Plan, error)
	GetPlanByName(ctx context.Context, name string) (*db_models.Plan, error)
	GetPublicPlans(ctx context.Context) ([]db_models.Plan, error)
	GetAllPlans(ctx context.Context) ([]db_models.Plan, error)
	CreatePlan(ctx context.Context, plan *db_models.Plan) error
	UpdatePlan(ctx context.Context, plan *db_models.Plan) error
	DeactivatePlan(ctx context.Context, planID uint) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func (p *PlanRepository) GetPlanByID(ctx context.Context, planID uint) (*db_models.Plan, error) {

	var plan db_models.Plan
	err := p.db.WithContext(ctx).First(&plan, "id = ?", planID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

// GetPlanByName only matches active plans.
func (p *PlanRepository) GetPlanByName(ctx context.Context, name string) (*db_models.Plan, error) {

	var plan db_models.Plan
	err := p.db.WithContext(ctx).
		Where("name = ? AND is_active = TRUE", name).
		First(&plan).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &plan, nil
}

func (p *PlanRepository) GetPublicPlans(ctx context.Context) ([]db_models.Plan, error) {

	var plans []db_models.Plan
	err := p.db.WithContext(ctx).
		Where("is_active = TRUE AND is_admin_only = FALSE").
		Order("id ASC").
		Find(&plans).Error

	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (p *PlanRepository) GetAllPlans(ctx context.Context) ([]db_models.Plan, error) {

	var plans []db_models.Plan
	err := p.db.WithContext(ctx).Order("id ASC").Find(&plans).Error

	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (p *PlanRepository) CreatePlan(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Create(plan).Error
}

func (p *PlanRepository) UpdatePlan(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Save(plan).Error
}

// DeactivatePlan soft-deletes: the row stays for historical subscriptions.
func (p *PlanRepository) DeactivatePlan(ctx context.Context, planID uint) error {
	return p.db.WithContext(ctx).
		Model(&db_models.Plan{}).
		Where("id = ?", planID).
		Update("is_active", false).Error
}
