package services

import (
	"context"

	"plantcare/internal/models/db_models"
	"plantcare/internal/models/request_models"
	"plantcare/internal/models/response_models"
	"plantcare/internal/repositories"
	"plantcare/pkg/utils"
)

type PlanServiceInterface interface {
	GetPublicPlans(ctx context.Context) ([]response_models.PlanDetail, error)
	GetAllPlans(ctx context.Context) ([]response_models.PlanDetail, error)
	GetPlanByID(ctx context.Context, planID uint) (*response_models.PlanDetail, error)
	CreatePlan(ctx context.Context, req request_models.UpsertPlanRequest) (*response_models.PlanDetail, error)
	UpdatePlan(ctx context.Context, planID uint, req request_models.UpsertPlanRequest) (*response_models.PlanDetail, error)
	DeactivatePlan(ctx context.Context, planID uint) error
}

func NewPlanService(planRepo repositories.IPlanRepository) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
}

func (p *PlanService) GetPublicPlans(ctx context.Context) ([]response_models.PlanDetail, error) {

	plans, err := p.planRepo.GetPublicPlans(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return planDetails(plans), nil
}

func (p *PlanService) GetAllPlans(ctx context.Context) ([]response_models.PlanDetail, error) {

	plans, err := p.planRepo.GetAllPlans(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return planDetails(plans), nil
}

func (p *PlanService) GetPlanByID(ctx context.Context, planID uint) (*response_models.PlanDetail, error) {

	plan, err := p.planRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrRecordNotFound
	}

	detail := planDetail(plan)
	return &detail, nil
}

func (p *PlanService) CreatePlan(ctx context.Context, req request_models.UpsertPlanRequest) (*response_models.PlanDetail, error) {

	plan := planFromRequest(req)
	plan.IsActive = true

	if err := p.planRepo.CreatePlan(ctx, plan); err != nil {
		return nil, utils.ErrDatabaseError
	}

	detail := planDetail(plan)
	return &detail, nil
}

func (p *PlanService) UpdatePlan(ctx context.Context, planID uint, req request_models.UpsertPlanRequest) (*response_models.PlanDetail, error) {

	existing, err := p.planRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing == nil {
		return nil, utils.ErrRecordNotFound
	}

	updated := planFromRequest(req)
	updated.ID = existing.ID
	updated.IsActive = existing.IsActive
	updated.CreatedAt = existing.CreatedAt

	if err := p.planRepo.UpdatePlan(ctx, updated); err != nil {
		return nil, utils.ErrDatabaseError
	}

	detail := planDetail(updated)
	return &detail, nil
}

func (p *PlanService) DeactivatePlan(ctx context.Context, planID uint) error {

	existing, err := p.planRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing == nil {
		return utils.ErrRecordNotFound
	}

	if err := p.planRepo.DeactivatePlan(ctx, planID); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func planFromRequest(req request_models.UpsertPlanRequest) *db_models.Plan {
	return &db_models.Plan{
		Name:          req.Name,
		Description:   req.Description,
		PriceMonthly:  req.PriceMonthly,
		PriceYearly:   req.PriceYearly,
		PriceLifetime: req.PriceLifetime,
		Features:      req.Features,
		MaxPlants:     req.MaxPlants,
		IsAdminOnly:   req.IsAdminOnly,
	}
}

func planDetail(plan *db_models.Plan) response_models.PlanDetail {
	return response_models.PlanDetail{
		ID:            plan.ID,
		Name:          plan.Name,
		Description:   plan.Description,
		PriceMonthly:  plan.PriceMonthly,
		PriceYearly:   plan.PriceYearly,
		PriceLifetime: plan.PriceLifetime,
		Features:      plan.Features,
		MaxPlants:     plan.MaxPlants,
		IsAdminOnly:   plan.IsAdminOnly,
		IsActive:      plan.IsActive,
	}
}

func planDetails(plans []db_models.Plan) []response_models.PlanDetail {
	out := make([]response_models.PlanDetail, 0, len(plans))
	for i := range plans {
		out = append(out, planDetail(&plans[i]))
	}
	return out
}
