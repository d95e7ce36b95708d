package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plantcare/internal/models/request_models"
	"plantcare/internal/services"
	"plantcare/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
}

func NewPlanController(planService services.PlanServiceInterface) *PlanController {
	return &PlanController{
		planService: planService,
	}
}

func (p *PlanController) GetPublicPlans(c *gin.Context) {
	plans, err := p.planService.GetPublicPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

func (p *PlanController) GetAllPlans(c *gin.Context) {
	plans, err := p.planService.GetAllPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

func (p *PlanController) GetPlanByID(c *gin.Context) {
	planID, ok := parsePlanID(c)
	if !ok {
		return
	}

	plan, err := p.planService.GetPlanByID(c.Request.Context(), planID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan fetched successfully")
}

func (p *PlanController) CreatePlan(c *gin.Context) {
	var request request_models.UpsertPlanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	plan, err := p.planService.CreatePlan(c.Request.Context(), request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, plan, "Plan created successfully")
}

func (p *PlanController) UpdatePlan(c *gin.Context) {
	planID, ok := parsePlanID(c)
	if !ok {
		return
	}

	var request request_models.UpsertPlanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	plan, err := p.planService.UpdatePlan(c.Request.Context(), planID, request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Plan updated successfully")
}

func (p *PlanController) DeactivatePlan(c *gin.Context) {
	planID, ok := parsePlanID(c)
	if !ok {
		return
	}

	if err := p.planService.DeactivatePlan(c.Request.Context(), planID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Plan deactivated successfully")
}

func parsePlanID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, "Plan ID is invalid")
		return 0, false
	}
	return uint(id), true
}
