package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"plantcare/internal/models/db_models"
	"plantcare/internal/models/request_models"
	"plantcare/internal/services"
	"plantcare/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// CreateSubscription applies a plan purchase for the caller. The same
// decision table as the payment callback runs here, so a blocked upgrade
// fails the same way in both paths.
func (s *SubscriptionController) CreateSubscription(c *gin.Context) {
	var request request_models.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sub, err := s.subscriptionService.Create(
		c.Request.Context(),
		userID,
		request.PlanID,
		request.PaymentID,
		db_models.SubscriptionType(request.SubscriptionType),
	)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, sub, "Subscription created successfully")
}

func (s *SubscriptionController) GetActiveSubscription(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sub, err := s.subscriptionService.GetActive(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Active subscription fetched successfully")
}

func (s *SubscriptionController) GetSubscriptionHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	subs, err := s.subscriptionService.GetHistory(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, subs, "Subscription history fetched successfully")
}

// CheckUpgrade reports whether the caller may purchase the named plan, and
// whether that purchase would extend or fork the current term.
func (s *SubscriptionController) CheckUpgrade(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	planName := c.Query("plan")
	if planName == "" {
		utils.RespondError(c, http.StatusBadRequest, "plan is required")
		return
	}

	check, err := s.subscriptionService.CheckUpgrade(c.Request.Context(), userID, planName)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, check, "Upgrade eligibility checked successfully")
}

func (s *SubscriptionController) CancelSubscription(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := s.subscriptionService.Cancel(c.Request.Context(), userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Auto-renew disabled successfully")
}

// AssignSubscription grants a plan without a payment. Admin only.
func (s *SubscriptionController) AssignSubscription(c *gin.Context) {
	var request request_models.AssignSubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	sub, err := s.subscriptionService.Assign(
		c.Request.Context(),
		request.UserID,
		request.PlanID,
		db_models.SubscriptionType(request.SubscriptionType),
		request.DurationMonths,
	)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, sub, "Subscription assigned successfully")
}

func (s *SubscriptionController) GetExpiringSubscriptions(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 90 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid days (must be 1-90)")
		return
	}

	subs, err := s.subscriptionService.GetExpiring(c.Request.Context(), days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, subs, "Expiring subscriptions fetched successfully")
}

func (s *SubscriptionController) GetSubscriptionStats(c *gin.Context) {
	stats, err := s.subscriptionService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Subscription stats fetched successfully")
}
