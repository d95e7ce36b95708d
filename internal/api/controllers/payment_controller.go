package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"plantcare/internal/models/request_models"
	"plantcare/internal/services"
	"plantcare/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// CreatePayment godoc
// @Summary Create a VNPay checkout URL for a subscription plan
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreatePaymentRequest true "Create Payment Request"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments [post]
func (p *PaymentController) CreatePayment(c *gin.Context) {

	var request request_models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := p.paymentService.CreatePayment(c.Request.Context(), userID, request, c.ClientIP())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Payment URL created successfully")
}

// HandleReturn is the browser redirect target after the gateway checkout.
// It settles the payment on a best-effort basis and bounces the user to the
// frontend result page. Subscription activation belongs to the IPN.
func (p *PaymentController) HandleReturn(c *gin.Context) {
	redirect := p.paymentService.ProcessReturn(c.Request.Context(), flattenQuery(c))
	c.Redirect(http.StatusFound, redirect)
}

// HandleIPN is the server-to-server confirmation endpoint. The response body
// is the gateway ack contract, always HTTP 200.
func (p *PaymentController) HandleIPN(c *gin.Context) {
	ack := p.paymentService.ProcessIPN(c.Request.Context(), flattenQuery(c))
	c.JSON(http.StatusOK, ack)
}

func (p *PaymentController) GetPaymentStatus(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Order ID is required")
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	payment, err := p.paymentService.GetByOrderID(c.Request.Context(), orderID, userID, c.GetString("Role"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, payment, "Payment fetched successfully")
}

func (p *PaymentController) GetPaymentHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-100)")
		return
	}

	payments, err := p.paymentService.GetHistory(c.Request.Context(), userID, c.Query("status"), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, payments, "Payment history fetched successfully")
}

func (p *PaymentController) GetAllPayments(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-500)")
		return
	}

	payments, err := p.paymentService.GetAll(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, payments, "Payments fetched successfully")
}

func (p *PaymentController) GetPaymentStats(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid days (must be 1-365)")
		return
	}

	stats, err := p.paymentService.GetStats(c.Request.Context(), days)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Payment stats fetched successfully")
}

// flattenQuery keeps the first value of each query param, which is what the
// gateway sends.
func flattenQuery(c *gin.Context) map[string]string {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		utils.RespondError(c, http.StatusBadRequest, "user_id is required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "user_id is invalid")
		return uuid.Nil, false
	}
	return userID, true
}
