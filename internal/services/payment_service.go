package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"plantcare/internal/models/db_models"
	"plantcare/internal/models/request_models"
	"plantcare/internal/models/response_models"
	"plantcare/internal/repositories"
	"plantcare/pkg/memcache"
	"plantcare/pkg/utils"
)

// PaymentConfig carries the pieces of the payment flow that are not part of
// the gateway contract itself.
type PaymentConfig struct {
	FrontendResultURL string // payment result page the return handler redirects to
	AdminRole         string // role string granted admin visibility
}

type PaymentServiceInterface interface {
	CreatePayment(ctx context.Context, userID uuid.UUID, req request_models.CreatePaymentRequest, clientIP string) (*response_models.CreatePaymentResponse, error)
	ProcessReturn(ctx context.Context, params map[string]string) string
	ProcessIPN(ctx context.Context, params map[string]string) response_models.IPNAck

	GetByOrderID(ctx context.Context, orderID string, requesterID uuid.UUID, requesterRole string) (*response_models.PaymentDetail, error)
	GetHistory(ctx context.Context, userID uuid.UUID, status string, limit int) ([]response_models.PaymentDetail, error)
	GetAll(ctx context.Context, status string, limit int) ([]response_models.PaymentDetail, error)
	GetStats(ctx context.Context, days int) (*response_models.PaymentStats, error)
}

type paymentService struct {
	vnpay       IVNPayService
	paymentRepo repositories.IPaymentRepository
	planRepo    repositories.IPlanRepository
	userRepo    repositories.IUserRepository
	subs        SubscriptionServiceInterface
	processed   memcache.ProcessedOrderStore
	mailer      IMailService // nil disables receipts
	cfg         PaymentConfig
}

func NewPaymentService(
	vnpay IVNPayService,
	paymentRepo repositories.IPaymentRepository,
	planRepo repositories.IPlanRepository,
	userRepo repositories.IUserRepository,
	subs SubscriptionServiceInterface,
	processed memcache.ProcessedOrderStore,
	mailer IMailService,
	cfg PaymentConfig,
) PaymentServiceInterface {
	if cfg.AdminRole == "" {
		cfg.AdminRole = "Admin"
	}
	return &paymentService{
		vnpay:       vnpay,
		paymentRepo: paymentRepo,
		planRepo:    planRepo,
		userRepo:    userRepo,
		subs:        subs,
		processed:   processed,
		mailer:      mailer,
		cfg:         cfg,
	}
}

func (p *paymentService) CreatePayment(ctx context.Context, userID uuid.UUID, req request_models.CreatePaymentRequest, clientIP string) (*response_models.CreatePaymentResponse, error) {

	if userID == uuid.Nil || req.OrderInfo == "" {
		return nil, utils.ErrInvalidInput
	}
	if !p.vnpay.ValidateAmount(req.Amount) {
		return nil, utils.ErrInvalidAmount
	}

	// The prefix keeps the callback handler's plan inference working.
	prefix := "PREMIUM"
	if strings.EqualFold(req.PlanName, PlanNameUltimate) {
		prefix = "ULTIMATE"
	}
	orderID := p.vnpay.GenerateOrderID(prefix)

	orderInfo := fmt.Sprintf("%s - User: %s", req.OrderInfo, userID)

	payment := &db_models.Payment{
		UserID:    userID,
		OrderID:   orderID,
		Amount:    req.Amount,
		OrderInfo: orderInfo,
		Status:    db_models.PaymentStatusPending,
	}
	if req.BankCode != "" {
		payment.BankCode = &req.BankCode
	}
	if clientIP != "" {
		payment.IPAddress = &clientIP
	}

	if err := p.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	paymentURL, expireDate, err := p.vnpay.CreatePaymentURL(req.Amount, orderID, orderInfo, clientIP, req.BankCode)
	if err != nil {
		return nil, err
	}

	log.Printf("payment created: user=%s order=%s amount=%d VND", userID, orderID, req.Amount)

	return &response_models.CreatePaymentResponse{
		PaymentURL: paymentURL,
		OrderID:    orderID,
		PaymentID:  payment.ID,
		Amount:     req.Amount,
		ExpireDate: expireDate,
	}, nil
}

// ProcessReturn handles the browser redirect back from the gateway. It only
// settles the payment row; subscription activation belongs to the IPN,
// which is the authoritative callback. Always returns a frontend redirect
// URL; the user must land somewhere even when verification fails.
func (p *paymentService) ProcessReturn(ctx context.Context, params map[string]string) string {

	txn := p.vnpay.VerifyCallback(params)

	if !txn.IsValid {
		log.Printf("invalid VNPay signature in return URL, order=%s", txn.OrderID)
		return p.resultRedirect(map[string]string{"code": "97", "message": "Invalid payment signature"})
	}

	payment, err := p.paymentRepo.FindByOrderID(ctx, txn.OrderID)
	if err != nil {
		log.Printf("return handler store error for order %s: %v", txn.OrderID, err)
		return p.resultRedirect(map[string]string{"code": "99", "message": "Server error"})
	}
	if payment == nil {
		return p.resultRedirect(map[string]string{"code": "91", "message": "Payment not found", "orderId": txn.OrderID})
	}

	if !payment.IsTerminal() {
		if _, err := p.settlePayment(ctx, payment, txn); err != nil {
			log.Printf("return handler failed to settle order %s: %v", txn.OrderID, err)
		}
	}

	status := string(db_models.PaymentStatusFailed)
	if txn.IsSuccess {
		status = string(db_models.PaymentStatusSuccess)
	}

	return p.resultRedirect(map[string]string{
		"code":    txn.ResponseCode,
		"orderId": txn.OrderID,
		"amount":  strconv.FormatInt(txn.Amount, 10),
		"status":  status,
		"message": txn.Message,
	})
}

func (p *paymentService) resultRedirect(params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return p.cfg.FrontendResultURL + "?" + q.Encode()
}

// ProcessIPN handles the server-to-server notification. The ack vocabulary
// is gateway-specified: 00 confirmed (including retries of an already
// settled order), 01 order not found, 04 amount mismatch, 97 bad checksum,
// 99 unknown error.
// Subscription bookkeeping failures never fail the ack: the money has
// moved, and an unacked IPN is retried forever.
func (p *paymentService) ProcessIPN(ctx context.Context, params map[string]string) response_models.IPNAck {

	txn := p.vnpay.VerifyCallback(params)

	if !txn.IsValid {
		return response_models.IPNAck{RspCode: "97", Message: "Fail checksum"}
	}

	if p.processed != nil && p.processed.Seen(txn.OrderID) {
		return response_models.IPNAck{RspCode: "00", Message: "Order already confirmed"}
	}

	payment, err := p.paymentRepo.FindByOrderID(ctx, txn.OrderID)
	if err != nil {
		log.Printf("IPN store error for order %s: %v", txn.OrderID, err)
		return response_models.IPNAck{RspCode: "99", Message: "Unknown error"}
	}
	if payment == nil {
		return response_models.IPNAck{RspCode: "01", Message: "Order not found"}
	}

	if payment.Amount != txn.Amount {
		return response_models.IPNAck{RspCode: "04", Message: "Invalid amount"}
	}

	if payment.IsTerminal() {
		p.markProcessed(txn.OrderID)
		return response_models.IPNAck{RspCode: "00", Message: "Order already confirmed"}
	}

	payment, err = p.settlePayment(ctx, payment, txn)
	if err != nil {
		log.Printf("IPN failed to settle order %s: %v", txn.OrderID, err)
		return response_models.IPNAck{RspCode: "99", Message: "Unknown error"}
	}

	if txn.IsSuccess {
		p.activateSubscription(ctx, payment)
	}

	p.markProcessed(txn.OrderID)
	return response_models.IPNAck{RspCode: "00", Message: "Confirm success"}
}

func (p *paymentService) markProcessed(orderID string) {
	if p.processed != nil {
		p.processed.Mark(orderID, 24*time.Hour)
	}
}

// settlePayment writes the terminal status plus the gateway echo fields.
func (p *paymentService) settlePayment(ctx context.Context, payment *db_models.Payment, txn VerifiedTransaction) (*db_models.Payment, error) {

	status := db_models.PaymentStatusFailed
	if txn.IsSuccess {
		status = db_models.PaymentStatusSuccess
	}

	fields := map[string]interface{}{
		"status":         status,
		"transaction_no": txn.TransactionNo,
		"response_code":  txn.ResponseCode,
		"pay_date":       txn.PayDate,
	}
	if txn.BankCode != "" {
		fields["bank_code"] = txn.BankCode
	}
	if payload, err := json.Marshal(txn); err == nil {
		fields["gateway_payload"] = datatypes.JSON(payload)
	}

	updated, err := p.paymentRepo.UpdateByOrderID(ctx, payment.OrderID, fields)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, utils.ErrOrderNotFound
	}
	return updated, nil
}

// activateSubscription runs the upgrade engine for a settled payment.
// Failures are logged and swallowed: the gateway ack must not depend on
// downstream bookkeeping.
func (p *paymentService) activateSubscription(ctx context.Context, payment *db_models.Payment) {

	planName, subType := inferPlanAndType(payment.OrderID, payment.OrderInfo)

	plan, err := p.planRepo.GetPlanByName(ctx, planName)
	if err != nil || plan == nil {
		log.Printf("IPN: plan %q not found for order %s: %v", planName, payment.OrderID, err)
		return
	}

	paymentID := payment.ID
	if _, err := p.subs.ApplyPayment(ctx, payment.UserID, plan, &paymentID, subType); err != nil {
		log.Printf("IPN: subscription update failed for order %s: %v", payment.OrderID, err)
		return
	}

	// Legacy role snapshot; active Subscription rows are the source of truth.
	if err := p.userRepo.UpdateRole(ctx, payment.UserID, plan.Name); err != nil {
		log.Printf("IPN: role refresh failed for user %s: %v", payment.UserID, err)
	}

	if p.mailer != nil {
		if user, err := p.userRepo.GetByID(ctx, payment.UserID); err == nil && user != nil && user.Email != "" {
			if err := p.mailer.SendPaymentReceipt(user.Email, user.Name, plan.Name, payment.OrderID, payment.Amount); err != nil {
				log.Printf("IPN: receipt mail to %s failed: %v", user.Email, err)
			}
		}
	}

	log.Printf("subscription activated: user=%s plan=%s type=%s order=%s",
		payment.UserID, plan.Name, subType, payment.OrderID)
}

// inferPlanAndType reproduces the legacy substring heuristic over order
// metadata. It is a compatibility shim, not a rule set to extend: a plan
// named "Ultimate Premium Bundle" would misclassify, which product owns.
func inferPlanAndType(orderID, orderInfo string) (string, db_models.SubscriptionType) {

	planName := PlanNamePremium
	if strings.Contains(strings.ToUpper(orderID), "ULTIMATE") ||
		strings.Contains(strings.ToUpper(orderInfo), "ULTIMATE") {
		planName = PlanNameUltimate
	}

	info := strings.ToLower(orderInfo)
	subType := db_models.SubTypeMonthly
	switch {
	case strings.Contains(info, "lifetime"):
		subType = db_models.SubTypeLifetime
	case strings.Contains(info, "annual") || strings.Contains(info, "yearly"):
		subType = db_models.SubTypeYearly
	}

	return planName, subType
}

func (p *paymentService) GetByOrderID(ctx context.Context, orderID string, requesterID uuid.UUID, requesterRole string) (*response_models.PaymentDetail, error) {

	payment, err := p.paymentRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if payment == nil {
		return nil, utils.ErrOrderNotFound
	}

	if payment.UserID != requesterID && requesterRole != p.cfg.AdminRole {
		return nil, utils.ErrForbidden
	}

	return paymentDetail(payment), nil
}

func (p *paymentService) GetHistory(ctx context.Context, userID uuid.UUID, status string, limit int) ([]response_models.PaymentDetail, error) {

	payments, err := p.paymentRepo.FindByUserID(ctx, userID, paymentStatusFilter(status), normalizeLimit(limit, 20))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return paymentDetails(payments), nil
}

func (p *paymentService) GetAll(ctx context.Context, status string, limit int) ([]response_models.PaymentDetail, error) {

	payments, err := p.paymentRepo.FindAll(ctx, paymentStatusFilter(status), normalizeLimit(limit, 100))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return paymentDetails(payments), nil
}

func (p *paymentService) GetStats(ctx context.Context, days int) (*response_models.PaymentStats, error) {

	if days <= 0 {
		days = 30
	}
	row, err := p.paymentRepo.Stats(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.PaymentStats{
		Days:         days,
		TotalCount:   row.TotalCount,
		SuccessCount: row.SuccessCount,
		FailedCount:  row.FailedCount,
		PendingCount: row.PendingCount,
		TotalRevenue: row.TotalRevenue,
	}, nil
}

func paymentStatusFilter(status string) *db_models.PaymentStatus {
	if status == "" {
		return nil
	}
	s := db_models.PaymentStatus(strings.ToUpper(status))
	return &s
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 || limit > 500 {
		return fallback
	}
	return limit
}

func paymentDetail(p *db_models.Payment) *response_models.PaymentDetail {
	return &response_models.PaymentDetail{
		PaymentID:     p.ID,
		UserID:        p.UserID,
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		OrderInfo:     p.OrderInfo,
		BankCode:      p.BankCode,
		TransactionNo: p.TransactionNo,
		ResponseCode:  p.ResponseCode,
		PayDate:       p.PayDate,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func paymentDetails(payments []db_models.Payment) []response_models.PaymentDetail {
	out := make([]response_models.PaymentDetail, 0, len(payments))
	for i := range payments {
		out = append(out, *paymentDetail(&payments[i]))
	}
	return out
}
