package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"math/rand"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"plantcare/pkg/utils"
)

// VNPay 2.1.0 contract constants.
const (
	vnpVersion   = "2.1.0"
	vnpCommand   = "pay"
	vnpCurrCode  = "VND"
	vnpOrderType = "250000"

	// Gateway-enforced amount range, VND.
	MinPaymentAmount = 5_000
	MaxPaymentAmount = 500_000_000
)

type VNPayConfig struct {
	TmnCode    string // merchant code issued by VNPay
	HashSecret string // shared secret for HMAC-SHA512
	BaseURL    string // e.g. https://sandbox.vnpayment.vn/paymentv2/vpcpay.html
	ReturnURL  string
	Locale     string // "vn" | "en"
}

// VerifiedTransaction is the decoded, signature-checked callback payload.
// The same shape serves both the browser return and the server-to-server IPN.
type VerifiedTransaction struct {
	IsValid           bool
	OrderID           string
	Amount            int64 // VND, already divided by 100
	ResponseCode      string
	TransactionNo     string
	BankCode          string
	PayDate           string
	TransactionStatus string
	IsSuccess         bool
	Message           string
}

type IVNPayService interface {
	CreatePaymentURL(amount int64, orderID, orderInfo, clientIP, bankCode string) (string, string, error)
	VerifyCallback(params map[string]string) VerifiedTransaction
	ValidateAmount(amount int64) bool
	GenerateOrderID(prefix string) string
	ResponseMessage(code string) string
}

type vnpayService struct {
	cfg VNPayConfig
}

func NewVNPayService(cfg VNPayConfig) (IVNPayService, error) {
	if cfg.TmnCode == "" || cfg.HashSecret == "" || cfg.BaseURL == "" {
		return nil, fmt.Errorf("missing VNPay credentials")
	}
	if cfg.Locale == "" {
		cfg.Locale = "vn"
	}
	return &vnpayService{cfg: cfg}, nil
}

func (v *vnpayService) ValidateAmount(amount int64) bool {
	return amount >= MinPaymentAmount && amount <= MaxPaymentAmount
}

// GenerateOrderID builds a merchant transaction reference. The prefix is
// load-bearing downstream: order ids containing "ULTIMATE" are treated as
// Ultimate-plan payments by the callback handler.
func (v *vnpayService) GenerateOrderID(prefix string) string {
	ts := utils.FormatVNPayDate(time.Now())
	return fmt.Sprintf("%s_%s_%03d", prefix, ts, rand.Intn(1000))
}

// encodeValue matches the gateway's reference implementation: standard URL
// escaping with spaces rendered as '+'.
func encodeValue(s string) string {
	return url.QueryEscape(s)
}

// signData joins the non-empty params as key=encodedValue pairs in sorted
// key order. The secure-hash fields must already be removed.
func signData(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, val := range params {
		if val == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+encodeValue(params[k]))
	}
	return strings.Join(pairs, "&")
}

func (v *vnpayService) hash(data string) string {
	mac := hmac.New(sha512.New, []byte(v.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// CreatePaymentURL builds a signed redirect URL. Returns the URL and the
// expire date (gateway format). A bankCode is added only when non-empty:
// an empty vnp_BankCode parameter makes the gateway reject the transaction
// as an unsupported bank.
func (v *vnpayService) CreatePaymentURL(amount int64, orderID, orderInfo, clientIP, bankCode string) (string, string, error) {
	if orderID == "" || orderInfo == "" {
		return "", "", utils.ErrInvalidInput
	}
	if !v.ValidateAmount(amount) {
		return "", "", utils.ErrInvalidAmount
	}

	now := utils.NowVN()
	createDate := utils.FormatVNPayDate(now)
	expireDate := utils.FormatVNPayDate(now.Add(15 * time.Minute))

	params := map[string]string{
		"vnp_Version":    vnpVersion,
		"vnp_Command":    vnpCommand,
		"vnp_TmnCode":    v.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(amount*100, 10),
		"vnp_CreateDate": createDate,
		"vnp_CurrCode":   vnpCurrCode,
		"vnp_IpAddr":     clientIP,
		"vnp_Locale":     v.cfg.Locale,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  vnpOrderType,
		"vnp_ReturnUrl":  v.cfg.ReturnURL,
		"vnp_TxnRef":     orderID,
		"vnp_ExpireDate": expireDate,
	}
	if bankCode != "" {
		params["vnp_BankCode"] = bankCode
	}

	query := signData(params)
	secureHash := v.hash(query)

	paymentURL := v.cfg.BaseURL + "?" + query + "&vnp_SecureHash=" + secureHash
	return paymentURL, expireDate, nil
}

// VerifyCallback recomputes the signature over the sorted parameter set and
// decodes the transaction fields. A bad signature is a normal outcome
// (IsValid=false), not an error.
func (v *vnpayService) VerifyCallback(params map[string]string) VerifiedTransaction {

	received := params["vnp_SecureHash"]

	filtered := make(map[string]string, len(params))
	for k, val := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		filtered[k] = val
	}

	calculated := v.hash(signData(filtered))
	isValid := received != "" && strings.EqualFold(received, calculated)

	amount, _ := strconv.ParseInt(params["vnp_Amount"], 10, 64)
	responseCode := params["vnp_ResponseCode"]

	return VerifiedTransaction{
		IsValid:           isValid,
		OrderID:           params["vnp_TxnRef"],
		Amount:            amount / 100, // gateway encodes amount x100
		ResponseCode:      responseCode,
		TransactionNo:     params["vnp_TransactionNo"],
		BankCode:          params["vnp_BankCode"],
		PayDate:           params["vnp_PayDate"],
		TransactionStatus: params["vnp_TransactionStatus"],
		IsSuccess:         responseCode == "00",
		Message:           v.ResponseMessage(responseCode),
	}
}

// responseMessages is the gateway's fixed response-code table. The wording
// is part of the external contract and must not be edited.
var responseMessages = map[string]string{
	"00": "Giao dịch thành công",
	"07": "Trừ tiền thành công. Giao dịch bị nghi ngờ (liên quan tới lừa đảo, giao dịch bất thường).",
	"09": "Giao dịch không thành công do: Thẻ/Tài khoản của khách hàng chưa đăng ký dịch vụ InternetBanking tại ngân hàng.",
	"10": "Giao dịch không thành công do: Khách hàng xác thực thông tin thẻ/tài khoản không đúng quá 3 lần",
	"11": "Giao dịch không thành công do: Đã hết hạn chờ thanh toán. Xin quý khách vui lòng thực hiện lại giao dịch.",
	"12": "Giao dịch không thành công do: Thẻ/Tài khoản của khách hàng bị khóa.",
	"13": "Giao dịch không thành công do Quý khách nhập sai mật khẩu xác thực giao dịch (OTP). Xin quý khách vui lòng thực hiện lại giao dịch.",
	"24": "Giao dịch không thành công do: Khách hàng hủy giao dịch",
	"51": "Giao dịch không thành công do: Tài khoản của quý khách không đủ số dư để thực hiện giao dịch.",
	"65": "Giao dịch không thành công do: Tài khoản của Quý khách đã vượt quá hạn mức giao dịch trong ngày.",
	"75": "Ngân hàng thanh toán đang bảo trì.",
	"79": "Giao dịch không thành công do: KH nhập sai mật khẩu thanh toán quá số lần quy định. Xin quý khách vui lòng thực hiện lại giao dịch",
	"99": "Các lỗi khác (lỗi còn lại, không có trong danh sách mã lỗi đã liệt kê)",
}

func (v *vnpayService) ResponseMessage(code string) string {
	if msg, ok := responseMessages[code]; ok {
		return msg
	}
	return "Lỗi không xác định"
}
