package services

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVNPay(t *testing.T) IVNPayService {
	t.Helper()
	svc, err := NewVNPayService(VNPayConfig{
		TmnCode:    "TESTCODE",
		HashSecret: "test-secret",
		BaseURL:    "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://api.example.com/payments/vnpay-return",
		Locale:     "vn",
	})
	require.NoError(t, err)
	return svc
}

func TestNewVNPayService_MissingCredentials(t *testing.T) {
	_, err := NewVNPayService(VNPayConfig{TmnCode: "x"})
	assert.Error(t, err)
}

func TestValidateAmount(t *testing.T) {
	svc := newTestVNPay(t)

	tests := []struct {
		name   string
		amount int64
		want   bool
	}{
		{"below minimum", 4_999, false},
		{"at minimum", 5_000, true},
		{"typical", 99_000, true},
		{"at maximum", 500_000_000, true},
		{"above maximum", 500_000_001, false},
		{"zero", 0, false},
		{"negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.ValidateAmount(tt.amount))
		})
	}
}

func TestGenerateOrderID(t *testing.T) {
	svc := newTestVNPay(t)

	id := svc.GenerateOrderID("PREMIUM")
	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "PREMIUM", parts[0])
	assert.Len(t, parts[1], 14) // yyyyMMddHHmmss
	assert.Len(t, parts[2], 3)
}

func TestCreatePaymentURL(t *testing.T) {
	svc := newTestVNPay(t)

	t.Run("rejects out-of-range amount", func(t *testing.T) {
		_, _, err := svc.CreatePaymentURL(1_000, "ORDER1", "info", "1.2.3.4", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty order id", func(t *testing.T) {
		_, _, err := svc.CreatePaymentURL(100_000, "", "info", "1.2.3.4", "")
		assert.Error(t, err)
	})

	t.Run("omits bank code when empty", func(t *testing.T) {
		paymentURL, _, err := svc.CreatePaymentURL(100_000, "PREMIUM_20240101_001", "Premium plan", "1.2.3.4", "")
		require.NoError(t, err)
		assert.NotContains(t, paymentURL, "vnp_BankCode")
	})

	t.Run("includes bank code when set", func(t *testing.T) {
		paymentURL, _, err := svc.CreatePaymentURL(100_000, "PREMIUM_20240101_002", "Premium plan", "1.2.3.4", "NCB")
		require.NoError(t, err)
		assert.Contains(t, paymentURL, "vnp_BankCode=NCB")
	})

	t.Run("amount is multiplied by 100", func(t *testing.T) {
		paymentURL, _, err := svc.CreatePaymentURL(100_000, "PREMIUM_20240101_003", "Premium plan", "1.2.3.4", "")
		require.NoError(t, err)
		assert.Contains(t, paymentURL, "vnp_Amount=10000000")
	})

	t.Run("signed url round-trips through verify", func(t *testing.T) {
		paymentURL, _, err := svc.CreatePaymentURL(100_000, "PREMIUM_20240101_004", "Premium plan", "1.2.3.4", "NCB")
		require.NoError(t, err)

		u, err := url.Parse(paymentURL)
		require.NoError(t, err)

		params := make(map[string]string)
		for k, vals := range u.Query() {
			params[k] = vals[0]
		}

		tx := svc.VerifyCallback(params)
		assert.True(t, tx.IsValid)
		assert.Equal(t, "PREMIUM_20240101_004", tx.OrderID)
		assert.Equal(t, int64(100_000), tx.Amount)
	})
}

func TestVerifyCallback(t *testing.T) {
	svc := newTestVNPay(t)

	// Build a signed parameter set via CreatePaymentURL, then layer the
	// gateway's response fields on top and re-sign by hand.
	signedParams := func(mutate func(map[string]string)) map[string]string {
		paymentURL, _, err := svc.CreatePaymentURL(50_000, "ULTIMATE_20240101_001", "Ultimate lifetime", "1.2.3.4", "")
		require.NoError(t, err)
		u, err := url.Parse(paymentURL)
		require.NoError(t, err)

		params := make(map[string]string)
		for k, vals := range u.Query() {
			params[k] = vals[0]
		}
		if mutate != nil {
			mutate(params)
		}
		return params
	}

	t.Run("valid signature accepted", func(t *testing.T) {
		tx := svc.VerifyCallback(signedParams(nil))
		assert.True(t, tx.IsValid)
	})

	t.Run("tampered amount rejected", func(t *testing.T) {
		tx := svc.VerifyCallback(signedParams(func(p map[string]string) {
			p["vnp_Amount"] = "999900"
		}))
		assert.False(t, tx.IsValid)
	})

	t.Run("missing hash rejected", func(t *testing.T) {
		tx := svc.VerifyCallback(signedParams(func(p map[string]string) {
			delete(p, "vnp_SecureHash")
		}))
		assert.False(t, tx.IsValid)
	})

	t.Run("hash comparison is case-insensitive", func(t *testing.T) {
		tx := svc.VerifyCallback(signedParams(func(p map[string]string) {
			p["vnp_SecureHash"] = strings.ToUpper(p["vnp_SecureHash"])
		}))
		assert.True(t, tx.IsValid)
	})

	t.Run("secure hash type excluded from signing", func(t *testing.T) {
		tx := svc.VerifyCallback(signedParams(func(p map[string]string) {
			p["vnp_SecureHashType"] = "HMACSHA512"
		}))
		assert.True(t, tx.IsValid)
	})

	t.Run("response code 00 is success", func(t *testing.T) {
		params := map[string]string{
			"vnp_TxnRef":       "PREMIUM_20240101_009",
			"vnp_Amount":       "10000000",
			"vnp_ResponseCode": "00",
		}
		tx := svc.VerifyCallback(params)
		assert.True(t, tx.IsSuccess)
		assert.False(t, tx.IsValid) // unsigned
		assert.Equal(t, int64(100_000), tx.Amount)
	})
}

func TestResponseMessage(t *testing.T) {
	svc := newTestVNPay(t)

	assert.Equal(t, "Giao dịch thành công", svc.ResponseMessage("00"))
	assert.Equal(t, "Giao dịch không thành công do: Khách hàng hủy giao dịch", svc.ResponseMessage("24"))
	assert.Equal(t, "Lỗi không xác định", svc.ResponseMessage("42"))
}
