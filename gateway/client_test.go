package gateway

import (
	"fmt"
	"net"
	"net/url"
	"testing"

	"permit-portal/errors"
	"permit-portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCheckoutResponse(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		session, err := ParseCheckoutResponse(map[string]interface{}{
			"id":        "plink_abc123",
			"short_url": "https://rzp.io/l/abc123",
			"status":    "created",
		})
		require.NoError(t, err)
		assert.Equal(t, "plink_abc123", session.Reference)
		assert.Equal(t, "https://rzp.io/l/abc123", session.CheckoutURL)
	})

	t.Run("MissingCheckoutURL", func(t *testing.T) {
		_, err := ParseCheckoutResponse(map[string]interface{}{"id": "plink_abc123"})
		require.Error(t, err)
		assert.Equal(t, errors.Server, errors.KindOf(err))
		assert.True(t, errors.IsRetryable(err))
	})

	t.Run("MissingReference", func(t *testing.T) {
		_, err := ParseCheckoutResponse(map[string]interface{}{"short_url": "https://rzp.io/l/x"})
		require.Error(t, err)
		assert.Equal(t, errors.Server, errors.KindOf(err))
	})
}

func TestParseVerifyResponse(t *testing.T) {
	tests := []struct {
		gatewayStatus string
		want          models.PaymentStatus
	}{
		{"paid", models.PaymentSuccess},
		{"created", models.PaymentPending},
		{"partially_paid", models.PaymentPending},
		{"cancelled", models.PaymentFailed},
		{"expired", models.PaymentFailed},
	}

	for _, tt := range tests {
		t.Run(tt.gatewayStatus, func(t *testing.T) {
			result, err := ParseVerifyResponse("plink_abc123", map[string]interface{}{
				"status": tt.gatewayStatus,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
			assert.Equal(t, "plink_abc123", result.Reference)
		})
	}

	t.Run("PaidCarriesTransactionAndPermitCode", func(t *testing.T) {
		result, err := ParseVerifyResponse("plink_abc123", map[string]interface{}{
			"status": "paid",
			"payments": []interface{}{
				map[string]interface{}{"payment_id": "pay_xyz789"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "pay_xyz789", result.TransactionID)
		assert.Equal(t, "PMT-ABC123", result.PermitCode)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		_, err := ParseVerifyResponse("plink_abc123", map[string]interface{}{"status": "weird"})
		require.Error(t, err)
		assert.Equal(t, errors.Server, errors.KindOf(err))
	})
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errors.Kind
	}{
		{"NetTimeout", timeoutErr{}, errors.Timeout},
		{"URLError", &url.Error{Op: "Post", URL: "https://api.gateway", Err: fmt.Errorf("connection refused")}, errors.Network},
		{"Authentication", fmt.Errorf("BAD_REQUEST_ERROR: authentication failed"), errors.Authorization},
		{"APIKey", fmt.Errorf("the api key provided is invalid"), errors.Authorization},
		{"DeadlineText", fmt.Errorf("context deadline exceeded"), errors.Timeout},
		{"Fallback", fmt.Errorf("internal gateway failure"), errors.Server},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			assert.Equal(t, tt.kind, errors.KindOf(got))
		})
	}
}
