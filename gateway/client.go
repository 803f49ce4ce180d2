// Package gateway wraps the payment gateway's checkout and
// verify-by-reference operations behind typed results and errors. The
// gateway itself is opaque to the rest of the service: callers see only
// CheckoutSession, VerificationResult and the error taxonomy.
package gateway

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"permit-portal/errors"
	"permit-portal/logger"
	"permit-portal/models"

	"github.com/razorpay/razorpay-go"
)

// Client talks to the hosted checkout gateway.
type Client struct {
	rz *razorpay.Client
}

// New creates a gateway client from API credentials.
func New(keyID, keySecret string) (*Client, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.E(errors.Internal, "payment gateway credentials not configured")
	}
	return &Client{rz: razorpay.NewClient(keyID, keySecret)}, nil
}

// CreateCheckout submits the payment request and returns the checkout
// handle: the reference that comes back on the redirect plus the URL to
// send the browser to. Failures are typed and retryable without
// resubmitting the form.
func (c *Client) CreateCheckout(ctx context.Context, req *models.PaymentRequest) (*models.CheckoutSession, error) {
	data := map[string]interface{}{
		"amount":          int(req.Amount * 100), // smallest currency unit
		"currency":        req.Currency,
		"description":     "Exam permit fee",
		"callback_url":    req.CallbackURL,
		"callback_method": "get",
		"customer": map[string]interface{}{
			"name":    req.Profile.Name,
			"email":   req.Profile.Email,
			"contact": req.Profile.Phone,
		},
		"notes": map[string]interface{}{
			"student_id":   req.StudentID,
			"request_type": req.Metadata.RequestType,
			"initiated_at": req.Metadata.InitiatedAt.UTC().Format(time.RFC3339),
			"method":       req.Method,
		},
	}

	body, err := c.rz.PaymentLink.Create(data, nil)
	if err != nil {
		logger.Error("Gateway create-checkout failed: %v", err)
		return nil, ClassifyError(err)
	}

	return ParseCheckoutResponse(body)
}

// VerifyByReference fetches the current payment status for a redirect
// reference. The call is read-only and safe to repeat; each invocation
// yields a fresh classification.
func (c *Client) VerifyByReference(ctx context.Context, reference string) (*models.VerificationResult, error) {
	body, err := c.rz.PaymentLink.Fetch(reference, nil, nil)
	if err != nil {
		logger.Error("Gateway verify failed for reference %s: %v", reference, err)
		return nil, ClassifyError(err)
	}

	return ParseVerifyResponse(reference, body)
}

// ParseCheckoutResponse extracts the checkout handle from a raw gateway
// response. A response without a checkout URL is a gateway fault, not a
// caller mistake.
func ParseCheckoutResponse(body map[string]interface{}) (*models.CheckoutSession, error) {
	id, _ := body["id"].(string)
	shortURL, _ := body["short_url"].(string)

	if id == "" {
		return nil, errors.E(errors.Server, "gateway response missing checkout reference")
	}
	if shortURL == "" {
		return nil, errors.E(errors.Server, "gateway response missing checkout URL")
	}

	return &models.CheckoutSession{
		Reference:   id,
		CheckoutURL: shortURL,
	}, nil
}

// ParseVerifyResponse classifies a raw payment-link fetch into the
// three-way verification status.
func ParseVerifyResponse(reference string, body map[string]interface{}) (*models.VerificationResult, error) {
	status, _ := body["status"].(string)

	result := &models.VerificationResult{Reference: reference}

	switch status {
	case "paid":
		result.Status = models.PaymentSuccess
		result.TransactionID = extractTransactionID(body)
		result.PermitCode = models.DerivePermitCode(reference)
	case "created", "partially_paid":
		result.Status = models.PaymentPending
	case "cancelled", "expired":
		result.Status = models.PaymentFailed
		result.Message = fmt.Sprintf("payment %s at the gateway", status)
	default:
		return nil, errors.E(errors.Server, fmt.Sprintf("unexpected gateway status: %q", status))
	}

	return result, nil
}

// extractTransactionID pulls the captured payment id out of the link's
// payments list, if the gateway included it.
func extractTransactionID(body map[string]interface{}) string {
	payments, ok := body["payments"].([]interface{})
	if !ok || len(payments) == 0 {
		return ""
	}
	entry, ok := payments[0].(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := entry["payment_id"].(string)
	return id
}

// ClassifyError maps a raw transport or gateway error onto the workflow
// taxonomy. Authorization failures are the only non-retryable class here;
// everything else can be retried by the caller.
func ClassifyError(err error) error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return errors.E(errors.Timeout, "gateway call timed out", err)
	}

	var uerr *url.Error
	if errors.As(err, &uerr) {
		return errors.E(errors.Network, "could not reach the payment gateway", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "authentication") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "api key"):
		return errors.E(errors.Authorization, "gateway rejected the configured credentials", err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return errors.E(errors.Timeout, "gateway call timed out", err)
	default:
		return errors.E(errors.Server, "payment gateway returned an error", err)
	}
}
