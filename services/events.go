package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"permit-portal/models"
)

// Event publishing is best-effort throughout: a broker outage never fails
// the user-facing workflow, it only costs us the audit stream (failed
// publishes land in the DLQ table).

// PublishPaymentInitiated announces a new checkout.
func PublishPaymentInitiated(session *models.CheckoutSession, req *models.PaymentRequest) {
	go func() {
		evt := map[string]interface{}{
			"event_id":     uuid.NewString(),
			"event":        "permit.payment.initiated",
			"reference":    session.Reference,
			"student_id":   req.StudentID,
			"amount":       req.Amount,
			"currency":     req.Currency,
			"method":       req.Method,
			"request_type": req.Metadata.RequestType,
			"status":       "PENDING",
			"ts":           time.Now().UTC().Format(time.RFC3339),
		}
		Publish(fmt.Sprintf("student-%s", req.StudentID), evt)
	}()
}

// PublishPaymentVerified announces a terminal verification outcome.
func PublishPaymentVerified(reference string, result *models.VerificationResult) {
	go func() {
		evt := map[string]interface{}{
			"event_id":       uuid.NewString(),
			"event":          "permit.payment.verified",
			"reference":      reference,
			"status":         string(result.Status),
			"transaction_id": result.TransactionID,
			"ts":             time.Now().UTC().Format(time.RFC3339),
		}
		Publish(fmt.Sprintf("reference-%s", reference), evt)
	}()
}

// PublishPermitIssued announces a first-time permit issuance.
func PublishPermitIssued(permit *models.Permit) {
	evt := map[string]interface{}{
		"event_id":   uuid.NewString(),
		"event":      "permit.issued",
		"code":       permit.Code,
		"student_id": permit.Student.StudentID,
		"issued_at":  permit.IssuedAt.UTC().Format(time.RFC3339),
		"expires_at": permit.ExpiresAt.UTC().Format(time.RFC3339),
		"ts":         time.Now().UTC().Format(time.RFC3339),
	}
	Publish(fmt.Sprintf("permit-%s", permit.Code), evt)
}
