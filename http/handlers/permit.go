package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"permit-portal/config"
	"permit-portal/errors"
	"permit-portal/logger"
	"permit-portal/models"
	"permit-portal/services"
	"permit-portal/utils"
	"permit-portal/verification"
)

// PaymentGateway is the slice of the gateway the handlers need. Wired in
// main; swapped for fakes in tests.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req *models.PaymentRequest) (*models.CheckoutSession, error)
	VerifyByReference(ctx context.Context, reference string) (*models.VerificationResult, error)
}

// Gateway is the configured payment gateway client.
var Gateway PaymentGateway

type initiateRequest struct {
	models.StudentProfile
	Method string `json:"method"`
}

// InitiatePermitPayment freezes a validated student profile, creates a
// gateway checkout for the fixed permit fee and returns the checkout URL
// for the browser to navigate to. All failures are typed and leave the
// frozen profile intact, so retrying never means re-entering the form.
func InitiatePermitPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendError(w, http.StatusMethodNotAllowed, utils.ErrorDetail{
			Code: "VALIDATION", Message: "method not allowed",
		})
		return
	}

	var req initiateRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		utils.SendTypedError(w, errors.E(errors.Invalid, "invalid request body"))
		return
	}

	if err := utils.ValidateMethod(req.Method); err != nil {
		utils.SendTypedError(w, err)
		return
	}

	profile := req.StudentProfile
	if err := services.Students.Freeze(r.Context(), &profile); err != nil {
		utils.SendTypedError(w, err)
		return
	}

	if Gateway == nil {
		utils.SendTypedError(w, errors.E(errors.Internal, "payment gateway not configured"))
		return
	}

	payment := &models.PaymentRequest{
		StudentID:   profile.StudentID,
		Amount:      config.AppConfig.PermitFeeAmount,
		Currency:    config.AppConfig.PermitFeeCurrency,
		Method:      req.Method,
		CallbackURL: fmt.Sprintf("%s/permit/verify", config.AppConfig.PublicBaseURL),
		Profile:     &profile,
		Metadata: models.PaymentMetadata{
			RequestType: utils.RequestTypeExamPermit,
			InitiatedAt: time.Now().UTC(),
		},
	}

	session, err := Gateway.CreateCheckout(r.Context(), payment)
	if err != nil {
		utils.SendTypedError(w, err)
		return
	}

	if err := services.RecordPaymentAttempt(r.Context(), session, payment); err != nil {
		logger.Error("Error recording payment attempt %s: %v", session.Reference, err)
		utils.SendTypedError(w, errors.E(errors.Internal, "could not record payment attempt", err))
		return
	}

	services.PublishPaymentInitiated(session, payment)

	utils.SendSuccess(w, http.StatusOK, "Checkout created", map[string]interface{}{
		"reference":    session.Reference,
		"checkout_url": session.CheckoutURL,
		"amount":       payment.Amount,
		"currency":     payment.Currency,
	})
}

func engineConfig() verification.Config {
	cfg := verification.DefaultConfig()
	if s := config.AppConfig.VerifyPollIntervalSeconds; s > 0 {
		cfg.Interval = time.Duration(s) * time.Second
	}
	if n := config.AppConfig.VerifyMaxAttempts; n > 0 {
		cfg.MaxAttempts = n
	}
	return cfg
}

// VerifyPermitPayment is the gateway's redirect target and the reload
// entry point. It consumes the resume token from the query string, drives
// the verification engine to a terminal state and responds with the
// issued permit or a typed failure. A permit code in the query with no
// reference skips payment verification entirely.
func VerifyPermitPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendError(w, http.StatusMethodNotAllowed, utils.ErrorDetail{
			Code: "VALIDATION", Message: "method not allowed",
		})
		return
	}

	token := models.ParseResumeToken(r.URL.Query())

	// Restore the frozen profile from the attempt record; in-memory state
	// did not survive the redirect round-trip.
	var profile *models.StudentProfile
	if token.Reference != "" {
		p, err := services.AttemptProfile(r.Context(), token.Reference)
		if err != nil {
			logger.Warn("Could not restore profile for reference %s: %v", token.Reference, err)
		} else {
			profile = p
		}
	}

	engine := verification.NewEngine(Gateway, services.Permits, engineConfig())
	permit, err := engine.Run(r.Context(), token, profile)
	snap := engine.Snapshot()

	if err != nil {
		if token.Reference != "" && errors.KindOf(err) == errors.VerificationFailed {
			if merr := services.MarkPaymentAttempt(r.Context(), token.Reference, utils.StatusFailed, ""); merr != nil {
				logger.Error("Error marking attempt %s failed: %v", token.Reference, merr)
			}
		}
		utils.SendTypedError(w, err)
		return
	}

	if token.Reference != "" {
		var transactionID string
		if res := engine.Result(); res != nil {
			transactionID = res.TransactionID
		}
		if merr := services.MarkPaymentAttempt(r.Context(), token.Reference, utils.StatusPaid, transactionID); merr != nil {
			logger.Error("Error marking attempt %s paid: %v", token.Reference, merr)
		}
		services.PublishPaymentVerified(token.Reference, &models.VerificationResult{
			Reference:     token.Reference,
			Status:        models.PaymentSuccess,
			TransactionID: transactionID,
			PermitCode:    permit.Code,
		})
	}

	utils.SendSuccess(w, http.StatusOK, "Payment verified", map[string]interface{}{
		"permit":           permit,
		"verification_url": services.VerificationURL(permit.Code),
		"document_url":     fmt.Sprintf("%s/api/permits/document?code=%s", config.AppConfig.PublicBaseURL, permit.Code),
		// The page puts this code in its URL so reloads resume without
		// re-running payment verification.
		"resume_code":     permit.Code,
		"attempts":        snap.Attempts,
		"elapsed_seconds": int(snap.Elapsed.Seconds()),
	})
}

// PermitStatus is the standalone verification lookup: pure read-side,
// reachable long after the original session ended (e.g. from a scanned
// artifact). Unknown or expired codes are valid=false outcomes, never
// errors.
func PermitStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendError(w, http.StatusMethodNotAllowed, utils.ErrorDetail{
			Code: "VALIDATION", Message: "method not allowed",
		})
		return
	}

	outcome, err := services.Permits.Lookup(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		utils.SendTypedError(w, err)
		return
	}

	utils.SendSuccess(w, http.StatusOK, "", outcome)
}

// PermitDocument streams the downloadable permit PDF with the embedded
// verification artifact. Render failures do not affect the stored permit;
// the client may simply retry the download.
func PermitDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendError(w, http.StatusMethodNotAllowed, utils.ErrorDetail{
			Code: "VALIDATION", Message: "method not allowed",
		})
		return
	}

	code := r.URL.Query().Get("code")
	permit, err := services.Permits.GetOrCreatePermit(r.Context(), code, nil)
	if err != nil {
		utils.SendTypedError(w, err)
		return
	}

	artifact, err := services.VerificationArtifact(permit.Code)
	if err != nil {
		utils.SendTypedError(w, err)
		return
	}

	document, filename, err := services.RenderPermitDocument(permit, artifact)
	if err != nil {
		utils.SendTypedError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(document)
}
