package models

import "time"

// PaymentStatus classifies a verify-by-reference response.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// PaymentRequest is the bundle handed to the gateway's create-checkout
// operation. It is ephemeral: nothing of it survives the initiation call
// except the payment_attempts row keyed by reference.
type PaymentRequest struct {
	StudentID   string          `json:"student_id"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	Method      string          `json:"method"`
	CallbackURL string          `json:"callback_url"`
	Profile     *StudentProfile `json:"profile"`
	Metadata    PaymentMetadata `json:"metadata"`
}

// PaymentMetadata is free-form context attached to the checkout.
type PaymentMetadata struct {
	RequestType string    `json:"request_type"`
	InitiatedAt time.Time `json:"initiated_at"`
}

// CheckoutSession is what a successful create-checkout call yields: the
// reference that will come back on the redirect and the URL to send the
// browser to.
type CheckoutSession struct {
	Reference   string `json:"reference"`
	CheckoutURL string `json:"checkout_url"`
}

// VerificationResult is the classified outcome of one verify-by-reference
// call. Results are not stored; every call is idempotent and safe to repeat.
type VerificationResult struct {
	Reference     string        `json:"reference"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id,omitempty"`
	PermitCode    string        `json:"permit_code,omitempty"`
	Message       string        `json:"message,omitempty"`
}

// PaymentAttempt is the persisted record of one initiation, keyed by the
// gateway reference.
type PaymentAttempt struct {
	ID            int       `json:"id"`
	Reference     string    `json:"reference"`
	StudentID     string    `json:"student_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Method        string    `json:"method"`
	RequestType   string    `json:"request_type"`
	Status        string    `json:"status"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
