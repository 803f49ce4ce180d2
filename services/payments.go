package services

import (
	"context"
	"database/sql"
	"fmt"

	"permit-portal/db"
	"permit-portal/models"
	"permit-portal/utils"
)

// RecordPaymentAttempt saves the initiation outcome keyed by the gateway
// reference. Re-initiating for the same student creates a fresh row under
// the new reference; old PENDING rows are left behind as audit trail.
func RecordPaymentAttempt(ctx context.Context, session *models.CheckoutSession, req *models.PaymentRequest) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payment_attempts (reference, student_id, amount, currency, method, request_type, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (reference) DO NOTHING`,
		session.Reference, req.StudentID, req.Amount, req.Currency, req.Method, req.Metadata.RequestType,
		utils.StatusPending)
	if err != nil {
		return fmt.Errorf("error saving payment attempt: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// MarkPaymentAttempt records the verified terminal status for a reference.
func MarkPaymentAttempt(ctx context.Context, reference, status, transactionID string) error {
	_, err := db.DB.ExecContext(ctx,
		`UPDATE payment_attempts
		 SET status = $1, transaction_id = NULLIF($2, ''), updated_at = CURRENT_TIMESTAMP
		 WHERE reference = $3`,
		status, transactionID, reference)
	if err != nil {
		return fmt.Errorf("error updating payment attempt %s: %w", reference, err)
	}
	return nil
}

// AttemptByReference loads the stored attempt row for a gateway reference.
func AttemptByReference(ctx context.Context, reference string) (*models.PaymentAttempt, error) {
	var a models.PaymentAttempt
	var transactionID sql.NullString
	err := db.DB.QueryRowContext(ctx,
		`SELECT id, reference, student_id, amount, currency, method, request_type, status,
		        transaction_id, created_at, updated_at
		 FROM payment_attempts WHERE reference = $1`, reference).
		Scan(&a.ID, &a.Reference, &a.StudentID, &a.Amount, &a.Currency, &a.Method,
			&a.RequestType, &a.Status, &transactionID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error reading payment attempt %s: %w", reference, err)
	}
	a.TransactionID = transactionID.String
	return &a, nil
}

// AttemptProfile restores the frozen student profile for a reference after
// the redirect round-trip, when nothing but URL parameters survived.
func AttemptProfile(ctx context.Context, reference string) (*models.StudentProfile, error) {
	attempt, err := AttemptByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return (postgresStudentStore{}).GetByID(ctx, attempt.StudentID)
}
