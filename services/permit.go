package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"permit-portal/config"
	"permit-portal/db"
	"permit-portal/errors"
	"permit-portal/logger"
	"permit-portal/models"
)

// PermitCodeRegex bounds what a well-formed permit code looks like.
var PermitCodeRegex = regexp.MustCompile(`^PMT-[A-Z0-9-]{3,64}$`)

// ValidPermitCode reports whether code is well-formed.
func ValidPermitCode(code string) bool {
	return PermitCodeRegex.MatchString(code)
}

// PermitStore is the persistence behind permit issuance and lookup.
type PermitStore interface {
	GetByCode(ctx context.Context, code string) (*models.Permit, error)
	// Insert creates the permit unless its code already exists; it reports
	// whether a row was actually created.
	Insert(ctx context.Context, permit *models.Permit) (bool, error)
}

// PermitService owns get-or-create issuance and the read-side lookup.
type PermitService struct {
	store PermitStore
	// now is injectable for expiry tests; nil means time.Now.
	now func() time.Time
	// notify runs once per first issuance (events, email); nil skips.
	notify func(*models.Permit)
}

// Permits is the default service instance backed by Postgres.
var Permits = &PermitService{
	store:  &postgresPermitStore{},
	notify: notifyPermitIssued,
}

// NewPermitService creates a PermitService over the given store with no
// issuance notifications.
func NewPermitService(store PermitStore) *PermitService {
	return &PermitService{store: store}
}

func (s *PermitService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func validityDays() int {
	if d := config.AppConfig.PermitValidityDays; d > 0 {
		return d
	}
	return 180
}

// GetOrCreatePermit returns the permit for code, creating it on first
// call. The operation is idempotent: calling it twice with the same code
// returns the same permit and never mints a duplicate. A nil profile is
// only acceptable when the permit already exists (the reload path).
func (s *PermitService) GetOrCreatePermit(ctx context.Context, code string, profile *models.StudentProfile) (*models.Permit, error) {
	code = strings.TrimSpace(code)
	if !ValidPermitCode(code) {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("malformed permit code: %q", code))
	}

	existing, err := s.store.GetByCode(ctx, code)
	if err == nil {
		return existing, nil
	}
	if errors.KindOf(err) != errors.NotFound {
		return nil, errors.E(errors.Internal, "error reading permit", err)
	}

	if profile == nil {
		// Reload path with an unknown code: nothing to create from.
		return nil, errors.E(errors.NotFound, fmt.Sprintf("permit %s not found", code))
	}

	issuedAt := s.clock().UTC().Truncate(time.Second)
	permit := &models.Permit{
		Code:      code,
		Student:   *profile,
		Status:    models.PermitActive,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.AddDate(0, 0, validityDays()),
	}

	created, err := s.store.Insert(ctx, permit)
	if err != nil {
		return nil, errors.E(errors.Internal, "error creating permit", err)
	}

	// Re-read so concurrent creators converge on the single stored row.
	stored, err := s.store.GetByCode(ctx, code)
	if err != nil {
		return nil, errors.E(errors.Internal, "error reading permit after create", err)
	}

	if created {
		logger.Info("Permit issued: %s for student %s", stored.Code, stored.Student.StudentID)
		if s.notify != nil {
			go s.notify(stored)
		}
	}
	return stored, nil
}

// Lookup is the standalone verification read path: given a permit code it
// reports validity and the permit snapshot, or a reason. It never touches
// payment state and works long after the original session ended. The
// error return is reserved for infrastructure failures; unknown or
// malformed codes are reported in the outcome.
func (s *PermitService) Lookup(ctx context.Context, code string) (*models.VerificationOutcome, error) {
	code = strings.TrimSpace(code)
	if !ValidPermitCode(code) {
		return &models.VerificationOutcome{Valid: false, Reason: models.ReasonMalformed}, nil
	}

	permit, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.KindOf(err) == errors.NotFound {
			return &models.VerificationOutcome{Valid: false, Reason: models.ReasonNotFound}, nil
		}
		return nil, errors.E(errors.Internal, "error reading permit", err)
	}

	now := s.clock()
	if permit.Expired(now) || permit.Status == models.PermitExpired {
		return &models.VerificationOutcome{Valid: false, Reason: models.ReasonExpired}, nil
	}

	snapshot := *permit
	snapshot.Status = permit.EffectiveStatus(now)
	return &models.VerificationOutcome{Valid: true, Permit: &snapshot}, nil
}

// notifyPermitIssued is the production first-issuance hook: a permit
// event on the stream and a best-effort email with the document attached.
func notifyPermitIssued(permit *models.Permit) {
	PublishPermitIssued(permit)

	png, err := VerificationArtifact(permit.Code)
	if err != nil {
		logger.Warn("Skipping issuance email for %s: artifact error: %v", permit.Code, err)
		return
	}
	pdf, filename, err := RenderPermitDocument(permit, png)
	if err != nil {
		logger.Warn("Skipping issuance email for %s: render error: %v", permit.Code, err)
		return
	}
	if err := SendPermitIssuedEmail(permit, pdf, filename); err != nil {
		logger.Warn("Could not send issuance email for %s: %v", permit.Code, err)
	}
}

// postgresPermitStore reads and writes the permits table.
type postgresPermitStore struct{}

func (postgresPermitStore) GetByCode(ctx context.Context, code string) (*models.Permit, error) {
	var p models.Permit
	var reference sql.NullString
	err := db.DB.QueryRowContext(ctx,
		`SELECT code, reference, student_id, name, email, course, level, semester, academic_year, phone,
		        status, issued_at, expires_at
		 FROM permits WHERE code = $1`, code).
		Scan(&p.Code, &reference, &p.Student.StudentID, &p.Student.Name, &p.Student.Email,
			&p.Student.Course, &p.Student.Level, &p.Student.Semester, &p.Student.AcademicYear,
			&p.Student.Phone, &p.Status, &p.IssuedAt, &p.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, errors.E(errors.NotFound, fmt.Sprintf("permit %s not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("error reading permit %s: %w", code, err)
	}
	p.Reference = reference.String
	return &p, nil
}

func (postgresPermitStore) Insert(ctx context.Context, p *models.Permit) (bool, error) {
	// ON CONFLICT DO NOTHING keeps the operation idempotent under
	// concurrent get-or-create calls for the same code.
	result, err := db.DB.ExecContext(ctx,
		`INSERT INTO permits (code, reference, student_id, name, email, course, level, semester,
		                      academic_year, phone, status, issued_at, expires_at)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (code) DO NOTHING`,
		p.Code, p.Reference, p.Student.StudentID, p.Student.Name, p.Student.Email,
		p.Student.Course, p.Student.Level, p.Student.Semester, p.Student.AcademicYear,
		p.Student.Phone, p.Status, p.IssuedAt, p.ExpiresAt)
	if err != nil {
		return false, fmt.Errorf("error inserting permit %s: %w", p.Code, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking permit insert: %w", err)
	}
	return rows > 0, nil
}
