package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"permit-portal/db"
	"permit-portal/errors"
	"permit-portal/models"
	"permit-portal/utils"
)

// StudentStore is the persistence behind the student record resolver.
type StudentStore interface {
	GetByID(ctx context.Context, studentID string) (*models.StudentProfile, error)
	Upsert(ctx context.Context, profile *models.StudentProfile) error
}

// StudentService resolves student identifiers to stored profiles and
// freezes validated form submissions.
type StudentService struct {
	store StudentStore
}

// Students is the default service instance backed by Postgres.
var Students = NewStudentService(&postgresStudentStore{})

// NewStudentService creates a StudentService over the given store.
func NewStudentService(store StudentStore) *StudentService {
	return &StudentService{store: store}
}

// Resolve looks up a student by identifier. "Not found" is a normal
// outcome that sends the caller to manual entry with a visible notice,
// not an error.
func (s *StudentService) Resolve(ctx context.Context, studentID string) (*models.ResolveResult, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, errors.E(errors.Invalid, "student id is required")
	}

	profile, err := s.store.GetByID(ctx, studentID)
	if err != nil {
		if errors.KindOf(err) == errors.NotFound {
			return &models.ResolveResult{
				Found:  false,
				Notice: fmt.Sprintf("No record found for %s; please fill in your details manually.", studentID),
			}, nil
		}
		return nil, err
	}

	return &models.ResolveResult{Found: true, Profile: profile}, nil
}

// Freeze validates the submitted form and persists the profile so the
// redirect round-trip can restore it from the transaction reference alone.
// After this point the profile is immutable for the rest of the workflow.
func (s *StudentService) Freeze(ctx context.Context, profile *models.StudentProfile) error {
	if err := utils.ValidateProfile(profile); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, profile); err != nil {
		return errors.E(errors.Internal, "could not save student profile", err)
	}
	return nil
}

// postgresStudentStore reads and writes the students table.
type postgresStudentStore struct{}

func (postgresStudentStore) GetByID(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	var p models.StudentProfile
	err := db.DB.QueryRowContext(ctx,
		`SELECT student_id, name, email, course, level, semester, academic_year, phone
		 FROM students WHERE student_id = $1`, studentID).
		Scan(&p.StudentID, &p.Name, &p.Email, &p.Course, &p.Level, &p.Semester, &p.AcademicYear, &p.Phone)
	if err == sql.ErrNoRows {
		return nil, errors.E(errors.NotFound, fmt.Sprintf("student %s not found", studentID))
	}
	if err != nil {
		return nil, fmt.Errorf("error reading student %s: %w", studentID, err)
	}
	return &p, nil
}

func (postgresStudentStore) Upsert(ctx context.Context, p *models.StudentProfile) error {
	_, err := db.DB.ExecContext(ctx,
		`INSERT INTO students (student_id, name, email, course, level, semester, academic_year, phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (student_id) DO UPDATE
		 SET name = EXCLUDED.name, email = EXCLUDED.email, course = EXCLUDED.course,
		     level = EXCLUDED.level, semester = EXCLUDED.semester,
		     academic_year = EXCLUDED.academic_year, phone = EXCLUDED.phone,
		     updated_at = CURRENT_TIMESTAMP`,
		p.StudentID, p.Name, p.Email, p.Course, p.Level, p.Semester, p.AcademicYear, p.Phone)
	if err != nil {
		return fmt.Errorf("error upserting student %s: %w", p.StudentID, err)
	}
	return nil
}
