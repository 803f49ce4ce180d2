package utils

import (
	"fmt"
	"regexp"
	"strings"

	"permit-portal/errors"
	"permit-portal/models"
)

// Email regex pattern
var EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// MaxNameLength bounds the name field
const MaxNameLength = 100

// ValidateEmail checks if email format is valid
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateName checks if name meets requirements
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("name must be less than %d characters", MaxNameLength)
	}
	return nil
}

// ValidateProfile runs the full request-form validation. It is entirely
// local: no network or database call happens before every field passes.
// The returned error is a Validation-kind error listing all problems.
func ValidateProfile(p *models.StudentProfile) error {
	var problems []string

	if strings.TrimSpace(p.StudentID) == "" {
		problems = append(problems, "student id is required")
	}
	if err := ValidateName(p.Name); err != nil {
		problems = append(problems, err.Error())
	}
	if err := ValidateEmail(p.Email); err != nil {
		problems = append(problems, err.Error())
	}
	if !Contains(Courses, p.Course) {
		problems = append(problems, "course must be chosen from the course list")
	}
	if !Contains(Levels, p.Level) {
		problems = append(problems, "level must be one of 100-500")
	}
	if !Contains(Semesters, p.Semester) {
		problems = append(problems, "semester must be First or Second")
	}
	if strings.TrimSpace(p.AcademicYear) == "" {
		problems = append(problems, "academic year is required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		problems = append(problems, "phone number is required")
	}

	if len(problems) > 0 {
		return errors.E(errors.Invalid, strings.Join(problems, "; "))
	}
	return nil
}

// ValidateMethod checks the chosen payment method against the closed list.
func ValidateMethod(method string) error {
	if !Contains(PaymentMethods, method) {
		return errors.E(errors.Invalid, fmt.Sprintf("unsupported payment method: %s", method))
	}
	return nil
}
