package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permit-portal/errors"
	"permit-portal/models"
)

func validProfile() *models.StudentProfile {
	return &models.StudentProfile{
		StudentID:    "CSC/2021/042",
		Name:         "Adaeze Okafor",
		Email:        "adaeze@example.edu",
		Course:       "Computer Science",
		Level:        "300",
		Semester:     "First",
		AcademicYear: "2025/2026",
		Phone:        "+2348012345678",
	}
}

func TestValidateProfile_Valid(t *testing.T) {
	assert.NoError(t, ValidateProfile(validProfile()))
}

func TestValidateProfile_CollectsAllProblems(t *testing.T) {
	p := validProfile()
	p.Name = ""
	p.Email = "bad"
	p.Course = "Astrology"
	p.Level = "150"

	err := ValidateProfile(p)
	require.Error(t, err)
	assert.Equal(t, errors.Invalid, errors.KindOf(err))

	msg := errors.MessageOf(err)
	for _, want := range []string{"name", "email", "course", "level"} {
		assert.Contains(t, strings.ToLower(msg), want)
	}
}

func TestValidateProfile_FieldCases(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.StudentProfile)
	}{
		{"missing student id", func(p *models.StudentProfile) { p.StudentID = " " }},
		{"name too long", func(p *models.StudentProfile) { p.Name = strings.Repeat("a", MaxNameLength+1) }},
		{"course off the list", func(p *models.StudentProfile) { p.Course = "Computer science" }},
		{"unknown level", func(p *models.StudentProfile) { p.Level = "600" }},
		{"unknown semester", func(p *models.StudentProfile) { p.Semester = "Third" }},
		{"missing academic year", func(p *models.StudentProfile) { p.AcademicYear = "" }},
		{"missing phone", func(p *models.StudentProfile) { p.Phone = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutate(p)
			err := ValidateProfile(p)
			require.Error(t, err)
			assert.Equal(t, errors.Invalid, errors.KindOf(err))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a.b+c@dept.example.edu"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("x@y"))
}

func TestValidateMethod(t *testing.T) {
	for _, m := range PaymentMethods {
		assert.NoError(t, ValidateMethod(m))
	}

	err := ValidateMethod("crypto")
	require.Error(t, err)
	assert.Equal(t, errors.Invalid, errors.KindOf(err))

	assert.Error(t, ValidateMethod(""))
}
