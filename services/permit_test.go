package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permit-portal/errors"
	"permit-portal/models"
)

// memPermitStore is an in-memory PermitStore with the same insert-if-absent
// contract as the Postgres table.
type memPermitStore struct {
	mu      sync.Mutex
	permits map[string]models.Permit
	inserts int
}

func newMemPermitStore() *memPermitStore {
	return &memPermitStore{permits: make(map[string]models.Permit)}
}

func (s *memPermitStore) GetByCode(_ context.Context, code string) (*models.Permit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.permits[code]
	if !ok {
		return nil, errors.E(errors.NotFound, fmt.Sprintf("permit %s not found", code))
	}
	out := p
	return &out, nil
}

func (s *memPermitStore) Insert(_ context.Context, p *models.Permit) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if _, exists := s.permits[p.Code]; exists {
		return false, nil
	}
	s.permits[p.Code] = *p
	return true, nil
}

func testProfile() *models.StudentProfile {
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

func TestGetOrCreatePermit_IdempotentForSameCode(t *testing.T) {
	store := newMemPermitStore()
	var notified int
	svc := &PermitService{store: store, notify: func(*models.Permit) { notified++ }}

	first, err := svc.GetOrCreatePermit(context.Background(), "PMT-001", testProfile())
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.GetOrCreatePermit(context.Background(), "PMT-001", testProfile())
	require.NoError(t, err)

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.IssuedAt, second.IssuedAt, "second call must return the stored permit, not a new one")
	assert.Len(t, store.permits, 1)
	assert.Equal(t, 1, store.inserts, "existing permit short-circuits before insert")

	// notify runs in a goroutine; give it a moment
	assert.Eventually(t, func() bool { return notified == 1 }, time.Second, 10*time.Millisecond)
}

func TestGetOrCreatePermit_MalformedCode(t *testing.T) {
	svc := NewPermitService(newMemPermitStore())

	for _, code := range []string{"", "pmt-001", "PMT-", "ABC-123", "PMT-lowercase"} {
		_, err := svc.GetOrCreatePermit(context.Background(), code, testProfile())
		require.Error(t, err, "code %q", code)
		assert.Equal(t, errors.Invalid, errors.KindOf(err))
	}
}

func TestGetOrCreatePermit_UnknownCodeWithoutProfile(t *testing.T) {
	svc := NewPermitService(newMemPermitStore())

	_, err := svc.GetOrCreatePermit(context.Background(), "PMT-MISSING", nil)
	require.Error(t, err)
	assert.Equal(t, errors.NotFound, errors.KindOf(err))
}

func TestGetOrCreatePermit_SetsValidityWindow(t *testing.T) {
	store := newMemPermitStore()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &PermitService{store: store, now: func() time.Time { return issued }}

	permit, err := svc.GetOrCreatePermit(context.Background(), "PMT-XYZ-9", testProfile())
	require.NoError(t, err)

	assert.Equal(t, models.PermitActive, permit.Status)
	assert.Equal(t, issued, permit.IssuedAt)
	assert.Equal(t, issued.AddDate(0, 0, 180), permit.ExpiresAt)
}

func TestLookup_NotFound(t *testing.T) {
	svc := NewPermitService(newMemPermitStore())

	outcome, err := svc.Lookup(context.Background(), "PMT-NOPE")
	require.NoError(t, err, "unknown codes are an outcome, not an error")
	assert.False(t, outcome.Valid)
	assert.Equal(t, models.ReasonNotFound, outcome.Reason)
	assert.Nil(t, outcome.Permit)
}

func TestLookup_MalformedCode(t *testing.T) {
	svc := NewPermitService(newMemPermitStore())

	outcome, err := svc.Lookup(context.Background(), "not a code")
	require.NoError(t, err)
	assert.False(t, outcome.Valid)
	assert.Equal(t, models.ReasonMalformed, outcome.Reason)
}

func TestLookup_ExpiredPermit(t *testing.T) {
	store := newMemPermitStore()
	issued := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	store.permits["PMT-OLD"] = models.Permit{
		Code:      "PMT-OLD",
		Student:   *testProfile(),
		Status:    models.PermitActive,
		IssuedAt:  issued,
		ExpiresAt: issued.AddDate(0, 0, 180),
	}
	svc := &PermitService{store: store, now: func() time.Time { return issued.AddDate(0, 0, 181) }}

	outcome, err := svc.Lookup(context.Background(), "PMT-OLD")
	require.NoError(t, err)
	assert.False(t, outcome.Valid)
	assert.Equal(t, models.ReasonExpired, outcome.Reason)
}

func TestLookup_ValidPermit(t *testing.T) {
	store := newMemPermitStore()
	svc := NewPermitService(store)

	created, err := svc.GetOrCreatePermit(context.Background(), "PMT-GOOD-1", testProfile())
	require.NoError(t, err)

	outcome, err := svc.Lookup(context.Background(), "PMT-GOOD-1")
	require.NoError(t, err)
	require.True(t, outcome.Valid)
	require.NotNil(t, outcome.Permit)
	assert.Equal(t, created.Code, outcome.Permit.Code)
	assert.Equal(t, models.PermitActive, outcome.Permit.Status)
	assert.Empty(t, outcome.Reason)
	assert.Equal(t, created.Student.StudentID, outcome.Permit.Student.StudentID)
}
