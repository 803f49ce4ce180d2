package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permit-portal/errors"
	"permit-portal/models"
)

type memStudentStore struct {
	students map[string]models.StudentProfile
	upserts  int
}

func newMemStudentStore() *memStudentStore {
	return &memStudentStore{students: make(map[string]models.StudentProfile)}
}

func (s *memStudentStore) GetByID(_ context.Context, studentID string) (*models.StudentProfile, error) {
	p, ok := s.students[studentID]
	if !ok {
		return nil, errors.E(errors.NotFound, fmt.Sprintf("student %s not found", studentID))
	}
	return &p, nil
}

func (s *memStudentStore) Upsert(_ context.Context, p *models.StudentProfile) error {
	s.upserts++
	s.students[p.StudentID] = *p
	return nil
}

func TestResolve_KnownStudent(t *testing.T) {
	store := newMemStudentStore()
	store.students["CSC/2021/042"] = *testProfile()
	svc := NewStudentService(store)

	result, err := svc.Resolve(context.Background(), "CSC/2021/042")
	require.NoError(t, err)
	require.True(t, result.Found)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Adaeze Okafor", result.Profile.Name)
	assert.Empty(t, result.Notice)
}

func TestResolve_UnknownStudentIsNotAnError(t *testing.T) {
	svc := NewStudentService(newMemStudentStore())

	result, err := svc.Resolve(context.Background(), "LAW/1999/001")
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Nil(t, result.Profile)
	assert.Contains(t, result.Notice, "LAW/1999/001")
	assert.Contains(t, result.Notice, "manually")
}

func TestResolve_EmptyID(t *testing.T) {
	svc := NewStudentService(newMemStudentStore())

	_, err := svc.Resolve(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, errors.Invalid, errors.KindOf(err))
}

func TestFreeze_PersistsValidProfile(t *testing.T) {
	store := newMemStudentStore()
	svc := NewStudentService(store)

	profile := testProfile()
	require.NoError(t, svc.Freeze(context.Background(), profile))
	assert.Equal(t, 1, store.upserts)
	assert.Contains(t, store.students, profile.StudentID)
}

func TestFreeze_RejectsInvalidProfileBeforeStore(t *testing.T) {
	store := newMemStudentStore()
	svc := NewStudentService(store)

	profile := testProfile()
	profile.Email = "not-an-email"
	profile.Level = "650"

	err := svc.Freeze(context.Background(), profile)
	require.Error(t, err)
	assert.Equal(t, errors.Invalid, errors.KindOf(err))
	assert.Equal(t, 0, store.upserts, "validation failures never reach the store")
}
