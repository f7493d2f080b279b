package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
)

func seedEnrollments(t *testing.T) *EnrollmentRepository {
	t.Helper()
	repo := NewEnrollmentRepository()
	records := []*models.EnrollmentRecord{
		{ExamID: 1, StudentID: 100, Status: models.EnrollmentStatusEnrolled},
		{ExamID: 1, StudentID: 101, Status: models.EnrollmentStatusConfirmed},
		{ExamID: 2, StudentID: 100, Status: models.EnrollmentStatusEnrolled},
		{ExamID: 2, StudentID: 102, Status: models.EnrollmentStatusCancelled},
	}
	for _, rec := range records {
		require.NoError(t, repo.Create(rec))
	}
	return repo
}

func TestEnrollmentRepositoryCreate(t *testing.T) {
	repo := NewEnrollmentRepository()
	rec := &models.EnrollmentRecord{ExamID: 1, StudentID: 100, Status: models.EnrollmentStatusEnrolled}
	require.NoError(t, repo.Create(rec))

	assert.Equal(t, int64(1), rec.ID)
	assert.False(t, rec.EnrollmentDate.IsZero())

	found, err := repo.FindByID(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), found.StudentID)
}

func TestEnrollmentRepositoryHasActive(t *testing.T) {
	repo := seedEnrollments(t)

	assert.True(t, repo.HasActive(1, 100))
	assert.True(t, repo.HasActive(1, 101))
	assert.False(t, repo.HasActive(2, 102))
	assert.False(t, repo.HasActive(1, 999))
	assert.False(t, repo.HasActive(3, 100))
}

func TestEnrollmentRepositoryListByExam(t *testing.T) {
	repo := seedEnrollments(t)

	examID := int64(1)
	list := repo.List(models.EnrollmentFilter{ExamID: &examID})
	require.Len(t, list, 2)
	assert.Equal(t, int64(100), list[0].StudentID)
	assert.Equal(t, int64(101), list[1].StudentID)
}

func TestEnrollmentRepositoryListByStudent(t *testing.T) {
	repo := seedEnrollments(t)

	studentID := int64(100)
	list := repo.List(models.EnrollmentFilter{StudentID: &studentID})
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ExamID)
	assert.Equal(t, int64(2), list[1].ExamID)
}

func TestEnrollmentRepositoryListByStatus(t *testing.T) {
	repo := seedEnrollments(t)

	list := repo.List(models.EnrollmentFilter{Status: models.EnrollmentStatusCancelled})
	require.Len(t, list, 1)
	assert.Equal(t, int64(102), list[0].StudentID)
}

func TestEnrollmentRepositoryUpdateStatus(t *testing.T) {
	repo := seedEnrollments(t)

	require.NoError(t, repo.UpdateStatus(1, models.EnrollmentStatusCancelled, "Cancellata il 2026-06-01T10:00:00"))

	found, err := repo.FindByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCancelled, found.Status)
	assert.Equal(t, "Cancellata il 2026-06-01T10:00:00", found.AdminNotes)
	assert.False(t, repo.HasActive(1, 100))

	assert.ErrorIs(t, repo.UpdateStatus(99, models.EnrollmentStatusCancelled, ""), ErrNoRecord)
}
