package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
)

func TestExamRepositoryCreateAssignsDefaults(t *testing.T) {
	repo := NewExamRepository()

	exam := &models.ExamSession{CourseID: 10, TeacherID: 5, Date: "2026-06-15", Capacity: 30}
	require.NoError(t, repo.Create(exam))

	assert.Equal(t, int64(1), exam.ID)
	assert.Equal(t, models.ExamStatusScheduled, exam.Status)
	assert.Equal(t, 0, exam.EnrolledCount)
	assert.False(t, exam.CreatedAt.IsZero())

	second := &models.ExamSession{CourseID: 11, TeacherID: 5, Date: "2026-06-20", Capacity: 20}
	require.NoError(t, repo.Create(second))
	assert.Equal(t, int64(2), second.ID)
}

func TestExamRepositoryFindByIDReturnsCopy(t *testing.T) {
	repo := NewExamRepository()
	exam := &models.ExamSession{CourseID: 1, TeacherID: 1, Date: "2026-06-15", Capacity: 10}
	require.NoError(t, repo.Create(exam))

	found, err := repo.FindByID(exam.ID)
	require.NoError(t, err)
	found.EnrolledCount = 99

	again, err := repo.FindByID(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.EnrolledCount)
}

func TestExamRepositoryFindByIDMissing(t *testing.T) {
	repo := NewExamRepository()

	_, err := repo.FindByID(42)
	assert.ErrorIs(t, err, ErrNoRecord)
	assert.False(t, repo.Exists(42))
}

func TestExamRepositoryListFilters(t *testing.T) {
	repo := NewExamRepository()
	require.NoError(t, repo.Create(&models.ExamSession{CourseID: 1, TeacherID: 7, Date: "2026-06-10", Capacity: 10}))
	require.NoError(t, repo.Create(&models.ExamSession{CourseID: 2, TeacherID: 7, Date: "2026-06-20", Capacity: 10}))
	require.NoError(t, repo.Create(&models.ExamSession{CourseID: 1, TeacherID: 8, Date: "2026-07-01", Capacity: 10}))

	all := repo.List(models.ExamFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(3), all[2].ID)

	courseID := int64(1)
	byCourse := repo.List(models.ExamFilter{CourseID: &courseID})
	require.Len(t, byCourse, 2)

	teacherID := int64(7)
	byTeacher := repo.List(models.ExamFilter{TeacherID: &teacherID})
	require.Len(t, byTeacher, 2)

	window := repo.List(models.ExamFilter{DateFrom: "2026-06-15", DateTo: "2026-06-30"})
	require.Len(t, window, 1)
	assert.Equal(t, int64(2), window[0].ID)
}

func TestExamRepositoryUpdateStatus(t *testing.T) {
	repo := NewExamRepository()
	exam := &models.ExamSession{CourseID: 1, TeacherID: 1, Date: "2026-06-15", Capacity: 10}
	require.NoError(t, repo.Create(exam))

	require.NoError(t, repo.UpdateStatus(exam.ID, models.ExamStatusActive))
	found, err := repo.FindByID(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExamStatusActive, found.Status)

	assert.ErrorIs(t, repo.UpdateStatus(99, models.ExamStatusActive), ErrNoRecord)
}

func TestExamRepositoryAdjustEnrolledCountBounds(t *testing.T) {
	repo := NewExamRepository()
	exam := &models.ExamSession{CourseID: 1, TeacherID: 1, Date: "2026-06-15", Capacity: 2}
	require.NoError(t, repo.Create(exam))

	require.NoError(t, repo.AdjustEnrolledCount(exam.ID, 1))
	require.NoError(t, repo.AdjustEnrolledCount(exam.ID, 1))

	err := repo.AdjustEnrolledCount(exam.ID, 1)
	assert.ErrorIs(t, err, ErrCounterOutOfRange)

	found, ferr := repo.FindByID(exam.ID)
	require.NoError(t, ferr)
	assert.Equal(t, 2, found.EnrolledCount)

	require.NoError(t, repo.AdjustEnrolledCount(exam.ID, -2))
	assert.ErrorIs(t, repo.AdjustEnrolledCount(exam.ID, -1), ErrCounterOutOfRange)
	assert.ErrorIs(t, repo.AdjustEnrolledCount(99, 1), ErrNoRecord)
}
