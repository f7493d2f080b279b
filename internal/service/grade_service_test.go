package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
	"github.com/unimol-dev/exam-sessions-api/internal/repository"
	"github.com/unimol-dev/exam-sessions-api/pkg/config"
	appErrors "github.com/unimol-dev/exam-sessions-api/pkg/errors"
)

type memoryCache struct {
	entries map[string][]byte
	gets    int
	sets    int
	deletes int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.deletes++
	delete(m.entries, key)
	return nil
}

type gradeFixture struct {
	grades *GradeService
	exams  *ExamService
	cache  *memoryCache
}

func newGradeFixture(t *testing.T, cache *memoryCache) *gradeFixture {
	t.Helper()
	examRepo := repository.NewExamRepository()
	gradeRepo := repository.NewGradeRepository()
	validate := validator.New()

	var sc statsCache
	if cache != nil {
		sc = cache
	}
	cacheCfg := config.StatsCacheConfig{TTL: time.Minute, KeyPrefix: "test:stats"}
	return &gradeFixture{
		grades: NewGradeService(gradeRepo, examRepo, sc, cacheCfg, validate, zap.NewNop()),
		exams:  NewExamService(examRepo, validate, zap.NewNop()),
		cache:  cache,
	}
}

func (f *gradeFixture) schedule(t *testing.T, courseID int64) *models.ExamSession {
	t.Helper()
	exam, err := f.exams.Schedule(context.Background(), ScheduleExamRequest{
		CourseID: courseID, TeacherID: 1, ExamDate: "2026-06-15", Capacity: 30,
	})
	require.NoError(t, err)
	return exam
}

func TestGradeServiceRecord(t *testing.T) {
	f := newGradeFixture(t, nil)
	exam := f.schedule(t, 1)

	rec, err := f.grades.Record(context.Background(), exam.ID, RecordGradeRequest{
		StudentID: 100, Grade: 28, Feedback: "Buona prova",
	})
	require.NoError(t, err)
	assert.Equal(t, 28, rec.Grade)
	assert.Equal(t, "Studente 100", rec.StudentName)
	assert.False(t, rec.RecordingDate.IsZero())
}

func TestGradeServiceRecordBoundaryGrades(t *testing.T) {
	f := newGradeFixture(t, nil)
	exam := f.schedule(t, 1)

	for _, grade := range []int{18, 30} {
		_, err := f.grades.Record(context.Background(), exam.ID, RecordGradeRequest{StudentID: 100, Grade: grade})
		require.NoError(t, err)
	}
	for _, grade := range []int{17, 31, 0} {
		_, err := f.grades.Record(context.Background(), exam.ID, RecordGradeRequest{StudentID: 100, Grade: grade})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrInvalidGrade.Code, appErrors.FromError(err).Code)
	}
}

func TestGradeServiceRecordExamNotFound(t *testing.T) {
	f := newGradeFixture(t, nil)

	_, err := f.grades.Record(context.Background(), 42, RecordGradeRequest{StudentID: 100, Grade: 25})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceCourseStatistics(t *testing.T) {
	f := newGradeFixture(t, nil)
	exam := f.schedule(t, 7)

	for _, g := range []RecordGradeRequest{
		{StudentID: 100, Grade: 28},
		{StudentID: 101, Grade: 30, WithHonors: true},
		{StudentID: 102, Grade: 22},
	} {
		_, err := f.grades.Record(context.Background(), exam.ID, g)
		require.NoError(t, err)
	}

	stats, err := f.grades.CourseStatistics(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.CourseID)
	assert.Equal(t, 3, stats.TotalGrades)
	assert.Equal(t, 26.67, stats.AverageGrade)
	assert.Equal(t, 22, stats.MinGrade)
	assert.Equal(t, 30, stats.MaxGrade)
	assert.Equal(t, 1, stats.WithHonorsCount)
	assert.Equal(t, map[string]int{
		"18-20": 0,
		"21-23": 1,
		"24-26": 0,
		"27-29": 1,
		"30":    1,
		"30L":   1,
	}, stats.Distribution)
}

func TestGradeServiceCourseStatisticsSpansExams(t *testing.T) {
	f := newGradeFixture(t, nil)
	first := f.schedule(t, 7)
	second := f.schedule(t, 7)
	other := f.schedule(t, 8)

	_, err := f.grades.Record(context.Background(), first.ID, RecordGradeRequest{StudentID: 100, Grade: 24})
	require.NoError(t, err)
	_, err = f.grades.Record(context.Background(), second.ID, RecordGradeRequest{StudentID: 101, Grade: 26})
	require.NoError(t, err)
	_, err = f.grades.Record(context.Background(), other.ID, RecordGradeRequest{StudentID: 102, Grade: 18})
	require.NoError(t, err)

	stats, err := f.grades.CourseStatistics(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGrades)
	assert.Equal(t, 25.0, stats.AverageGrade)
}

func TestGradeServiceCourseStatisticsEmptyCourse(t *testing.T) {
	f := newGradeFixture(t, nil)

	stats, err := f.grades.CourseStatistics(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalGrades)
	assert.Equal(t, 0.0, stats.AverageGrade)
	for _, bucket := range models.DistributionBuckets {
		assert.Contains(t, stats.Distribution, bucket)
		assert.Equal(t, 0, stats.Distribution[bucket])
	}
}

func TestGradeServiceStatisticsCached(t *testing.T) {
	cache := newMemoryCache()
	f := newGradeFixture(t, cache)
	exam := f.schedule(t, 7)

	_, err := f.grades.Record(context.Background(), exam.ID, RecordGradeRequest{StudentID: 100, Grade: 27})
	require.NoError(t, err)

	first, err := f.grades.CourseStatistics(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	second, err := f.grades.CourseStatistics(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, first.TotalGrades, second.TotalGrades)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)
}

func TestGradeServiceRecordInvalidatesStatisticsCache(t *testing.T) {
	cache := newMemoryCache()
	f := newGradeFixture(t, cache)
	exam := f.schedule(t, 7)

	_, err := f.grades.Record(context.Background(), exam.ID, RecordGradeRequest{StudentID: 100, Grade: 24})
	require.NoError(t, err)

	stats, err := f.grades.CourseStatistics(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalGrades)

	_, err = f.grades.Record(context.Background(), exam.ID, RecordGradeRequest{StudentID: 101, Grade: 30})
	require.NoError(t, err)

	stats, err = f.grades.CourseStatistics(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGrades)
	assert.Equal(t, 30, stats.MaxGrade)
}

func TestGradeServiceListByStudentCourseFilter(t *testing.T) {
	f := newGradeFixture(t, nil)
	mathExam := f.schedule(t, 7)
	physExam := f.schedule(t, 8)

	_, err := f.grades.Record(context.Background(), mathExam.ID, RecordGradeRequest{StudentID: 100, Grade: 24})
	require.NoError(t, err)
	_, err = f.grades.Record(context.Background(), physExam.ID, RecordGradeRequest{StudentID: 100, Grade: 28})
	require.NoError(t, err)

	all := f.grades.ListByStudent(context.Background(), 100, nil, "", "")
	assert.Len(t, all, 2)

	courseID := int64(7)
	scoped := f.grades.ListByStudent(context.Background(), 100, &courseID, "", "")
	require.Len(t, scoped, 1)
	assert.Equal(t, mathExam.ID, scoped[0].ExamID)
}

func TestGradeServiceExportCourseReport(t *testing.T) {
	f := newGradeFixture(t, nil)
	exam, err := f.exams.Schedule(context.Background(), ScheduleExamRequest{
		CourseID: 7, CourseName: "Analisi I", TeacherID: 1, ExamDate: "2026-06-15", Capacity: 30,
	})
	require.NoError(t, err)

	_, err = f.grades.Record(context.Background(), exam.ID, RecordGradeRequest{StudentID: 100, StudentName: "Mario Rossi", Grade: 30, WithHonors: true})
	require.NoError(t, err)

	dataset, title := f.grades.ExportCourseReport(context.Background(), 7)
	assert.Equal(t, "Grade report - Analisi I", title)
	require.Len(t, dataset.Rows, 1)
	assert.Equal(t, "Mario Rossi", dataset.Rows[0]["Student"])
	assert.Equal(t, "30", dataset.Rows[0]["Grade"])
	assert.Equal(t, "30L", dataset.Rows[0]["Honors"])
	assert.Equal(t, "2026-06-15", dataset.Rows[0]["Exam Date"])
}
