package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
	"github.com/unimol-dev/exam-sessions-api/internal/repository"
	"github.com/unimol-dev/exam-sessions-api/pkg/config"
	appErrors "github.com/unimol-dev/exam-sessions-api/pkg/errors"
	"github.com/unimol-dev/exam-sessions-api/pkg/export"
	"github.com/unimol-dev/exam-sessions-api/pkg/pagination"
)

type gradeStore interface {
	Create(rec *models.GradeRecord) error
	FindByID(id int64) (*models.GradeRecord, error)
	ListByExam(examID int64, filter models.GradeFilter) []models.GradeRecord
	ListByStudent(studentID int64) []models.GradeRecord
	ListByExamIDs(examIDs []int64) []models.GradeRecord
}

type examReader interface {
	FindByID(id int64) (*models.ExamSession, error)
	List(filter models.ExamFilter) []models.ExamSession
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RecordGradeRequest describes a grade registration for an exam session.
type RecordGradeRequest struct {
	StudentID    int64  `json:"student_id" validate:"required"`
	StudentName  string `json:"student_name"`
	EnrollmentID *int64 `json:"enrollment_id"`
	Grade        int    `json:"grade"`
	WithHonors   bool   `json:"with_honors"`
	Notes        string `json:"notes"`
	Feedback     string `json:"feedback"`
}

// GradeService is the append-only grade book with per-course aggregation.
type GradeService struct {
	grades    gradeStore
	exams     examReader
	cache     statsCache
	cacheCfg  config.StatsCacheConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs GradeService. cache may be nil, disabling the
// statistics cache entirely.
func NewGradeService(grades gradeStore, exams examReader, cache statsCache, cacheCfg config.StatsCacheConfig, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, exams: exams, cache: cache, cacheCfg: cacheCfg, validator: validate, logger: logger}
}

// Record appends a new grade for an exam. Grades outside [18,30] are
// rejected; duplicates for the same enrollment are permitted, each
// registration is an independent record.
func (s *GradeService) Record(ctx context.Context, examID int64, req RecordGradeRequest) (*models.GradeRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	exam, err := s.exams.FindByID(examID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	if req.Grade < models.GradeMin || req.Grade > models.GradeMax {
		return nil, appErrors.ErrInvalidGrade
	}

	rec := &models.GradeRecord{
		EnrollmentID: req.EnrollmentID,
		StudentID:    req.StudentID,
		StudentName:  req.StudentName,
		ExamID:       examID,
		Grade:        req.Grade,
		WithHonors:   req.WithHonors,
		Notes:        req.Notes,
		Feedback:     req.Feedback,
	}
	if rec.StudentName == "" {
		rec.StudentName = fmt.Sprintf("Studente %d", req.StudentID)
	}
	if err := s.grades.Create(rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, s.statsKey(exam.CourseID)); err != nil {
			s.logger.Warn("failed to invalidate statistics cache", zap.Int64("course_id", exam.CourseID), zap.Error(err))
		}
	}

	s.logger.Info("grade recorded",
		zap.Int64("grade_id", rec.ID),
		zap.Int64("exam_id", examID),
		zap.Int64("student_id", req.StudentID),
		zap.Int("grade", req.Grade),
		zap.Bool("with_honors", req.WithHonors))
	return rec, nil
}

// GetByID returns a single grade record.
func (s *GradeService) GetByID(ctx context.Context, id int64) (*models.GradeRecord, error) {
	rec, err := s.grades.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	return rec, nil
}

// ListByExam returns an exam's grades, filtered and paged.
func (s *GradeService) ListByExam(ctx context.Context, examID int64, filter models.GradeFilter, page, size string) []models.GradeRecord {
	return pagination.Paginate(s.grades.ListByExam(examID, filter), page, size)
}

// ListByStudent returns a student's grades, optionally restricted to one
// course by joining grades through the exam catalog.
func (s *GradeService) ListByStudent(ctx context.Context, studentID int64, courseID *int64, page, size string) []models.GradeRecord {
	grades := s.grades.ListByStudent(studentID)
	if courseID != nil {
		courseExams := make(map[int64]struct{})
		for _, exam := range s.exams.List(models.ExamFilter{CourseID: courseID}) {
			courseExams[exam.ID] = struct{}{}
		}
		filtered := grades[:0:0]
		for _, g := range grades {
			if _, ok := courseExams[g.ExamID]; ok {
				filtered = append(filtered, g)
			}
		}
		grades = filtered
	}
	return pagination.Paginate(grades, page, size)
}

// CourseStatistics aggregates every grade recorded against the course's
// exams. A course with no grades yields a zeroed result, not an error.
func (s *GradeService) CourseStatistics(ctx context.Context, courseID int64) (*models.CourseStatistics, error) {
	if s.cache != nil {
		var cached models.CourseStatistics
		if err := s.cache.Get(ctx, s.statsKey(courseID), &cached); err == nil {
			return &cached, nil
		}
	}

	stats := s.computeStatistics(courseID)

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.statsKey(courseID), stats, s.cacheCfg.TTL); err != nil {
			s.logger.Warn("failed to cache statistics", zap.Int64("course_id", courseID), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *GradeService) computeStatistics(courseID int64) *models.CourseStatistics {
	exams := s.exams.List(models.ExamFilter{CourseID: &courseID})
	examIDs := make([]int64, 0, len(exams))
	for _, exam := range exams {
		examIDs = append(examIDs, exam.ID)
	}
	grades := s.grades.ListByExamIDs(examIDs)

	distribution := make(map[string]int, len(models.DistributionBuckets))
	for _, bucket := range models.DistributionBuckets {
		distribution[bucket] = 0
	}

	stats := &models.CourseStatistics{CourseID: courseID, Distribution: distribution}
	if len(grades) == 0 {
		return stats
	}

	sum := 0
	minGrade := models.GradeMax
	maxGrade := models.GradeMin
	for _, g := range grades {
		sum += g.Grade
		if g.Grade < minGrade {
			minGrade = g.Grade
		}
		if g.Grade > maxGrade {
			maxGrade = g.Grade
		}
		if g.WithHonors {
			stats.WithHonorsCount++
		}
		switch {
		case g.Grade <= 20:
			distribution["18-20"]++
		case g.Grade <= 23:
			distribution["21-23"]++
		case g.Grade <= 26:
			distribution["24-26"]++
		case g.Grade <= 29:
			distribution["27-29"]++
		default:
			distribution["30"]++
		}
	}
	// 30L overlays the 30 bucket rather than partitioning it; the five base
	// buckets alone sum to the grade total.
	distribution["30L"] = stats.WithHonorsCount

	stats.TotalGrades = len(grades)
	stats.AverageGrade = math.Round(float64(sum)/float64(len(grades))*100) / 100
	stats.MinGrade = minGrade
	stats.MaxGrade = maxGrade
	return stats
}

// ExportCourseReport flattens a course's grade records into a tabular
// dataset for the CSV and PDF renderers.
func (s *GradeService) ExportCourseReport(ctx context.Context, courseID int64) (export.Dataset, string) {
	exams := s.exams.List(models.ExamFilter{CourseID: &courseID})
	examsByID := make(map[int64]models.ExamSession, len(exams))
	examIDs := make([]int64, 0, len(exams))
	for _, exam := range exams {
		examsByID[exam.ID] = exam
		examIDs = append(examIDs, exam.ID)
	}
	grades := s.grades.ListByExamIDs(examIDs)

	headers := []string{"Grade ID", "Student", "Exam Date", "Grade", "Honors", "Recorded At"}
	rows := make([]map[string]string, 0, len(grades))
	for _, g := range grades {
		honors := ""
		if g.WithHonors {
			honors = "30L"
		}
		rows = append(rows, map[string]string{
			"Grade ID":    strconv.FormatInt(g.ID, 10),
			"Student":     g.StudentName,
			"Exam Date":   examsByID[g.ExamID].Date,
			"Grade":       strconv.Itoa(g.Grade),
			"Honors":      honors,
			"Recorded At": g.RecordingDate.Format("2006-01-02 15:04"),
		})
	}

	title := fmt.Sprintf("Grade report - course %d", courseID)
	if len(exams) > 0 {
		title = fmt.Sprintf("Grade report - %s", exams[0].CourseName)
	}
	return export.Dataset{Headers: headers, Rows: rows}, title
}

func (s *GradeService) statsKey(courseID int64) string {
	prefix := s.cacheCfg.KeyPrefix
	if prefix == "" {
		prefix = "exam-sessions:stats"
	}
	return fmt.Sprintf("%s:course:%d", prefix, courseID)
}
