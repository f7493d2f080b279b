package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
	"github.com/unimol-dev/exam-sessions-api/internal/repository"
	appErrors "github.com/unimol-dev/exam-sessions-api/pkg/errors"
	"github.com/unimol-dev/exam-sessions-api/pkg/pagination"
)

type examStore interface {
	Create(exam *models.ExamSession) error
	FindByID(id int64) (*models.ExamSession, error)
	Exists(id int64) bool
	List(filter models.ExamFilter) []models.ExamSession
	UpdateStatus(id int64, status models.ExamStatus) error
}

// ScheduleExamRequest describes exam session creation.
type ScheduleExamRequest struct {
	CourseID    int64  `json:"course_id" validate:"required"`
	CourseName  string `json:"course_name"`
	TeacherID   int64  `json:"teacher_id" validate:"required"`
	TeacherName string `json:"teacher_name"`
	ExamDate    string `json:"exam_date" validate:"required"`
	ExamTime    string `json:"exam_time"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity" validate:"required,gt=0"`
}

// UpdateExamStatusRequest describes an administrative status transition.
type UpdateExamStatusRequest struct {
	Status models.ExamStatus `json:"status" validate:"required"`
}

// Allowed administrative transitions. COMPLETED and CANCELLED are terminal.
var examTransitions = map[models.ExamStatus][]models.ExamStatus{
	models.ExamStatusScheduled: {models.ExamStatusActive, models.ExamStatusCancelled},
	models.ExamStatusActive:    {models.ExamStatusCompleted, models.ExamStatusCancelled},
}

// ExamService owns the exam session catalog.
type ExamService struct {
	exams     examStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService constructs ExamService.
func NewExamService(exams examStore, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{exams: exams, validator: validate, logger: logger}
}

// Schedule creates a new exam session in SCHEDULED state.
func (s *ExamService) Schedule(ctx context.Context, req ScheduleExamRequest) (*models.ExamSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "invalid exam payload")
	}

	exam := &models.ExamSession{
		CourseID:    req.CourseID,
		CourseName:  req.CourseName,
		TeacherID:   req.TeacherID,
		TeacherName: req.TeacherName,
		Date:        req.ExamDate,
		Time:        req.ExamTime,
		Location:    req.Location,
		Capacity:    req.Capacity,
	}
	if exam.CourseName == "" {
		exam.CourseName = fmt.Sprintf("Corso %d", req.CourseID)
	}
	if exam.TeacherName == "" {
		exam.TeacherName = fmt.Sprintf("Docente %d", req.TeacherID)
	}
	if exam.Time == "" {
		exam.Time = "09:00:00"
	}
	if exam.Location == "" {
		exam.Location = "Aula TBD"
	}

	if err := s.exams.Create(exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	s.logger.Info("exam scheduled",
		zap.Int64("exam_id", exam.ID),
		zap.Int64("course_id", exam.CourseID),
		zap.Int("capacity", exam.Capacity))
	return exam, nil
}

// GetByID returns a single exam session.
func (s *ExamService) GetByID(ctx context.Context, id int64) (*models.ExamSession, error) {
	exam, err := s.exams.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	return exam, nil
}

// Existence answers the integration probe; it never errors.
func (s *ExamService) Existence(ctx context.Context, id int64) *models.ExamExistence {
	exam, err := s.exams.FindByID(id)
	if err != nil {
		return &models.ExamExistence{Exists: false, ExamID: id}
	}
	return &models.ExamExistence{Exists: true, ExamID: id, ExamInfo: infoOf(exam)}
}

// Info returns the trimmed integration view.
func (s *ExamService) Info(ctx context.Context, id int64) (*models.ExamInfo, error) {
	exam, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return infoOf(exam), nil
}

// List returns filtered sessions sliced to the requested page. status is an
// optional raw query value; empty means every status.
func (s *ExamService) List(ctx context.Context, filter models.ExamFilter, status, page, size string) []models.ExamSession {
	exams := pagination.FilterByStatus(s.exams.List(filter), status, func(e models.ExamSession) string {
		return string(e.Status)
	})
	return pagination.Paginate(exams, page, size)
}

// ListByCourse returns every session for a course.
func (s *ExamService) ListByCourse(ctx context.Context, courseID int64) []models.ExamSession {
	return s.exams.List(models.ExamFilter{CourseID: &courseID})
}

// ListByTeacher returns every session held by a teacher.
func (s *ExamService) ListByTeacher(ctx context.Context, teacherID int64) []models.ExamSession {
	return s.exams.List(models.ExamFilter{TeacherID: &teacherID})
}

// Calendar projects filtered sessions into the public calendar view. Every
// status is visible; availability is derived from the live counter.
func (s *ExamService) Calendar(ctx context.Context, filter models.ExamFilter) []models.ExamCalendarItem {
	exams := s.exams.List(filter)
	items := make([]models.ExamCalendarItem, 0, len(exams))
	for _, exam := range exams {
		items = append(items, models.ExamCalendarItem{
			ExamID:         exam.ID,
			CourseCode:     fmt.Sprintf("CORSO%03d", exam.CourseID),
			CourseName:     exam.CourseName,
			TeacherName:    exam.TeacherName,
			Date:           exam.Date,
			Time:           exam.Time,
			Location:       exam.Location,
			AvailableSlots: exam.AvailableSlots(),
			Status:         exam.Status,
		})
	}
	return items
}

// Available returns SCHEDULED sessions with free seats.
func (s *ExamService) Available(ctx context.Context, filter models.ExamFilter) []models.ExamSession {
	exams := s.exams.List(filter)
	available := make([]models.ExamSession, 0, len(exams))
	for _, exam := range exams {
		if exam.Status == models.ExamStatusScheduled && exam.EnrolledCount < exam.Capacity {
			available = append(available, exam)
		}
	}
	return available
}

// UpdateStatus applies an administrative lifecycle transition.
func (s *ExamService) UpdateStatus(ctx context.Context, id int64, req UpdateExamStatusRequest) (*models.ExamSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "invalid status payload")
	}
	exam, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(exam.Status, req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot transition exam from %s to %s", exam.Status, req.Status))
	}
	if err := s.exams.UpdateStatus(id, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam status")
	}
	s.logger.Info("exam status updated",
		zap.Int64("exam_id", id),
		zap.String("from", string(exam.Status)),
		zap.String("to", string(req.Status)))
	exam.Status = req.Status
	return exam, nil
}

func transitionAllowed(from, to models.ExamStatus) bool {
	for _, next := range examTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func infoOf(exam *models.ExamSession) *models.ExamInfo {
	return &models.ExamInfo{
		ID:          exam.ID,
		CourseID:    exam.CourseID,
		CourseName:  exam.CourseName,
		TeacherID:   exam.TeacherID,
		TeacherName: exam.TeacherName,
		Date:        exam.Date,
		Time:        exam.Time,
		Status:      exam.Status,
	}
}
