package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
	"github.com/unimol-dev/exam-sessions-api/internal/repository"
	appErrors "github.com/unimol-dev/exam-sessions-api/pkg/errors"
	"github.com/unimol-dev/exam-sessions-api/pkg/pagination"
)

type enrollmentStore interface {
	Create(rec *models.EnrollmentRecord) error
	FindByID(id int64) (*models.EnrollmentRecord, error)
	HasActive(examID, studentID int64) bool
	List(filter models.EnrollmentFilter) []models.EnrollmentRecord
	UpdateStatus(id int64, status models.EnrollmentStatus, adminNotes string) error
}

type examCounterStore interface {
	FindByID(id int64) (*models.ExamSession, error)
	AdjustEnrolledCount(id int64, delta int) error
}

// EnrollRequest describes an enrollment attempt against an exam session.
type EnrollRequest struct {
	StudentID   int64  `json:"student_id" validate:"required"`
	StudentName string `json:"student_name"`
	Notes       string `json:"notes"`
}

// EnrollmentService is the ledger of exam enrollments. It is the sole
// mutator of ExamSession.EnrolledCount: enroll and cancel run their whole
// check-then-act sequence inside a per-exam critical section so that
// concurrent requests against the last seat resolve deterministically.
type EnrollmentService struct {
	enrollments enrollmentStore
	exams       examCounterStore
	examLocks   sync.Map
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(enrollments enrollmentStore, exams examCounterStore, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, exams: exams, validator: validate, logger: logger}
}

func (s *EnrollmentService) lockExam(examID int64) func() {
	value, _ := s.examLocks.LoadOrStore(examID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Enroll registers a student to an exam session, consuming one capacity
// unit. On any failure no state is mutated.
func (s *EnrollmentService) Enroll(ctx context.Context, examID int64, req EnrollRequest) (*models.EnrollmentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	unlock := s.lockExam(examID)
	defer unlock()

	exam, err := s.exams.FindByID(examID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	if exam.EnrolledCount >= exam.Capacity {
		return nil, appErrors.ErrCapacityExceeded
	}
	if s.enrollments.HasActive(examID, req.StudentID) {
		return nil, appErrors.ErrDuplicateEnrollment
	}

	rec := &models.EnrollmentRecord{
		ExamID:      examID,
		StudentID:   req.StudentID,
		StudentName: req.StudentName,
		Status:      models.EnrollmentStatusEnrolled,
		Notes:       req.Notes,
	}
	if rec.StudentName == "" {
		rec.StudentName = fmt.Sprintf("Studente %d", req.StudentID)
	}
	if err := s.enrollments.Create(rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	if err := s.exams.AdjustEnrolledCount(examID, 1); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update seat counter")
	}

	s.logger.Info("student enrolled",
		zap.Int64("enrollment_id", rec.ID),
		zap.Int64("exam_id", examID),
		zap.Int64("student_id", req.StudentID))
	return rec, nil
}

// Cancel marks an enrollment CANCELLED and releases its capacity unit.
// Exactly one decrement occurs per successful cancellation; repeated calls
// fail with ALREADY_CANCELLED.
func (s *EnrollmentService) Cancel(ctx context.Context, enrollmentID int64) error {
	rec, err := s.enrollments.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	unlock := s.lockExam(rec.ExamID)
	defer unlock()

	// Re-read under the exam lock: a concurrent cancel may have won the race.
	rec, err = s.enrollments.FindByID(enrollmentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if rec.Status == models.EnrollmentStatusCancelled {
		return appErrors.ErrAlreadyCancelled
	}

	wasActive := rec.Status.Active()
	stamp := fmt.Sprintf("Cancellata il %s", time.Now().UTC().Format("2006-01-02T15:04:05"))
	if err := s.enrollments.UpdateStatus(enrollmentID, models.EnrollmentStatusCancelled, stamp); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel enrollment")
	}
	// Rejected records never consumed a seat, so only active ones release one.
	if wasActive {
		if err := s.exams.AdjustEnrolledCount(rec.ExamID, -1); err != nil && !errors.Is(err, repository.ErrNoRecord) {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update seat counter")
		}
	}

	s.logger.Info("enrollment cancelled",
		zap.Int64("enrollment_id", enrollmentID),
		zap.Int64("exam_id", rec.ExamID))
	return nil
}

// GetByID returns a single enrollment record.
func (s *EnrollmentService) GetByID(ctx context.Context, id int64) (*models.EnrollmentRecord, error) {
	rec, err := s.enrollments.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return rec, nil
}

// List returns filtered enrollment records sliced to the requested page.
// Point-in-time snapshot reads; no locking against concurrent mutation.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) []models.EnrollmentRecord {
	return pagination.Paginate(s.enrollments.List(filter), filter.Page, filter.Size)
}
