package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
)

// ErrNoRecord is returned by lookups that resolve nothing. Services map it
// to the caller-facing NOT_FOUND taxonomy.
var ErrNoRecord = errors.New("record not found")

// ErrCounterOutOfRange signals an enrolled-count adjustment that would
// violate 0 <= enrolledCount <= capacity.
var ErrCounterOutOfRange = errors.New("enrolled count adjustment out of range")

// ExamRepository is the in-memory store for exam sessions. IDs are assigned
// from a monotonically increasing counter; listing order is ascending id,
// which equals insertion order.
type ExamRepository struct {
	mu     sync.RWMutex
	nextID int64
	exams  map[int64]*models.ExamSession
	order  []int64
}

// NewExamRepository constructs an empty exam store.
func NewExamRepository() *ExamRepository {
	return &ExamRepository{exams: make(map[int64]*models.ExamSession)}
}

// Create stores the session, assigning its id, creation timestamp, initial
// status and a zero enrolled count.
func (r *ExamRepository) Create(exam *models.ExamSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	exam.ID = r.nextID
	exam.Status = models.ExamStatusScheduled
	exam.EnrolledCount = 0
	exam.CreatedAt = time.Now().UTC()

	stored := *exam
	r.exams[exam.ID] = &stored
	r.order = append(r.order, exam.ID)
	return nil
}

// FindByID returns a copy of the session.
func (r *ExamRepository) FindByID(id int64) (*models.ExamSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exam, ok := r.exams[id]
	if !ok {
		return nil, ErrNoRecord
	}
	copied := *exam
	return &copied, nil
}

// Exists reports whether the session id resolves.
func (r *ExamRepository) Exists(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.exams[id]
	return ok
}

// List returns sessions matching the filter in ascending id order.
func (r *ExamRepository) List(filter models.ExamFilter) []models.ExamSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.ExamSession, 0, len(r.order))
	for _, id := range r.order {
		exam := r.exams[id]
		if filter.Matches(*exam) {
			result = append(result, *exam)
		}
	}
	return result
}

// UpdateStatus overwrites the session status.
func (r *ExamRepository) UpdateStatus(id int64, status models.ExamStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exam, ok := r.exams[id]
	if !ok {
		return ErrNoRecord
	}
	exam.Status = status
	return nil
}

// AdjustEnrolledCount applies delta to the session's live counter. The
// resulting value must stay within [0, capacity]; violations leave the
// counter untouched.
func (r *ExamRepository) AdjustEnrolledCount(id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exam, ok := r.exams[id]
	if !ok {
		return ErrNoRecord
	}
	next := exam.EnrolledCount + delta
	if next < 0 || next > exam.Capacity {
		return ErrCounterOutOfRange
	}
	exam.EnrolledCount = next
	return nil
}
