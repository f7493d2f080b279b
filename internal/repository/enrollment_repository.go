package repository

import (
	"sync"
	"time"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
)

// EnrollmentRepository is the in-memory store for enrollment records with
// secondary indexes by exam and by student. Records are append-only except
// for status and adminNotes updates; nothing is ever removed.
type EnrollmentRepository struct {
	mu          sync.RWMutex
	nextID      int64
	enrollments map[int64]*models.EnrollmentRecord
	order       []int64
	byExam      map[int64][]int64
	byStudent   map[int64][]int64
}

// NewEnrollmentRepository constructs an empty enrollment store.
func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{
		enrollments: make(map[int64]*models.EnrollmentRecord),
		byExam:      make(map[int64][]int64),
		byStudent:   make(map[int64][]int64),
	}
}

// Create stores the record, assigning its id and enrollment timestamp.
func (r *EnrollmentRepository) Create(rec *models.EnrollmentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec.ID = r.nextID
	rec.EnrollmentDate = time.Now().UTC()

	stored := *rec
	r.enrollments[rec.ID] = &stored
	r.order = append(r.order, rec.ID)
	r.byExam[rec.ExamID] = append(r.byExam[rec.ExamID], rec.ID)
	r.byStudent[rec.StudentID] = append(r.byStudent[rec.StudentID], rec.ID)
	return nil
}

// FindByID returns a copy of the record.
func (r *EnrollmentRepository) FindByID(id int64) (*models.EnrollmentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.enrollments[id]
	if !ok {
		return nil, ErrNoRecord
	}
	copied := *rec
	return &copied, nil
}

// HasActive reports whether an ENROLLED or CONFIRMED record exists for the
// (exam, student) pair.
func (r *EnrollmentRepository) HasActive(examID, studentID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.byExam[examID] {
		rec := r.enrollments[id]
		if rec.StudentID == studentID && rec.Status.Active() {
			return true
		}
	}
	return false
}

// List returns records matching the filter in ascending id order. Status
// filtering is left to the caller's paginator helper when the filter status
// is empty.
func (r *EnrollmentRepository) List(filter models.EnrollmentFilter) []models.EnrollmentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.order
	switch {
	case filter.ExamID != nil:
		ids = r.byExam[*filter.ExamID]
	case filter.StudentID != nil:
		ids = r.byStudent[*filter.StudentID]
	}

	result := make([]models.EnrollmentRecord, 0, len(ids))
	for _, id := range ids {
		rec := r.enrollments[id]
		if filter.ExamID != nil && rec.ExamID != *filter.ExamID {
			continue
		}
		if filter.StudentID != nil && rec.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		result = append(result, *rec)
	}
	return result
}

// UpdateStatus overwrites the record's status and admin notes.
func (r *EnrollmentRepository) UpdateStatus(id int64, status models.EnrollmentStatus, adminNotes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.enrollments[id]
	if !ok {
		return ErrNoRecord
	}
	rec.Status = status
	rec.AdminNotes = adminNotes
	return nil
}
