package repository

import (
	"sync"
	"time"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
)

// GradeRepository is the in-memory store for grade records. The store is
// strictly append-only: no update or delete surface exists.
type GradeRepository struct {
	mu        sync.RWMutex
	nextID    int64
	grades    map[int64]*models.GradeRecord
	order     []int64
	byExam    map[int64][]int64
	byStudent map[int64][]int64
}

// NewGradeRepository constructs an empty grade store.
func NewGradeRepository() *GradeRepository {
	return &GradeRepository{
		grades:    make(map[int64]*models.GradeRecord),
		byExam:    make(map[int64][]int64),
		byStudent: make(map[int64][]int64),
	}
}

// Create stores the record, assigning its id and recording timestamp.
func (r *GradeRepository) Create(rec *models.GradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	rec.ID = r.nextID
	rec.RecordingDate = time.Now().UTC()

	stored := *rec
	r.grades[rec.ID] = &stored
	r.order = append(r.order, rec.ID)
	r.byExam[rec.ExamID] = append(r.byExam[rec.ExamID], rec.ID)
	r.byStudent[rec.StudentID] = append(r.byStudent[rec.StudentID], rec.ID)
	return nil
}

// FindByID returns a copy of the record.
func (r *GradeRepository) FindByID(id int64) (*models.GradeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.grades[id]
	if !ok {
		return nil, ErrNoRecord
	}
	copied := *rec
	return &copied, nil
}

// ListByExam returns the exam's records matching the filter in ascending id
// order.
func (r *GradeRepository) ListByExam(examID int64, filter models.GradeFilter) []models.GradeRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.GradeRecord, 0, len(r.byExam[examID]))
	for _, id := range r.byExam[examID] {
		rec := r.grades[id]
		if filter.Matches(*rec) {
			result = append(result, *rec)
		}
	}
	return result
}

// ListByStudent returns the student's records in ascending id order.
func (r *GradeRepository) ListByStudent(studentID int64) []models.GradeRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.GradeRecord, 0, len(r.byStudent[studentID]))
	for _, id := range r.byStudent[studentID] {
		result = append(result, *r.grades[id])
	}
	return result
}

// ListByExamIDs returns every record belonging to any of the given exams,
// in ascending id order. Used by the per-course statistics aggregation.
func (r *GradeRepository) ListByExamIDs(examIDs []int64) []models.GradeRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(examIDs))
	for _, id := range examIDs {
		wanted[id] = struct{}{}
	}

	var result []models.GradeRecord
	for _, id := range r.order {
		rec := r.grades[id]
		if _, ok := wanted[rec.ExamID]; ok {
			result = append(result, *rec)
		}
	}
	return result
}
