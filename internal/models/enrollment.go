package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses. ENROLLED and CONFIRMED occupy a capacity
// unit; CANCELLED and REJECTED do not.
const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentStatusConfirmed EnrollmentStatus = "CONFIRMED"
	EnrollmentStatusCancelled EnrollmentStatus = "CANCELLED"
	EnrollmentStatusRejected  EnrollmentStatus = "REJECTED"
)

// Active reports whether the status counts toward exam capacity.
func (s EnrollmentStatus) Active() bool {
	return s == EnrollmentStatusEnrolled || s == EnrollmentStatusConfirmed
}

// EnrollmentRecord captures a student's registration against an exam
// session. Records are never deleted; cancellation is a terminal status
// transition.
type EnrollmentRecord struct {
	ID             int64            `json:"id"`
	ExamID         int64            `json:"exam_id"`
	StudentID      int64            `json:"student_id"`
	StudentName    string           `json:"student_name"`
	Status         EnrollmentStatus `json:"status"`
	EnrollmentDate time.Time        `json:"enrollment_date"`
	Notes          string           `json:"notes"`
	AdminNotes     string           `json:"admin_notes"`
}

// EnrollmentFilter provides filters for enrollment listings. Page and Size
// are raw query strings handed to the permissive paginator.
type EnrollmentFilter struct {
	ExamID    *int64
	StudentID *int64
	Status    EnrollmentStatus
	Page      string
	Size      string
}
