package models

import "time"

// ExamStatus represents the lifecycle of an exam session.
type ExamStatus string

// Possible exam session statuses.
const (
	ExamStatusScheduled ExamStatus = "SCHEDULED"
	ExamStatusActive    ExamStatus = "ACTIVE"
	ExamStatusCompleted ExamStatus = "COMPLETED"
	ExamStatusCancelled ExamStatus = "CANCELLED"
)

// ExamSession is a scheduled examination event with bounded seat capacity.
// Course and teacher display fields are denormalized copies captured at
// creation time; the catalog service never re-synchronizes them.
// EnrolledCount is mutated only through the enrollment ledger.
type ExamSession struct {
	ID            int64      `json:"id"`
	CourseID      int64      `json:"course_id"`
	CourseName    string     `json:"course_name"`
	TeacherID     int64      `json:"teacher_id"`
	TeacherName   string     `json:"teacher_name"`
	Date          string     `json:"exam_date"`
	Time          string     `json:"exam_time"`
	Location      string     `json:"location"`
	Status        ExamStatus `json:"status"`
	Capacity      int        `json:"capacity"`
	EnrolledCount int        `json:"enrolled_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AvailableSlots returns the remaining seat count.
func (e ExamSession) AvailableSlots() int {
	return e.Capacity - e.EnrolledCount
}

// ExamFilter provides conjunctive filters for exam listings. Date bounds
// compare lexicographically against the YYYY-MM-DD exam date.
type ExamFilter struct {
	CourseID  *int64
	TeacherID *int64
	DateFrom  string
	DateTo    string
}

// Matches reports whether the session satisfies every set filter field.
func (f ExamFilter) Matches(e ExamSession) bool {
	if f.CourseID != nil && e.CourseID != *f.CourseID {
		return false
	}
	if f.TeacherID != nil && e.TeacherID != *f.TeacherID {
		return false
	}
	if f.DateFrom != "" && e.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && e.Date > f.DateTo {
		return false
	}
	return true
}

// ExamCalendarItem is the public calendar projection of an exam session.
type ExamCalendarItem struct {
	ExamID         int64      `json:"exam_id"`
	CourseCode     string     `json:"course_code"`
	CourseName     string     `json:"course_name"`
	TeacherName    string     `json:"teacher_name"`
	Date           string     `json:"exam_date"`
	Time           string     `json:"exam_time"`
	Location       string     `json:"location"`
	AvailableSlots int        `json:"available_slots"`
	Status         ExamStatus `json:"status"`
}

// ExamInfo is the trimmed integration view served to sibling services.
type ExamInfo struct {
	ID          int64      `json:"id"`
	CourseID    int64      `json:"course_id"`
	CourseName  string     `json:"course_name"`
	TeacherID   int64      `json:"teacher_id"`
	TeacherName string     `json:"teacher_name"`
	Date        string     `json:"exam_date"`
	Time        string     `json:"exam_time"`
	Status      ExamStatus `json:"status"`
}

// ExamExistence is the payload of the existence probe; ExamInfo is nil when
// the session does not exist.
type ExamExistence struct {
	Exists   bool      `json:"exists"`
	ExamID   int64     `json:"exam_id"`
	ExamInfo *ExamInfo `json:"exam_info,omitempty"`
}
