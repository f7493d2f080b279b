package models

import "time"

// Grade range accepted by the Italian university grading scale.
const (
	GradeMin = 18
	GradeMax = 30
)

// GradeRecord is an immutable, append-only evaluation outcome tied to a
// student and an exam session. EnrollmentID is optional: grades may be
// recorded for students evaluated outside the regular enrollment flow.
type GradeRecord struct {
	ID            int64     `json:"id"`
	EnrollmentID  *int64    `json:"enrollment_id,omitempty"`
	StudentID     int64     `json:"student_id"`
	StudentName   string    `json:"student_name"`
	ExamID        int64     `json:"exam_id"`
	Grade         int       `json:"grade"`
	WithHonors    bool      `json:"with_honors"`
	RecordingDate time.Time `json:"recording_date"`
	Notes         string    `json:"notes"`
	Feedback      string    `json:"feedback"`
}

// GradeFilter scopes grade listings for a single exam.
type GradeFilter struct {
	MinGrade   *int
	MaxGrade   *int
	WithHonors *bool
}

// Matches reports whether the record satisfies every set filter field.
func (f GradeFilter) Matches(g GradeRecord) bool {
	if f.MinGrade != nil && g.Grade < *f.MinGrade {
		return false
	}
	if f.MaxGrade != nil && g.Grade > *f.MaxGrade {
		return false
	}
	if f.WithHonors != nil && g.WithHonors != *f.WithHonors {
		return false
	}
	return true
}

// DistributionBuckets are the fixed grade ranges used for statistics. The
// 30L bucket is an additive overlay counting honors grades; it overlaps the
// 30 bucket by convention.
var DistributionBuckets = []string{"18-20", "21-23", "24-26", "27-29", "30", "30L"}

// CourseStatistics aggregates all grades recorded against a course's exams.
type CourseStatistics struct {
	CourseID        int64          `json:"course_id"`
	TotalGrades     int            `json:"total_grades"`
	AverageGrade    float64        `json:"average_grade"`
	MinGrade        int            `json:"min_grade"`
	MaxGrade        int            `json:"max_grade"`
	WithHonorsCount int            `json:"with_honors_count"`
	Distribution    map[string]int `json:"grade_distribution"`
}
