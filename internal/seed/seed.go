// Package seed loads a small demo dataset for development environments.
// It drives the regular service layer so seeded state obeys the same
// invariants as API traffic.
package seed

import (
	"context"

	"go.uber.org/zap"

	"github.com/unimol-dev/exam-sessions-api/internal/service"
)

// Load populates the stores with a handful of exams, enrollments and
// grades mirroring the fixtures served by the legacy stub service.
func Load(ctx context.Context, exams *service.ExamService, enrollments *service.EnrollmentService, grades *service.GradeService, logger *zap.Logger) error {
	sessions := []service.ScheduleExamRequest{
		{CourseID: 101, CourseName: "Microservizi e Architetture Distribuite", TeacherID: 201, TeacherName: "Prof. Marco Rossi", ExamDate: "2024-07-15", ExamTime: "09:00:00", Location: "Aula Magna A", Capacity: 50},
		{CourseID: 102, CourseName: "Basi di Dati Avanzate", TeacherID: 202, TeacherName: "Prof.ssa Anna Bianchi", ExamDate: "2024-07-18", ExamTime: "14:30:00", Location: "Lab. Informatica B", Capacity: 30},
		{CourseID: 101, CourseName: "Microservizi e Architetture Distribuite", TeacherID: 201, TeacherName: "Prof. Marco Rossi", ExamDate: "2024-06-20", ExamTime: "10:00:00", Location: "Aula 3", Capacity: 40},
		{CourseID: 103, CourseName: "Ingegneria del Software", TeacherID: 203, TeacherName: "Prof. Luigi Verdi", ExamDate: "2024-08-10", ExamTime: "15:00:00", Location: "Aula 5", Capacity: 35},
	}
	examIDs := make([]int64, 0, len(sessions))
	for _, req := range sessions {
		exam, err := exams.Schedule(ctx, req)
		if err != nil {
			return err
		}
		examIDs = append(examIDs, exam.ID)
	}

	registrations := []struct {
		exam    int
		req     service.EnrollRequest
		cancels bool
	}{
		{0, service.EnrollRequest{StudentID: 301, StudentName: "Mario Rossi", Notes: "Prima iscrizione"}, false},
		{0, service.EnrollRequest{StudentID: 302, StudentName: "Giulia Bianchi"}, false},
		{1, service.EnrollRequest{StudentID: 301, StudentName: "Mario Rossi", Notes: "Seconda sessione"}, false},
		{2, service.EnrollRequest{StudentID: 303, StudentName: "Luca Verde"}, false},
		{0, service.EnrollRequest{StudentID: 304, StudentName: "Sara Neri", Notes: "Annullata per malattia"}, true},
	}
	for _, reg := range registrations {
		rec, err := enrollments.Enroll(ctx, examIDs[reg.exam], reg.req)
		if err != nil {
			return err
		}
		if reg.cancels {
			if err := enrollments.Cancel(ctx, rec.ID); err != nil {
				return err
			}
		}
	}

	completedExam := examIDs[2]
	results := []service.RecordGradeRequest{
		{StudentID: 303, StudentName: "Luca Verde", Grade: 28, Notes: "Ottima preparazione teorica", Feedback: "Molto bene sugli aspetti teorici, migliorare la parte pratica"},
		{StudentID: 305, StudentName: "Elena Gialli", Grade: 30, WithHonors: true, Notes: "Eccellente in tutti gli aspetti", Feedback: "Preparazione completa e approfondita, continuare cosi"},
	}
	for _, req := range results {
		if _, err := grades.Record(ctx, completedExam, req); err != nil {
			return err
		}
	}

	logger.Info("demo fixtures loaded",
		zap.Int("exams", len(sessions)),
		zap.Int("enrollments", len(registrations)),
		zap.Int("grades", len(results)))
	return nil
}
