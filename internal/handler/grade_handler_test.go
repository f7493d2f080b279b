package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
	"github.com/unimol-dev/exam-sessions-api/internal/service"
)

func recordTestGrade(t *testing.T, env *handlerEnv, examID string, req service.RecordGradeRequest) {
	t.Helper()
	c, w := testContext(t, http.MethodPost, "/exams/"+examID+"/grades", req)
	c.Params = gin.Params{{Key: "id", Value: examID}}
	env.grades.Record(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestGradeHandlerRecord(t *testing.T) {
	env := newHandlerEnv(t)
	scheduleTestExam(t, env, 30)

	c, w := testContext(t, http.MethodPost, "/exams/1/grades", service.RecordGradeRequest{
		StudentID: 100, Grade: 28,
	})
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.grades.Record(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var rec models.GradeRecord
	decodeEnvelope(t, w, &rec)
	assert.Equal(t, 28, rec.Grade)
	assert.Equal(t, "Studente 100", rec.StudentName)
}

func TestGradeHandlerRecordInvalidGrade(t *testing.T) {
	env := newHandlerEnv(t)
	scheduleTestExam(t, env, 30)

	c, w := testContext(t, http.MethodPost, "/exams/1/grades", service.RecordGradeRequest{
		StudentID: 100, Grade: 17,
	})
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.grades.Record(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_GRADE", errorCode(t, w))
}

func TestGradeHandlerRecordExamNotFound(t *testing.T) {
	env := newHandlerEnv(t)

	c, w := testContext(t, http.MethodPost, "/exams/42/grades", service.RecordGradeRequest{
		StudentID: 100, Grade: 25,
	})
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	env.grades.Record(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGradeHandlerListByExamHonorsFilter(t *testing.T) {
	env := newHandlerEnv(t)
	scheduleTestExam(t, env, 30)
	recordTestGrade(t, env, "1", service.RecordGradeRequest{StudentID: 100, Grade: 28})
	recordTestGrade(t, env, "1", service.RecordGradeRequest{StudentID: 101, Grade: 30, WithHonors: true})

	c, w := testContext(t, http.MethodGet, "/exams/1/grades?withHonors=true", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.grades.ListByExam(c)

	require.Equal(t, http.StatusOK, w.Code)
	var list []models.GradeRecord
	decodeEnvelope(t, w, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].WithHonors)
}

func TestGradeHandlerCourseStatistics(t *testing.T) {
	env := newHandlerEnv(t)
	scheduleTestExam(t, env, 30)
	recordTestGrade(t, env, "1", service.RecordGradeRequest{StudentID: 100, Grade: 28})
	recordTestGrade(t, env, "1", service.RecordGradeRequest{StudentID: 101, Grade: 30, WithHonors: true})
	recordTestGrade(t, env, "1", service.RecordGradeRequest{StudentID: 102, Grade: 22})

	c, w := testContext(t, http.MethodGet, "/grades/course/1/statistics", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "1"}}
	env.grades.CourseStatistics(c)

	require.Equal(t, http.StatusOK, w.Code)
	var stats models.CourseStatistics
	decodeEnvelope(t, w, &stats)
	assert.Equal(t, 3, stats.TotalGrades)
	assert.Equal(t, 26.67, stats.AverageGrade)
	assert.Equal(t, 1, stats.Distribution["30L"])
}

func TestGradeHandlerExportCSV(t *testing.T) {
	env := newHandlerEnv(t)
	scheduleTestExam(t, env, 30)
	recordTestGrade(t, env, "1", service.RecordGradeRequest{StudentID: 100, StudentName: "Mario Rossi", Grade: 30, WithHonors: true})

	c, w := testContext(t, http.MethodGet, "/grades/course/1/export?format=csv", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "1"}}
	env.grades.ExportCourseReport(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "course-1-grades.csv")
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "Mario Rossi"))
	assert.True(t, strings.Contains(body, "30L"))
}

func TestGradeHandlerExportUnsupportedFormat(t *testing.T) {
	env := newHandlerEnv(t)
	scheduleTestExam(t, env, 30)

	c, w := testContext(t, http.MethodGet, "/grades/course/1/export?format=xml", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "1"}}
	env.grades.ExportCourseReport(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
