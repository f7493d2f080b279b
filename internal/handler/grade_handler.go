package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
	"github.com/unimol-dev/exam-sessions-api/internal/service"
	appErrors "github.com/unimol-dev/exam-sessions-api/pkg/errors"
	"github.com/unimol-dev/exam-sessions-api/pkg/export"
	"github.com/unimol-dev/exam-sessions-api/pkg/response"
)

// GradeHandler exposes the grade book endpoints.
type GradeHandler struct {
	grades  *service.GradeService
	metrics *service.MetricsService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService, metrics *service.MetricsService) *GradeHandler {
	return &GradeHandler{
		grades:  grades,
		metrics: metrics,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// Record godoc
// @Summary Record a grade for an exam session
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param payload body service.RecordGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Router /exams/{id}/grades [post]
func (h *GradeHandler) Record(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exam not found"))
		return
	}
	var req service.RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rec, err := h.grades.Record(c.Request.Context(), examID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveGradeRecorded()
	}
	response.Created(c, rec)
}

// Get godoc
// @Summary Grade detail
// @Tags Grades
// @Produce json
// @Param id path int true "Grade ID"
// @Success 200 {object} response.Envelope
// @Router /grades/{id} [get]
func (h *GradeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "grade not found"))
		return
	}
	rec, err := h.grades.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// ListByExam godoc
// @Summary Grades of an exam session
// @Tags Grades
// @Produce json
// @Param id path int true "Exam ID"
// @Param minGrade query int false "Minimum grade"
// @Param maxGrade query int false "Maximum grade"
// @Param withHonors query bool false "Honors only"
// @Param page query string false "Page"
// @Param size query string false "Page size"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/grades [get]
func (h *GradeHandler) ListByExam(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		response.JSON(c, http.StatusOK, []models.GradeRecord{}, nil)
		return
	}
	filter := models.GradeFilter{
		MinGrade:   queryInt(c, "minGrade"),
		MaxGrade:   queryInt(c, "maxGrade"),
		WithHonors: queryBool(c, "withHonors"),
	}
	grades := h.grades.ListByExam(c.Request.Context(), examID, filter, c.Query("page"), c.Query("size"))
	response.JSON(c, http.StatusOK, grades, nil)
}

// ListMine godoc
// @Summary Caller's own grades
// @Tags Grades
// @Produce json
// @Param courseId query int false "Filter by course"
// @Param page query string false "Page"
// @Param size query string false "Page size"
// @Success 200 {object} response.Envelope
// @Router /grades/my [get]
func (h *GradeHandler) ListMine(c *gin.Context) {
	studentID := queryInt64(c, "studentId")
	if claims := claimsFromContext(c); claims != nil {
		studentID = &claims.UserID
	}
	if studentID == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "student identity required"))
		return
	}
	grades := h.grades.ListByStudent(c.Request.Context(), *studentID, queryInt64(c, "courseId"), c.Query("page"), c.Query("size"))
	response.JSON(c, http.StatusOK, grades, nil)
}

// ListByStudent godoc
// @Summary Grades of a student
// @Tags Grades
// @Produce json
// @Param studentId path int true "Student ID"
// @Param courseId query int false "Filter by course"
// @Success 200 {object} response.Envelope
// @Router /grades/student/{studentId} [get]
func (h *GradeHandler) ListByStudent(c *gin.Context) {
	studentID, ok := pathID(c, "studentId")
	if !ok {
		response.JSON(c, http.StatusOK, []models.GradeRecord{}, nil)
		return
	}
	grades := h.grades.ListByStudent(c.Request.Context(), studentID, queryInt64(c, "courseId"), c.Query("page"), c.Query("size"))
	response.JSON(c, http.StatusOK, grades, nil)
}

// CourseStatistics godoc
// @Summary Grade statistics for a course
// @Tags Grades
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /grades/course/{courseId}/statistics [get]
func (h *GradeHandler) CourseStatistics(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "course not found"))
		return
	}
	stats, err := h.grades.CourseStatistics(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ExportCourseReport godoc
// @Summary Export a course grade report
// @Tags Grades
// @Produce text/csv,application/pdf
// @Param courseId path int true "Course ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /grades/course/{courseId}/export [get]
func (h *GradeHandler) ExportCourseReport(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "course not found"))
		return
	}
	dataset, title := h.grades.ExportCourseReport(c.Request.Context(), courseID)

	switch c.DefaultQuery("format", "csv") {
	case "pdf":
		payload, err := h.pdf.Render(dataset, title)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=course-%d-grades.pdf", courseID))
		c.Data(http.StatusOK, "application/pdf", payload)
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=course-%d-grades.csv", courseID))
		c.Data(http.StatusOK, "text/csv", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "unsupported export format"))
	}
}
