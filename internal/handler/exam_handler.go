package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
	"github.com/unimol-dev/exam-sessions-api/internal/service"
	appErrors "github.com/unimol-dev/exam-sessions-api/pkg/errors"
	"github.com/unimol-dev/exam-sessions-api/pkg/response"
)

// ExamHandler exposes the exam catalog endpoints.
type ExamHandler struct {
	exams *service.ExamService
}

// NewExamHandler constructs ExamHandler.
func NewExamHandler(exams *service.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

func examFilterFromQuery(c *gin.Context) models.ExamFilter {
	return models.ExamFilter{
		CourseID:  queryInt64(c, "courseId"),
		TeacherID: queryInt64(c, "teacherId"),
		DateFrom:  c.Query("startDate"),
		DateTo:    c.Query("endDate"),
	}
}

// Create godoc
// @Summary Schedule exam session
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body service.ScheduleExamRequest true "Exam payload"
// @Success 201 {object} response.Envelope
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	var req service.ScheduleExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	exam, err := h.exams.Schedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// List godoc
// @Summary List exam sessions
// @Tags Exams
// @Produce json
// @Param courseId query int false "Filter by course"
// @Param teacherId query int false "Filter by teacher"
// @Param startDate query string false "Earliest exam date (YYYY-MM-DD)"
// @Param endDate query string false "Latest exam date (YYYY-MM-DD)"
// @Param status query string false "Filter by status"
// @Param page query string false "Page"
// @Param size query string false "Page size"
// @Success 200 {object} response.Envelope
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	status := strings.ToUpper(c.Query("status"))
	exams := h.exams.List(c.Request.Context(), examFilterFromQuery(c), status, c.Query("page"), c.Query("size"))
	response.JSON(c, http.StatusOK, exams, nil)
}

// Get godoc
// @Summary Exam session detail
// @Tags Exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id} [get]
func (h *ExamHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exam not found"))
		return
	}
	exam, err := h.exams.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam, nil)
}

// Exists godoc
// @Summary Exam existence probe
// @Tags Exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/exists [get]
func (h *ExamHandler) Exists(c *gin.Context) {
	id, _ := pathID(c, "id")
	response.JSON(c, http.StatusOK, h.exams.Existence(c.Request.Context(), id), nil)
}

// Info godoc
// @Summary Essential exam info for integrations
// @Tags Exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/info [get]
func (h *ExamHandler) Info(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exam not found"))
		return
	}
	info, err := h.exams.Info(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// ByCourse godoc
// @Summary Exam sessions for a course
// @Tags Exams
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /exams/course/{courseId} [get]
func (h *ExamHandler) ByCourse(c *gin.Context) {
	courseID, ok := pathID(c, "courseId")
	if !ok {
		response.JSON(c, http.StatusOK, []models.ExamSession{}, nil)
		return
	}
	response.JSON(c, http.StatusOK, h.exams.ListByCourse(c.Request.Context(), courseID), nil)
}

// ByTeacher godoc
// @Summary Exam sessions held by a teacher
// @Tags Exams
// @Produce json
// @Param teacherId path int true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /exams/teacher/{teacherId} [get]
func (h *ExamHandler) ByTeacher(c *gin.Context) {
	teacherID, ok := pathID(c, "teacherId")
	if !ok {
		response.JSON(c, http.StatusOK, []models.ExamSession{}, nil)
		return
	}
	response.JSON(c, http.StatusOK, h.exams.ListByTeacher(c.Request.Context(), teacherID), nil)
}

// Calendar godoc
// @Summary Public exam calendar
// @Tags Exams
// @Produce json
// @Param courseId query int false "Filter by course"
// @Param teacherId query int false "Filter by teacher"
// @Param startDate query string false "Earliest exam date"
// @Param endDate query string false "Latest exam date"
// @Success 200 {object} response.Envelope
// @Router /exams/calendar [get]
func (h *ExamHandler) Calendar(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.exams.Calendar(c.Request.Context(), examFilterFromQuery(c)), nil)
}

// Available godoc
// @Summary Exam sessions open for enrollment
// @Tags Exams
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /exams/available [get]
func (h *ExamHandler) Available(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.exams.Available(c.Request.Context(), examFilterFromQuery(c)), nil)
}

// UpdateStatus godoc
// @Summary Transition exam session status
// @Tags Exams
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param payload body service.UpdateExamStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/status [patch]
func (h *ExamHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exam not found"))
		return
	}
	var req service.UpdateExamStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	exam, err := h.exams.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam, nil)
}
