package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unimol-dev/exam-sessions-api/internal/models"
	"github.com/unimol-dev/exam-sessions-api/internal/service"
	appErrors "github.com/unimol-dev/exam-sessions-api/pkg/errors"
	"github.com/unimol-dev/exam-sessions-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment ledger endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics}
}

func (h *EnrollmentHandler) observe(outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveEnrollment(outcome)
	}
}

// Enroll godoc
// @Summary Enroll a student into an exam session
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param payload body service.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /exams/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exam not found"))
		return
	}
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	rec, err := h.enrollments.Enroll(c.Request.Context(), examID, req)
	if err != nil {
		h.observe(enrollOutcome(err))
		response.Error(c, err)
		return
	}
	h.observe("enrolled")
	response.Created(c, rec)
}

func enrollOutcome(err error) string {
	var appErr *appErrors.Error
	if !errors.As(err, &appErr) {
		return "error"
	}
	switch appErr.Code {
	case appErrors.ErrCapacityExceeded.Code:
		return "capacity_exceeded"
	case appErrors.ErrDuplicateEnrollment.Code:
		return "duplicate"
	case appErrors.ErrNotFound.Code:
		return "not_found"
	default:
		return "error"
	}
}

// Cancel godoc
// @Summary Cancel an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 204
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found"))
		return
	}
	if err := h.enrollments.Cancel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Get godoc
// @Summary Enrollment detail
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found"))
		return
	}
	rec, err := h.enrollments.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param examId query int false "Filter by exam"
// @Param studentId query int false "Filter by student"
// @Param status query string false "Filter by status"
// @Param page query string false "Page"
// @Param size query string false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	filter := models.EnrollmentFilter{
		ExamID:    queryInt64(c, "examId"),
		StudentID: queryInt64(c, "studentId"),
		Status:    models.EnrollmentStatus(strings.ToUpper(c.Query("status"))),
		Page:      c.Query("page"),
		Size:      c.Query("size"),
	}
	response.JSON(c, http.StatusOK, h.enrollments.List(c.Request.Context(), filter), nil)
}

// ListMine godoc
// @Summary Caller's own enrollments
// @Tags Enrollments
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query string false "Page"
// @Param size query string false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments/my [get]
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	studentID := queryInt64(c, "studentId")
	if claims := claimsFromContext(c); claims != nil {
		studentID = &claims.UserID
	}
	if studentID == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "student identity required"))
		return
	}
	filter := models.EnrollmentFilter{
		StudentID: studentID,
		Status:    models.EnrollmentStatus(strings.ToUpper(c.Query("status"))),
		Page:      c.Query("page"),
		Size:      c.Query("size"),
	}
	response.JSON(c, http.StatusOK, h.enrollments.List(c.Request.Context(), filter), nil)
}

// ListByStudent godoc
// @Summary Enrollments of a student
// @Tags Enrollments
// @Produce json
// @Param studentId path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/student/{studentId} [get]
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	studentID, ok := pathID(c, "studentId")
	if !ok {
		response.JSON(c, http.StatusOK, []models.EnrollmentRecord{}, nil)
		return
	}
	filter := models.EnrollmentFilter{
		StudentID: &studentID,
		Status:    models.EnrollmentStatus(strings.ToUpper(c.Query("status"))),
		Page:      c.Query("page"),
		Size:      c.Query("size"),
	}
	response.JSON(c, http.StatusOK, h.enrollments.List(c.Request.Context(), filter), nil)
}

// ListByExam godoc
// @Summary Enrollments of an exam session
// @Tags Enrollments
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/enrollments [get]
func (h *EnrollmentHandler) ListByExam(c *gin.Context) {
	examID, ok := pathID(c, "id")
	if !ok {
		response.JSON(c, http.StatusOK, []models.EnrollmentRecord{}, nil)
		return
	}
	filter := models.EnrollmentFilter{
		ExamID: &examID,
		Status: models.EnrollmentStatus(strings.ToUpper(c.Query("status"))),
		Page:   c.Query("page"),
		Size:   c.Query("size"),
	}
	response.JSON(c, http.StatusOK, h.enrollments.List(c.Request.Context(), filter), nil)
}
