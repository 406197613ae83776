package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/middleware"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
	"github.com/stemsi/admission-backend/internal/validator"
)

// AdminApplicationHandler lets administrators review and adjudicate applications.
type AdminApplicationHandler struct {
	applications ApplicationReader
	log          zerolog.Logger
}

// NewAdminApplicationHandler creates a new AdminApplicationHandler.
func NewAdminApplicationHandler(applications ApplicationReader, log zerolog.Logger) *AdminApplicationHandler {
	return &AdminApplicationHandler{
		applications: applications,
		log:          log.With().Str("component", "admin_application_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/admin/applications?status=&university_id=&year=&page=&per_page=
func (h *AdminApplicationHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	page, perPage = response.NormalizePage(page, perPage)
	universityID, _ := strconv.Atoi(c.Query("university_id"))
	year, _ := strconv.Atoi(c.Query("year"))

	filter := model.ApplicationFilter{
		Status:       model.ApplicationStatus(c.Query("status")),
		UniversityID: universityID,
		Year:         year,
	}

	apps, total, err := h.applications.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"applications": apps}, response.NewPagination(page, perPage, total))
}

// Get godoc
// GET /api/v1/admin/applications/:id
func (h *AdminApplicationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	app, err := h.applications.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": app})
}

// UpdateStatus godoc
// PATCH /api/v1/admin/applications/:id/status
// Any status of the enum may be set; the candidate is notified afterwards.
func (h *AdminApplicationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateApplicationStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	app, err := h.applications.UpdateStatus(c.Request.Context(), id, req, middleware.GetClaims(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": app})
}
