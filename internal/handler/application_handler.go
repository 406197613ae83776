package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/middleware"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
	"github.com/stemsi/admission-backend/internal/service"
	"github.com/stemsi/admission-backend/internal/validator"
)

const submittedMessage = "Nộp hồ sơ xét tuyển thành công."

// ApplicationHandler serves the candidate side of applications.
type ApplicationHandler struct {
	submissions  Submitter
	applications ApplicationReader
	log          zerolog.Logger
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(submissions Submitter, applications ApplicationReader, log zerolog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		submissions:  submissions,
		applications: applications,
		log:          log.With().Str("component", "application_handler").Logger(),
	}
}

// Submit godoc
// POST /api/v1/candidate/applications
// Reconciles the candidate profile, validates the chosen combination and
// documents, then records a pending application.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitApplicationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	app, err := h.submissions.Submit(c.Request.Context(), service.Candidate{
		ID:    claims.UserID,
		Email: claims.Email,
	}, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, submittedMessage, app)
}

// ListMine godoc
// GET /api/v1/candidate/applications
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	apps, err := h.applications.ListForCandidate(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"applications": apps})
}

// GetMine godoc
// GET /api/v1/candidate/applications/:id
// Applications of other candidates are reported as not found.
func (h *ApplicationHandler) GetMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	app, err := h.applications.GetForCandidate(c.Request.Context(), claims.UserID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": app})
}
