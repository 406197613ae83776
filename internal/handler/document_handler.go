package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/middleware"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
	"github.com/stemsi/admission-backend/internal/service"
)

// DocumentHandler handles candidate proof uploads.
type DocumentHandler struct {
	documents DocumentUploader
	log       zerolog.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documents DocumentUploader, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		log:       log.With().Str("component", "document_handler").Logger(),
	}
}

// Upload godoc
// POST /api/v1/candidate/documents
// Multipart form: file, document_type. Returns the stored proof whose id can
// be attached to a submission.
func (h *DocumentHandler) Upload(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	docType := model.DocumentType(c.PostForm("document_type"))
	doc, err := h.documents.Upload(c.Request.Context(), claims.UserID, docType, file, header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		case errors.Is(err, service.ErrInvalidDocumentType):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"document_type": "document_type must be one of [transcript id_card certificate priority_proof other]",
			})
		default:
			respondError(c, h.log, err)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"document": doc})
}

// List godoc
// GET /api/v1/candidate/documents
func (h *DocumentHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	docs, err := h.documents.List(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"documents": docs})
}
