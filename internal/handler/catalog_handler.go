package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/middleware"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
	"github.com/stemsi/admission-backend/internal/service"
	"github.com/stemsi/admission-backend/internal/validator"
)

// CatalogHandler serves the public catalog and its admin maintenance.
type CatalogHandler struct {
	catalog service.CatalogService
	log     zerolog.Logger
	now     func() time.Time
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		log:     log.With().Str("component", "catalog_handler").Logger(),
		now:     time.Now,
	}
}

// ListUniversities godoc
// GET /api/v1/catalog/universities
func (h *CatalogHandler) ListUniversities(c *gin.Context) {
	list, err := h.catalog.ListUniversities(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"universities": list})
}

// ListMajors godoc
// GET /api/v1/catalog/universities/:id/majors
func (h *CatalogHandler) ListMajors(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	list, err := h.catalog.ListMajors(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"majors": list})
}

// ListAdmissionMethods godoc
// GET /api/v1/catalog/admission-methods
func (h *CatalogHandler) ListAdmissionMethods(c *gin.Context) {
	list, err := h.catalog.ListAdmissionMethods(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"admission_methods": list})
}

// ListSubjectGroups godoc
// GET /api/v1/catalog/subject-groups
func (h *CatalogHandler) ListSubjectGroups(c *gin.Context) {
	list, err := h.catalog.ListSubjectGroups(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject_groups": list})
}

// ListCombinations godoc
// GET /api/v1/catalog/majors/:id/combinations?year=
// Lists the active (method, subject group) pairs accepted for a major.
// The year defaults to the current one.
func (h *CatalogHandler) ListCombinations(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	year, ok := h.yearQuery(c)
	if !ok {
		return
	}

	list, err := h.catalog.ListCombinations(c.Request.Context(), id, year)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"year": year, "combinations": list})
}

// ListLinks godoc
// GET /api/v1/admin/eligibility-links?major_id=&admission_method_id=&year=&active_only=
func (h *CatalogHandler) ListLinks(c *gin.Context) {
	majorID, _ := strconv.Atoi(c.Query("major_id"))
	methodID, _ := strconv.Atoi(c.Query("admission_method_id"))
	year, _ := strconv.Atoi(c.Query("year"))
	activeOnly, _ := strconv.ParseBool(c.Query("active_only"))

	list, err := h.catalog.ListLinks(c.Request.Context(), model.EligibilityLinkFilter{
		MajorID:           majorID,
		AdmissionMethodID: methodID,
		Year:              year,
		ActiveOnly:        activeOnly,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"links": list})
}

// CreateLink godoc
// POST /api/v1/admin/eligibility-links
func (h *CatalogHandler) CreateLink(c *gin.Context) {
	var req model.EligibilityLinkRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	link, err := h.catalog.CreateLink(c.Request.Context(), req, middleware.GetClaims(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"link": link})
}

// UpdateLink godoc
// PUT /api/v1/admin/eligibility-links/:id
func (h *CatalogHandler) UpdateLink(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req model.EligibilityLinkRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	link, err := h.catalog.UpdateLink(c.Request.Context(), id, req, middleware.GetClaims(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"link": link})
}

// SetActive godoc
// PATCH /api/v1/admin/catalog/:kind/:id/active
// Shows or hides a catalog entity without deleting it.
func (h *CatalogHandler) SetActive(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req model.SetActiveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	kind := model.CatalogKind(c.Param("kind"))
	if err := h.catalog.SetActive(c.Request.Context(), kind, id, *req.IsActive, middleware.GetClaims(c).UserID); err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kind": kind, "id": id, "is_active": *req.IsActive})
}

func (h *CatalogHandler) yearQuery(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return h.now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"year": "year must be between 2000 and 2100",
		})
		return 0, false
	}
	return year, true
}
