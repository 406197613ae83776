package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/middleware"
	"github.com/stemsi/admission-backend/internal/response"
)

// ProfileHandler exposes the living candidate profile. It is written only
// through submissions.
type ProfileHandler struct {
	profiles ProfileReader
	log      zerolog.Logger
}

func NewProfileHandler(profiles ProfileReader, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		log:      log.With().Str("component", "profile_handler").Logger(),
	}
}

// GetMine godoc
// GET /api/v1/candidate/profile
func (h *ProfileHandler) GetMine(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.profiles.GetByCandidate(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}
