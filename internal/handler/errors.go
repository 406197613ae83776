package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/response"
	"github.com/stemsi/admission-backend/internal/service"
)

// respondError maps a service error onto the response envelope. Anything it
// does not recognise is logged and reported as INTERNAL_ERROR.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	if de, ok := service.AsDomainError(err); ok {
		if de.Fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, de.Code, de.Fields)
			return
		}
		response.FailWithMessage(c, domainStatus(de.Code), de.Code, de.UserMessage())
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrAccountDisabled):
		response.Fail(c, http.StatusForbidden, response.ErrAccountDisabled)
	default:
		log.Error().Err(err).
			Str("request_id", response.RequestID(c)).
			Str("path", c.FullPath()).
			Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func domainStatus(code response.ErrCode) int {
	switch code {
	case response.ErrDuplicateLink, response.ErrConflict, response.ErrEmailTaken:
		return http.StatusConflict
	case response.ErrNotFound:
		return http.StatusNotFound
	case response.ErrInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// intParam parses a positive integer path parameter.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
