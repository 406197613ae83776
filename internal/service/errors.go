package service

import (
	"errors"

	"github.com/stemsi/admission-backend/internal/response"
)

// Sentinel errors shared by services.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrNotFound           = errors.New("not found")
)

// DomainError is a client-facing failure carrying the API error code. Message
// overrides the code's default text when the failure names a specific entity.
type DomainError struct {
	Code    response.ErrCode
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code)
}

// UserMessage returns the text shown to the client.
func (e *DomainError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return response.GetMessage(e.Code)
}

func newDomainError(code response.ErrCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// AsDomainError unwraps err into a *DomainError when it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code response.ErrCode) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}
