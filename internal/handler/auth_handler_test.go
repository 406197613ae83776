package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
	"github.com/stemsi/admission-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCandidate(t *testing.T) {
	body := map[string]string{
		"full_name": "Nguyễn Văn An",
		"email":     "an.nguyen@example.com",
		"password":  "matkhau123",
	}

	t.Run("created", func(t *testing.T) {
		h := NewAuthHandler(&stubAuth{user: &model.User{ID: 7, Email: body["email"], Role: model.RoleCandidate}}, nopLog)
		r := newRouter(nil)
		r.POST("/auth/candidate/register", h.RegisterCandidate)

		w := doJSON(r, http.MethodPost, "/auth/candidate/register", body)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("email taken", func(t *testing.T) {
		h := NewAuthHandler(&stubAuth{err: fmt.Errorf("create user: %w", service.ErrEmailTaken)}, nopLog)
		r := newRouter(nil)
		r.POST("/auth/candidate/register", h.RegisterCandidate)

		w := doJSON(r, http.MethodPost, "/auth/candidate/register", body)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, response.ErrEmailTaken, decode(t, w).Error.Code)
	})

	t.Run("short password", func(t *testing.T) {
		h := NewAuthHandler(&stubAuth{}, nopLog)
		r := newRouter(nil)
		r.POST("/auth/candidate/register", h.RegisterCandidate)

		w := doJSON(r, http.MethodPost, "/auth/candidate/register", map[string]string{
			"full_name": "An", "email": "an@example.com", "password": "123",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w).Error.Fields, "password")
	})
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuth{err: service.ErrInvalidCredentials}, nopLog)
	r := newRouter(nil)
	r.POST("/auth/login", h.Login)

	w := doJSON(r, http.MethodPost, "/auth/login", map[string]string{"email": "an@example.com", "password": "wrongpass"})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrInvalidCredentials, decode(t, w).Error.Code)
}

func TestLogout_RevokesPresentedClaims(t *testing.T) {
	auth := &stubAuth{}
	h := NewAuthHandler(auth, nopLog)
	r := newRouter(candidateClaims())
	r.POST("/auth/logout", h.Logout)

	w := doJSON(r, http.MethodPost, "/auth/logout", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, auth.loggedOut)
	assert.Equal(t, "jti-candidate", auth.loggedOut.ID)
}

func TestMe_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, nopLog)
	r := newRouter(nil)
	r.GET("/auth/me", h.Me)

	w := doJSON(r, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
