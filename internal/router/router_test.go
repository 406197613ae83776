package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/handler"
	"github.com/stemsi/admission-backend/internal/metrics"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/service"
	"github.com/stretchr/testify/assert"
)

type tokens map[string]*service.Claims

func (t tokens) ValidateToken(tokenStr string) (*service.Claims, error) {
	if c, ok := t[tokenStr]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

func (t tokens) IsRevoked(context.Context, string) (bool, error) { return false, nil }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type okRedis struct{}

func (okRedis) Ping(context.Context) *redis.StatusCmd      { return redis.NewStatusResult("PONG", nil) }
func (okRedis) LLen(context.Context, string) *redis.IntCmd { return redis.NewIntResult(0, nil) }

func testRouter() *gin.Engine {
	log := zerolog.Nop()
	auth := tokens{
		"candidate": {RegisteredClaims: jwt.RegisteredClaims{ID: "c"}, UserID: 7, Role: model.RoleCandidate},
		"admin":     {RegisteredClaims: jwt.RegisteredClaims{ID: "a"}, UserID: 1, Role: model.RoleAdmin},
	}
	handlers := &Handlers{
		Auth:             handler.NewAuthHandler(nil, log),
		Catalog:          handler.NewCatalogHandler(nil, log),
		Application:      handler.NewApplicationHandler(nil, nil, log),
		AdminApplication: handler.NewAdminApplicationHandler(nil, log),
		Document:         handler.NewDocumentHandler(nil, log),
		Profile:          handler.NewProfileHandler(nil, log),
		Notification:     handler.NewNotificationHandler(nil, log),
		WS:               handler.NewWSHandler(nil, nil, log, nil),
		Health:           handler.NewHealthHandler(okPinger{}, okRedis{}, log),
	}
	return SetupRouter(handlers, Deps{
		Auth:    auth,
		Metrics: metrics.New(prometheus.NewRegistry()),
		Log:     log,
	}, &config.Config{GinMode: gin.TestMode})
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_AccessControl(t *testing.T) {
	r := testRouter()

	cases := []struct {
		method, path, token string
		want                int
	}{
		{http.MethodPost, "/api/v1/candidate/applications", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/v1/candidate/applications", "admin", http.StatusForbidden},
		{http.MethodGet, "/api/v1/admin/applications", "candidate", http.StatusForbidden},
		{http.MethodPatch, "/api/v1/admin/catalog/majors/1/active", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/notifications", "", http.StatusUnauthorized},
		{http.MethodGet, "/ws/v1/notifications", "", http.StatusUnauthorized},
		{http.MethodGet, "/health", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path+" as "+tc.token, func(t *testing.T) {
			assert.Equal(t, tc.want, serve(r, tc.method, tc.path, tc.token).Code)
		})
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	r := testRouter()
	serve(r, http.MethodGet, "/health", "")

	w := serve(r, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "admission_http_request_duration_seconds"), w.Body.String())
}
