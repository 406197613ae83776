package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/middleware"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
	"github.com/stemsi/admission-backend/internal/service"
	"github.com/stemsi/admission-backend/internal/validator"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

var nopLog = zerolog.Nop()

func candidateClaims() *service.Claims {
	return &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-candidate"},
		UserID:           7,
		Email:            "an.nguyen@example.com",
		Role:             model.RoleCandidate,
	}
}

func adminClaims() *service.Claims {
	return &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-admin"},
		UserID:           1,
		Email:            "admin@example.com",
		Role:             model.RoleAdmin,
	}
}

// newRouter returns an engine that authenticates every request as claims.
func newRouter(claims *service.Claims) *gin.Engine {
	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	if claims != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextKeyClaims, claims)
			c.Next()
		})
	}
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Data       json.RawMessage      `json:"data"`
	Error      *response.ErrorBody  `json:"error"`
	Pagination *response.Pagination `json:"pagination"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// ─── Stubs ──────────────────────────────────────────────────────────────────

type stubSubmitter struct {
	app       *model.Application
	err       error
	candidate service.Candidate
	req       *model.SubmitApplicationRequest
	calls     int
}

func (s *stubSubmitter) Submit(_ context.Context, candidate service.Candidate, req *model.SubmitApplicationRequest) (*model.Application, error) {
	s.calls++
	s.candidate = candidate
	s.req = req
	return s.app, s.err
}

type stubApplications struct {
	apps      []model.Application
	app       *model.Application
	total     int
	err       error
	filter    model.ApplicationFilter
	page      int
	perPage   int
	statusReq model.UpdateApplicationStatusRequest
	adminID   int
}

func (s *stubApplications) ListForCandidate(context.Context, int) ([]model.Application, error) {
	return s.apps, s.err
}

func (s *stubApplications) GetForCandidate(context.Context, int, uuid.UUID) (*model.Application, error) {
	return s.app, s.err
}

func (s *stubApplications) Get(context.Context, uuid.UUID) (*model.Application, error) {
	return s.app, s.err
}

func (s *stubApplications) List(_ context.Context, filter model.ApplicationFilter, page, perPage int) ([]model.Application, int, error) {
	s.filter, s.page, s.perPage = filter, page, perPage
	return s.apps, s.total, s.err
}

func (s *stubApplications) UpdateStatus(_ context.Context, _ uuid.UUID, req model.UpdateApplicationStatusRequest, adminID int) (*model.Application, error) {
	s.statusReq, s.adminID = req, adminID
	return s.app, s.err
}

type stubAuth struct {
	user      *model.User
	login     *model.LoginResponse
	err       error
	loggedOut *service.Claims
}

func (s *stubAuth) RegisterCandidate(context.Context, model.RegisterRequest) (*model.User, error) {
	return s.user, s.err
}

func (s *stubAuth) Login(context.Context, string, string) (*model.LoginResponse, error) {
	return s.login, s.err
}

func (s *stubAuth) Logout(_ context.Context, claims *service.Claims) error {
	s.loggedOut = claims
	return s.err
}

func (s *stubAuth) Me(context.Context, int) (*model.User, error) {
	return s.user, s.err
}

type stubDocuments struct {
	doc      *model.DocumentProof
	err      error
	docType  model.DocumentType
	filename string
}

func (s *stubDocuments) Upload(_ context.Context, _ int, docType model.DocumentType, _ multipart.File, header *multipart.FileHeader) (*model.DocumentProof, error) {
	s.docType = docType
	s.filename = header.Filename
	return s.doc, s.err
}

func (s *stubDocuments) List(context.Context, int) ([]model.DocumentProof, error) {
	return nil, s.err
}

type stubNotifications struct {
	list  []model.Notification
	total int
	err   error
	read  []int64
}

func (s *stubNotifications) List(context.Context, int, bool, int, int) ([]model.Notification, int, error) {
	return s.list, s.total, s.err
}

func (s *stubNotifications) MarkRead(_ context.Context, _ int, id int64) error {
	s.read = append(s.read, id)
	return s.err
}

func (s *stubNotifications) MarkAllRead(context.Context, int) (int64, error) {
	return int64(len(s.list)), s.err
}

type stubCatalog struct {
	service.CatalogService
	combinationsYear int
	link             *model.EligibilityLink
	err              error
	activeKind       model.CatalogKind
}

func (s *stubCatalog) ListCombinations(_ context.Context, _ int, year int) ([]model.EligibilityLinkView, error) {
	s.combinationsYear = year
	return []model.EligibilityLinkView{}, s.err
}

func (s *stubCatalog) CreateLink(context.Context, model.EligibilityLinkRequest, int) (*model.EligibilityLink, error) {
	return s.link, s.err
}

func (s *stubCatalog) SetActive(_ context.Context, kind model.CatalogKind, _ int, _ bool, _ int) error {
	s.activeKind = kind
	return s.err
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubRedisChecker struct {
	pingErr error
	queued  int64
}

func (s stubRedisChecker) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", s.pingErr)
}

func (s stubRedisChecker) LLen(context.Context, string) *redis.IntCmd {
	return redis.NewIntResult(s.queued, nil)
}
