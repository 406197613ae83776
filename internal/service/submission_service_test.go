package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/metrics"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

type SubmissionSuite struct {
	suite.Suite

	catalog  *fakeCatalog
	choice   model.ApplicationChoice
	profiles *fakeProfiles
	apps     *fakeApplications
	docs     *fakeDocuments
	notifier *recordingNotifier
	metrics  *metrics.Metrics

	candidate Candidate
	svc       *SubmissionService
}

func TestSubmissionSuite(t *testing.T) {
	suite.Run(t, new(SubmissionSuite))
}

func (s *SubmissionSuite) SetupTest() {
	s.catalog, s.choice = seedBKA()
	s.profiles = newFakeProfiles()
	s.apps = &fakeApplications{}
	s.docs = newFakeDocuments()
	s.notifier = &recordingNotifier{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.candidate = Candidate{ID: 7, Email: "an.nguyen@example.com"}
	s.svc = s.newService(false)
}

func (s *SubmissionSuite) newService(validateFirst bool) *SubmissionService {
	svc := NewSubmissionService(NewProfileService(s.profiles), s.catalog.eligibility(), s.apps, s.docs,
		s.notifier, s.metrics, zerolog.Nop(), validateFirst)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func (s *SubmissionSuite) request() *model.SubmitApplicationRequest {
	gpa := 8.5
	choice := s.choice
	return &model.SubmitApplicationRequest{
		PersonalInfo: &model.PersonalInfo{
			FullName:    "Nguyễn Văn An",
			DateOfBirth: "2007-03-01",
			Gender:      "male",
			IDNumber:    "001207001234",
			Phone:       "0912345678",
		},
		AcademicInfo:      &model.AcademicInfo{HighSchool: "THPT Chu Văn An", GPA12: &gpa},
		ApplicationChoice: &choice,
		ExamScores:        map[string]float64{"physics": 8.25, "math": 9, "chemistry": 7.5},
	}
}

func (s *SubmissionSuite) addDocument(owner int) uuid.UUID {
	id := uuid.New()
	s.docs.docs[id] = model.DocumentProof{ID: id, CandidateID: owner, DocumentType: model.DocumentTranscript}
	return id
}

func (s *SubmissionSuite) requireCode(err error, code response.ErrCode) {
	de, ok := AsDomainError(err)
	s.Require().True(ok, "expected DomainError, got %v", err)
	s.Equal(code, de.Code)
}

func (s *SubmissionSuite) TestReferenceSubmissionSucceeds() {
	doc := s.addDocument(s.candidate.ID)
	req := s.request()
	req.DocumentIDs = []string{doc.String()}

	app, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.Require().NoError(err)

	s.Equal(model.ApplicationStatusPending, app.Status)
	s.Equal(fixedNow, app.SubmissionDate)
	s.Equal(1, app.UniversityID)
	s.Equal(10, app.MajorID)
	s.Equal(100, app.AdmissionMethodID)
	s.Require().NotNil(app.SubjectGroupID)
	s.Equal(1000, *app.SubjectGroupID)
	s.Equal(2025, app.Year)
	s.Equal([]uuid.UUID{doc}, app.Documents)
	s.Equal([]model.ExamScore{
		{SubjectCode: "chemistry", Score: 7.5},
		{SubjectCode: "math", Score: 9},
		{SubjectCode: "physics", Score: 8.25},
	}, app.ExamScores)

	s.Equal("Nguyễn Văn An", app.CandidateProfileSnapshot.FullName)
	s.Equal("an.nguyen@example.com", app.CandidateProfileSnapshot.Email)
	s.Equal(model.NotAvailable, app.CandidateProfileSnapshot.PermanentAddress)

	s.Len(s.apps.apps, 1)
	s.Len(s.notifier.submitted, 1)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues("created")))
}

func (s *SubmissionSuite) TestNextYearIneligibleButProfileKept() {
	req := s.request()
	req.ApplicationChoice.Year = 2026

	_, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.requireCode(err, response.ErrIneligibleCombination)

	de, _ := AsDomainError(err)
	for _, part := range []string{"A00", "IT1", "THPT", "2026"} {
		s.Contains(de.UserMessage(), part)
	}

	s.Empty(s.apps.apps)
	s.Empty(s.notifier.submitted)
	s.Equal(1, s.profiles.upserts, "profile upsert is committed before eligibility")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues("rejected")))
}

func (s *SubmissionSuite) TestValidateFirstLeavesProfileUntouched() {
	svc := s.newService(true)
	req := s.request()
	req.ApplicationChoice.Year = 2026

	_, err := svc.Submit(context.Background(), s.candidate, req)
	s.requireCode(err, response.ErrIneligibleCombination)
	s.Zero(s.profiles.upserts)

	req.ApplicationChoice.Year = 2025
	_, err = svc.Submit(context.Background(), s.candidate, req)
	s.Require().NoError(err)
	s.Equal(1, s.profiles.upserts)
}

func (s *SubmissionSuite) TestSnapshotIsFrozenPerApplication() {
	first, err := s.svc.Submit(context.Background(), s.candidate, s.request())
	s.Require().NoError(err)

	req := s.request()
	req.PersonalInfo.FullName = "Nguyễn Văn Bình"
	req.PersonalInfo.Phone = "0987654321"
	second, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.Require().NoError(err)

	stored, err := s.apps.GetByID(context.Background(), first.ID)
	s.Require().NoError(err)
	s.Equal("Nguyễn Văn An", stored.CandidateProfileSnapshot.FullName)
	s.Equal("0912345678", stored.CandidateProfileSnapshot.Phone)
	s.Equal("Nguyễn Văn Bình", second.CandidateProfileSnapshot.FullName)

	profile, err := s.profiles.GetByUserID(context.Background(), s.candidate.ID)
	s.Require().NoError(err)
	s.Equal("Nguyễn Văn Bình", profile.PersonalInfo.FullName)
}

func (s *SubmissionSuite) TestForeignDocumentRejectedBeforePersist() {
	mine := s.addDocument(s.candidate.ID)
	theirs := s.addDocument(99)
	req := s.request()
	req.DocumentIDs = []string{mine.String(), theirs.String()}

	_, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.requireCode(err, response.ErrInvalidDocument)
	s.Empty(s.apps.apps)
	s.Empty(s.notifier.submitted)
}

func (s *SubmissionSuite) TestUnknownDocumentRejected() {
	req := s.request()
	req.DocumentIDs = []string{uuid.NewString()}

	_, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.requireCode(err, response.ErrInvalidDocument)
}

func (s *SubmissionSuite) TestMalformedDocumentIDRejectedWithoutLookup() {
	req := s.request()
	req.DocumentIDs = []string{"not-a-uuid"}

	_, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.requireCode(err, response.ErrInvalidDocument)
	s.Zero(s.docs.lookups)
}

func (s *SubmissionSuite) TestDuplicateDocumentIDsCollapse() {
	doc := s.addDocument(s.candidate.ID)
	req := s.request()
	req.DocumentIDs = []string{doc.String(), doc.String()}

	app, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{doc}, app.Documents)
}

func (s *SubmissionSuite) TestMissingPersonalInfo() {
	req := s.request()
	req.PersonalInfo = &model.PersonalInfo{}

	_, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.requireCode(err, response.ErrValidation)
	s.Zero(s.profiles.upserts)
}

func (s *SubmissionSuite) TestMissingChoice() {
	req := s.request()
	req.ApplicationChoice = nil

	_, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.requireCode(err, response.ErrValidation)
	de, _ := AsDomainError(err)
	s.Contains(de.Fields, "application_choice")
}

func (s *SubmissionSuite) TestChoiceShapeCheckedBeforeUpsert() {
	req := s.request()
	req.ApplicationChoice.UniversityID = 0
	req.ApplicationChoice.Year = 0
	bad := -3
	req.ApplicationChoice.SubjectGroupID = &bad

	_, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.requireCode(err, response.ErrValidation)
	de, _ := AsDomainError(err)
	s.Contains(de.Fields, "application_choice.university_id")
	s.Contains(de.Fields, "application_choice.year")
	s.Contains(de.Fields, "application_choice.subject_group_id")
	s.NotContains(de.Fields, "application_choice.major_id")
	s.Zero(s.profiles.upserts)
	s.Empty(s.apps.apps)
}

func (s *SubmissionSuite) TestStorageFailureLeftToTransportLog() {
	var buf bytes.Buffer
	svc := NewSubmissionService(NewProfileService(s.profiles), s.catalog.eligibility(), s.apps, s.docs,
		s.notifier, s.metrics, zerolog.New(&buf), false)
	s.apps.err = errors.New("insert failed")

	_, err := svc.Submit(context.Background(), s.candidate, s.request())
	s.Require().Error(err)
	s.NotContains(buf.String(), `"level":"error"`)
}

func (s *SubmissionSuite) TestNoEmailAnywhere() {
	_, err := s.svc.Submit(context.Background(), Candidate{ID: 7}, s.request())
	s.requireCode(err, response.ErrInvalidEmail)
}

func (s *SubmissionSuite) TestPersonalEmailWinsOverAccountEmail() {
	req := s.request()
	req.PersonalInfo.Email = "An.Contact@Example.com"

	app, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.Require().NoError(err)
	s.Equal("an.contact@example.com", app.CandidateProfileSnapshot.Email)
}

func (s *SubmissionSuite) TestExamScoreValidation() {
	cases := map[string]map[string]float64{
		"above range":       {"math": 10.5},
		"below range":       {"math": -1},
		"outside the group": {"literature": 8},
		"blank subject":     {" ": 8},
	}
	for name, scores := range cases {
		s.Run(name, func() {
			req := s.request()
			req.ExamScores = scores
			_, err := s.svc.Submit(context.Background(), s.candidate, req)
			s.requireCode(err, response.ErrInvalidExamScores)
		})
	}
	s.Empty(s.apps.apps)
}

func (s *SubmissionSuite) TestAnySubjectAllowedWithoutGroup() {
	req := s.request()
	req.ApplicationChoice.SubjectGroupID = nil
	req.ExamScores = map[string]float64{"literature": 8}

	app, err := s.svc.Submit(context.Background(), s.candidate, req)
	s.Require().NoError(err)
	s.Nil(app.SubjectGroupID)
}

func (s *SubmissionSuite) TestStorageFailureIsInternal() {
	s.apps.err = errors.New("insert failed")

	_, err := s.svc.Submit(context.Background(), s.candidate, s.request())
	s.Require().Error(err)
	_, ok := AsDomainError(err)
	s.False(ok)
	s.Empty(s.notifier.submitted)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues("failed")))
}

type failingEmail struct{ calls int }

func (f *failingEmail) SendEmail(context.Context, string, string, string, string) error {
	f.calls++
	return errors.New("smtp unreachable")
}

type panickingNotifications struct{}

func (panickingNotifications) CreateNotification(context.Context, int, string, string, model.NotificationType, string, string) (*model.Notification, error) {
	panic("boom")
}

func TestSubmission_SideEffectFailuresDoNotFailRequest(t *testing.T) {
	f, choice := seedBKA()
	m := metrics.New(prometheus.NewRegistry())
	email := &failingEmail{}
	dispatcher := NewDispatcher(email, panickingNotifications{}, "https://app.example.com", zerolog.Nop(), m)
	svc := NewSubmissionService(NewProfileService(newFakeProfiles()), f.eligibility(), &fakeApplications{},
		newFakeDocuments(), dispatcher, m, zerolog.Nop(), false)

	app, err := svc.Submit(context.Background(), Candidate{ID: 1, Email: "c@example.com"}, &model.SubmitApplicationRequest{
		PersonalInfo:      &model.PersonalInfo{FullName: "Trần Thị Cúc"},
		ApplicationChoice: &choice,
	})
	require.NoError(t, err)
	require.NotNil(t, app)

	dispatcher.Wait()
	assert.Equal(t, 1, email.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectFailures.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SideEffectFailures.WithLabelValues("notification")))
}

func TestExamScores_MatchCatalogSpelling(t *testing.T) {
	group := &model.SubjectGroup{Code: "A00", Subjects: []string{"To\u00e1n", "L\u00fd", "H\u00f3a"}}
	inputs := map[string]string{
		"decomposed": "Toa\u0301n",
		"lower case": "to\u00e1n",
		"upper case": "TO\u00c1N",
		"padded":     " To\u00e1n ",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			scores, err := examScores(map[string]float64{input: 9}, group)
			require.NoError(t, err)
			assert.Equal(t, []model.ExamScore{{SubjectCode: "To\u00e1n", Score: 9}}, scores)
		})
	}
}

func TestExamScores_RejectsSameSubjectTwice(t *testing.T) {
	group := &model.SubjectGroup{Code: "A00", Subjects: []string{"To\u00e1n", "L\u00fd", "H\u00f3a"}}

	_, err := examScores(map[string]float64{"To\u00e1n": 9, "toa\u0301n": 8}, group)
	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, response.ErrInvalidExamScores, de.Code)
}

func TestExamScores_OtherSubjectStillRejected(t *testing.T) {
	group := &model.SubjectGroup{Code: "A00", Subjects: []string{"To\u00e1n", "L\u00fd", "H\u00f3a"}}

	_, err := examScores(map[string]float64{"V\u0103n": 8}, group)
	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, response.ErrInvalidExamScores, de.Code)
	assert.Contains(t, de.UserMessage(), "A00")
}
