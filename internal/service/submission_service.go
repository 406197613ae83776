package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/metrics"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/response"
	"golang.org/x/text/unicode/norm"
)

const (
	minExamScore = 0
	maxExamScore = 10

	minChoiceYear = 2000
	maxChoiceYear = 2100
)

// Candidate is the authenticated submitter as asserted by the JWT.
type Candidate struct {
	ID    int
	Email string
}

// SubmissionNotifier receives applications after they are stored.
type SubmissionNotifier interface {
	ApplicationSubmitted(app *model.Application, e *Eligibility)
}

// SubmissionService is the application submission workflow.
type SubmissionService struct {
	profiles     *ProfileService
	eligibility  *EligibilityService
	applications ApplicationStore
	documents    DocumentStore
	notifier     SubmissionNotifier
	metrics      *metrics.Metrics
	log          zerolog.Logger

	// validateFirst defers the profile upsert until the choice, scores and
	// documents have been checked.
	validateFirst bool
	now           func() time.Time
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	profiles *ProfileService,
	eligibility *EligibilityService,
	applications ApplicationStore,
	documents DocumentStore,
	notifier SubmissionNotifier,
	m *metrics.Metrics,
	log zerolog.Logger,
	validateFirst bool,
) *SubmissionService {
	return &SubmissionService{
		profiles:      profiles,
		eligibility:   eligibility,
		applications:  applications,
		documents:     documents,
		notifier:      notifier,
		metrics:       m,
		log:           log.With().Str("component", "submission_service").Logger(),
		validateFirst: validateFirst,
		now:           time.Now,
	}
}

// Submit validates and stores one application, then hands it to the notifier
// without waiting. In the default ordering the profile is upserted before the
// choice is validated, so a rejected submission still leaves the profile
// updated.
func (s *SubmissionService) Submit(ctx context.Context, candidate Candidate, req *model.SubmitApplicationRequest) (*model.Application, error) {
	app, err := s.submit(ctx, candidate, req)
	switch {
	case err == nil:
		s.metrics.IncrementSubmission("created")
	case isDomainError(err):
		s.metrics.IncrementSubmission("rejected")
		s.log.Debug().Err(err).Int("candidate_id", candidate.ID).Msg("Submission rejected")
	default:
		// Logged by the transport with the request id.
		s.metrics.IncrementSubmission("failed")
	}
	return app, err
}

func (s *SubmissionService) submit(ctx context.Context, candidate Candidate, req *model.SubmitApplicationRequest) (*model.Application, error) {
	if err := checkShape(req); err != nil {
		return nil, err
	}
	in := ReconcileInput{
		CandidateID:  candidate.ID,
		AccountEmail: candidate.Email,
		PersonalInfo: req.PersonalInfo,
		AcademicInfo: req.AcademicInfo,
	}

	var reconciled *Reconciled
	if s.validateFirst {
		if _, err := s.profiles.Prepare(in); err != nil {
			return nil, err
		}
	} else {
		r, err := s.profiles.Reconcile(ctx, in)
		if err != nil {
			return nil, err
		}
		reconciled = r
	}

	choice := *req.ApplicationChoice
	eligibility, err := s.eligibility.Validate(ctx, choice)
	if err != nil {
		return nil, err
	}

	scores, err := examScores(req.ExamScores, eligibility.SubjectGroup)
	if err != nil {
		return nil, err
	}

	docIDs, err := s.ownedDocuments(ctx, candidate.ID, req.DocumentIDs)
	if err != nil {
		return nil, err
	}

	if reconciled == nil {
		r, err := s.profiles.Reconcile(ctx, in)
		if err != nil {
			return nil, err
		}
		reconciled = r
	}

	now := s.now()
	app := &model.Application{
		ID:                       uuid.New(),
		CandidateID:              candidate.ID,
		UniversityID:             eligibility.University.ID,
		MajorID:                  eligibility.Major.ID,
		AdmissionMethodID:        eligibility.Method.ID,
		Year:                     choice.Year,
		CandidateProfileSnapshot: reconciled.Snapshot,
		ExamScores:               scores,
		Documents:                docIDs,
		Status:                   model.ApplicationStatusPending,
		SubmissionDate:           now,
	}
	if eligibility.SubjectGroup != nil {
		id := eligibility.SubjectGroup.ID
		app.SubjectGroupID = &id
	}

	if err := s.applications.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.notifier.ApplicationSubmitted(app, eligibility)
	return app, nil
}

func checkShape(req *model.SubmitApplicationRequest) error {
	fields := map[string]string{}
	if req == nil {
		fields["body"] = "request body is required"
	} else {
		if req.PersonalInfo.IsEmpty() {
			fields["personal_info"] = "personal_info is required"
		}
		if req.ApplicationChoice == nil {
			fields["application_choice"] = "application_choice is required"
		} else {
			checkChoice(req.ApplicationChoice, fields)
		}
	}
	if len(fields) > 0 {
		return &DomainError{Code: response.ErrValidation, Fields: fields}
	}
	return nil
}

// checkChoice mirrors the binding tags of model.ApplicationChoice for callers
// that do not go through gin.
func checkChoice(choice *model.ApplicationChoice, fields map[string]string) {
	positive := []struct {
		field string
		value int
	}{
		{"application_choice.university_id", choice.UniversityID},
		{"application_choice.major_id", choice.MajorID},
		{"application_choice.admission_method_id", choice.AdmissionMethodID},
	}
	for _, p := range positive {
		if p.value <= 0 {
			fields[p.field] = p.field[len("application_choice."):] + " must be greater than 0"
		}
	}
	if choice.SubjectGroupID != nil && *choice.SubjectGroupID <= 0 {
		fields["application_choice.subject_group_id"] = "subject_group_id must be greater than 0"
	}
	if choice.Year < minChoiceYear || choice.Year > maxChoiceYear {
		fields["application_choice.year"] = fmt.Sprintf("year must be between %d and %d", minChoiceYear, maxChoiceYear)
	}
}

// examScores converts the submitted map into a slice ordered by subject code.
// With a subject group every subject must belong to it and is stored under the
// group's spelling.
func examScores(raw map[string]float64, group *model.SubjectGroup) ([]model.ExamScore, error) {
	scores := make([]model.ExamScore, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for subject, score := range raw {
		code := norm.NFC.String(strings.TrimSpace(subject))
		switch {
		case code == "":
			return nil, newDomainError(response.ErrInvalidExamScores, "Tên môn thi không được để trống.")
		case math.IsNaN(score) || score < minExamScore || score > maxExamScore:
			return nil, newDomainError(response.ErrInvalidExamScores,
				fmt.Sprintf("Điểm môn %s phải nằm trong khoảng %d đến %d.", code, minExamScore, maxExamScore))
		}
		if group != nil {
			canonical, ok := group.Subject(code)
			if !ok {
				return nil, newDomainError(response.ErrInvalidExamScores,
					fmt.Sprintf("Môn %s không thuộc tổ hợp %s.", code, group.Code))
			}
			code = canonical
		}
		key := model.SubjectKey(code)
		if seen[key] {
			return nil, newDomainError(response.ErrInvalidExamScores, fmt.Sprintf("Môn %s bị nhập trùng.", code))
		}
		seen[key] = true
		scores = append(scores, model.ExamScore{SubjectCode: code, Score: score})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].SubjectCode < scores[j].SubjectCode })
	return scores, nil
}

// ownedDocuments parses the IDs and checks each resolves to a document of
// the candidate. Duplicates collapse to one entry.
func (s *SubmissionService) ownedDocuments(ctx context.Context, candidateID int, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			return nil, newDomainError(response.ErrInvalidDocument, fmt.Sprintf("Mã minh chứng %q không hợp lệ.", r))
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ids, nil
	}

	docs, err := s.documents.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	owned := make(map[uuid.UUID]bool, len(docs))
	for _, d := range docs {
		if d.CandidateID == candidateID {
			owned[d.ID] = true
		}
	}
	for _, id := range ids {
		if !owned[id] {
			return nil, newDomainError(response.ErrInvalidDocument, fmt.Sprintf("Không tìm thấy minh chứng %s.", id))
		}
	}
	return ids, nil
}

func isDomainError(err error) bool {
	_, ok := AsDomainError(err)
	return ok
}
