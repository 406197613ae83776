package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/admission-backend/internal/metrics"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/repository"
	"github.com/stemsi/admission-backend/internal/response"
)

// Eligibility holds the catalog entities a valid choice resolved to.
// SubjectGroup and Link are nil when no subject group was chosen.
type Eligibility struct {
	University   *model.University
	Major        *model.Major
	Method       *model.AdmissionMethod
	SubjectGroup *model.SubjectGroup
	Link         *model.EligibilityLink
}

// EligibilityService decides whether an application choice is offered and active.
type EligibilityService struct {
	universities  repository.UniversityRepository
	majors        repository.MajorRepository
	methods       repository.AdmissionMethodRepository
	subjectGroups repository.SubjectGroupRepository
	links         repository.EligibilityLinkRepository
	metrics       *metrics.Metrics
}

// NewEligibilityService creates a new EligibilityService.
func NewEligibilityService(
	universities repository.UniversityRepository,
	majors repository.MajorRepository,
	methods repository.AdmissionMethodRepository,
	subjectGroups repository.SubjectGroupRepository,
	links repository.EligibilityLinkRepository,
	m *metrics.Metrics,
) *EligibilityService {
	return &EligibilityService{
		universities:  universities,
		majors:        majors,
		methods:       methods,
		subjectGroups: subjectGroups,
		links:         links,
		metrics:       m,
	}
}

// Validate resolves the choice against the catalog. It never writes.
func (s *EligibilityService) Validate(ctx context.Context, choice model.ApplicationChoice) (*Eligibility, error) {
	e, err := s.validate(ctx, choice)
	if de, ok := AsDomainError(err); ok {
		s.metrics.IncrementEligibilityRejection(string(de.Code))
	}
	return e, err
}

func (s *EligibilityService) validate(ctx context.Context, choice model.ApplicationChoice) (*Eligibility, error) {
	university, err := s.universities.GetByID(ctx, choice.UniversityID)
	if err := requireActive(university, err, response.ErrInvalidUniversity); err != nil {
		return nil, err
	}

	major, err := s.majors.GetByID(ctx, choice.MajorID)
	if err := requireActive(major, err, response.ErrInvalidMajor); err != nil {
		return nil, err
	}
	if major.UniversityID != university.ID {
		return nil, newDomainError(response.ErrInvalidMajor,
			fmt.Sprintf("Ngành %s không thuộc trường %s.", major.Code, university.Code))
	}

	method, err := s.methods.GetByID(ctx, choice.AdmissionMethodID)
	if err := requireActive(method, err, response.ErrInvalidMethod); err != nil {
		return nil, err
	}

	e := &Eligibility{University: university, Major: major, Method: method}
	if choice.SubjectGroupID == nil {
		return e, nil
	}

	group, err := s.subjectGroups.GetByID(ctx, *choice.SubjectGroupID)
	if err := requireActive(group, err, response.ErrInvalidSubjectGroup); err != nil {
		return nil, err
	}
	e.SubjectGroup = group

	link, err := s.links.FindActive(ctx, major.ID, method.ID, &group.ID, choice.Year)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newDomainError(response.ErrIneligibleCombination, ineligibleMessage(group, major, method, choice.Year))
		}
		return nil, fmt.Errorf("find eligibility link: %w", err)
	}
	e.Link = link

	return e, nil
}

// requireActive checks the result of a catalog lookup. A missing or inactive
// row becomes a DomainError with code; other lookup errors are wrapped.
func requireActive[T model.Activatable](entity T, err error, code response.ErrCode) error {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newDomainError(code, "")
		}
		return fmt.Errorf("catalog lookup (%s): %w", code, err)
	}
	if !entity.Active() {
		return newDomainError(code, "")
	}
	return nil
}

func ineligibleMessage(group *model.SubjectGroup, major *model.Major, method *model.AdmissionMethod, year int) string {
	return fmt.Sprintf("Tổ hợp %s không được xét tuyển cho ngành %s (%s) theo phương thức %s (%s) năm %d.",
		group.Code, major.Name, major.Code, method.Name, method.Code, year)
}
