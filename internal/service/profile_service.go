package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/repository"
	"github.com/stemsi/admission-backend/internal/response"
)

// ReconcileInput is the profile data carried by a submission.
type ReconcileInput struct {
	CandidateID  int
	AccountEmail string
	PersonalInfo *model.PersonalInfo
	AcademicInfo *model.AcademicInfo
}

// Reconciled is the stored profile plus the frozen copy for the application.
type Reconciled struct {
	Profile  *model.CandidateProfile
	Snapshot model.ProfileSnapshot
}

// ProfileService owns the singleton candidate profile.
type ProfileService struct {
	profiles ProfileStore
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Reconcile upserts the candidate profile with the supplied data and returns
// it with a snapshot. The write is committed on return regardless of what
// the caller does next.
func (s *ProfileService) Reconcile(ctx context.Context, in ReconcileInput) (*Reconciled, error) {
	profile, err := s.Prepare(in)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &Reconciled{Profile: profile, Snapshot: profile.Snapshot()}, nil
}

// Prepare builds the profile Reconcile would store, without storing it.
func (s *ProfileService) Prepare(in ReconcileInput) (*model.CandidateProfile, error) {
	if in.PersonalInfo.IsEmpty() {
		return nil, &DomainError{
			Code:   response.ErrValidation,
			Fields: map[string]string{"personal_info": "personal_info is required"},
		}
	}

	email := strings.TrimSpace(in.PersonalInfo.Email)
	if email == "" {
		email = strings.TrimSpace(in.AccountEmail)
	}
	if email == "" {
		return nil, newDomainError(response.ErrInvalidEmail, "")
	}

	profile := &model.CandidateProfile{
		UserID:       in.CandidateID,
		Email:        strings.ToLower(email),
		PersonalInfo: *in.PersonalInfo,
	}
	profile.PersonalInfo.Email = profile.Email
	if in.AcademicInfo != nil {
		profile.AcademicInfo = *in.AcademicInfo
	}
	return profile, nil
}

// GetByCandidate returns the candidate's profile, or ErrNotFound.
func (s *ProfileService) GetByCandidate(ctx context.Context, candidateID int) (*model.CandidateProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
