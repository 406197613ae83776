package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/repository"
	"github.com/stemsi/admission-backend/internal/response"
)

// StatusNotifier receives applications whose status an administrator changed.
type StatusNotifier interface {
	ApplicationStatusChanged(app *model.Application)
}

// ApplicationService serves stored applications to candidates and administrators.
type ApplicationService struct {
	applications ApplicationStore
	notifier     StatusNotifier
	log          zerolog.Logger
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(applications ApplicationStore, notifier StatusNotifier, log zerolog.Logger) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		notifier:     notifier,
		log:          log.With().Str("component", "application_service").Logger(),
	}
}

// ListForCandidate returns the candidate's applications, newest first.
func (s *ApplicationService) ListForCandidate(ctx context.Context, candidateID int) ([]model.Application, error) {
	return s.applications.ListByCandidate(ctx, candidateID)
}

// GetForCandidate returns one of the candidate's applications. Applications of
// other candidates are reported as ErrNotFound.
func (s *ApplicationService) GetForCandidate(ctx context.Context, candidateID int, id uuid.UUID) (*model.Application, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.CandidateID != candidateID {
		return nil, ErrNotFound
	}
	return app, nil
}

// Get returns any application by ID.
func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

// List returns a page of applications for administrators.
func (s *ApplicationService) List(ctx context.Context, filter model.ApplicationFilter, page, perPage int) ([]model.Application, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, newDomainError(response.ErrInvalidStatus, "")
	}
	return s.applications.ListPaginated(ctx, filter, perPage, (page-1)*perPage)
}

// UpdateStatus records an administrator decision and notifies the candidate
// in the background. Any enum member is accepted from any state.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateApplicationStatusRequest, adminID int) (*model.Application, error) {
	if !req.Status.Valid() {
		return nil, newDomainError(response.ErrInvalidStatus, "")
	}
	app, err := s.applications.UpdateStatus(ctx, id, req.Status, req.Note)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.log.Info().
		Str("application_id", id.String()).
		Str("status", string(req.Status)).
		Int("admin_id", adminID).
		Msg("Application status updated")

	s.notifier.ApplicationStatusChanged(app)
	return app, nil
}
