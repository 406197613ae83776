package handler

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/stemsi/admission-backend/internal/model"
	"github.com/stemsi/admission-backend/internal/service"
)

// Authenticator is served by *service.AuthService.
type Authenticator interface {
	RegisterCandidate(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
	Logout(ctx context.Context, claims *service.Claims) error
	Me(ctx context.Context, userID int) (*model.User, error)
}

// Submitter is served by *service.SubmissionService.
type Submitter interface {
	Submit(ctx context.Context, candidate service.Candidate, req *model.SubmitApplicationRequest) (*model.Application, error)
}

// ApplicationReader is served by *service.ApplicationService.
type ApplicationReader interface {
	ListForCandidate(ctx context.Context, candidateID int) ([]model.Application, error)
	GetForCandidate(ctx context.Context, candidateID int, id uuid.UUID) (*model.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	List(ctx context.Context, filter model.ApplicationFilter, page, perPage int) ([]model.Application, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req model.UpdateApplicationStatusRequest, adminID int) (*model.Application, error)
}

// DocumentUploader is served by *service.DocumentService.
type DocumentUploader interface {
	Upload(ctx context.Context, candidateID int, docType model.DocumentType, file multipart.File, header *multipart.FileHeader) (*model.DocumentProof, error)
	List(ctx context.Context, candidateID int) ([]model.DocumentProof, error)
}

// ProfileReader is served by *service.ProfileService.
type ProfileReader interface {
	GetByCandidate(ctx context.Context, candidateID int) (*model.CandidateProfile, error)
}

// NotificationManager is served by *service.NotificationService.
type NotificationManager interface {
	List(ctx context.Context, userID int, unreadOnly bool, page, perPage int) ([]model.Notification, int, error)
	MarkRead(ctx context.Context, userID int, id int64) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
}
