package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/admission-backend/internal/model"
)

// Storage contracts consumed by the services. The repository package provides
// the Postgres implementations; tests provide in-memory ones.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int) (*model.User, error)
}

type ProfileStore interface {
	Upsert(ctx context.Context, p *model.CandidateProfile) error
	GetByUserID(ctx context.Context, userID int) (*model.CandidateProfile, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, a *model.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	ListByCandidate(ctx context.Context, candidateID int) ([]model.Application, error)
	ListPaginated(ctx context.Context, filter model.ApplicationFilter, limit, offset int) ([]model.Application, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, note string) (*model.Application, error)
}

type DocumentStore interface {
	Create(ctx context.Context, d *model.DocumentProof) error
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.DocumentProof, error)
	ListByCandidate(ctx context.Context, candidateID int) ([]model.DocumentProof, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID int, unreadOnly bool, limit, offset int) ([]model.Notification, int, error)
	MarkRead(ctx context.Context, userID int, id int64) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
}

// Redis capabilities, each satisfied by *redis.Client.

type KeyValueStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type QueuePusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}
