package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/service"
)

const (
	EmailPollTimeout = 1 * time.Second
	EmailMaxAttempts = 3
)

// EmailQueue is the Redis list API the worker consumes. *redis.Client satisfies it.
type EmailQueue interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Mailer delivers one message.
type Mailer interface {
	Send(ctx context.Context, msg service.EmailMessage) error
}

type EmailWorker struct {
	queue  EmailQueue
	mailer Mailer
	log    zerolog.Logger
}

func NewEmailWorker(queue EmailQueue, mailer Mailer, log zerolog.Logger) *EmailWorker {
	return &EmailWorker{
		queue:  queue,
		mailer: mailer,
		log:    log.With().Str("component", "email_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

func (w *EmailWorker) Start(ctx context.Context) {
	w.log.Info().Msg("EmailWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("EmailWorker stopped")
			return

		default:
			item, err := w.queue.BLPop(ctx, EmailPollTimeout, config.WorkerKey.EmailQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					time.Sleep(EmailPollTimeout)
				}
				continue
			}
			if len(item) < 2 {
				continue
			}
			w.process(ctx, item[1])
		}
	}
}

// process delivers one queued payload. Failed deliveries go back to the tail
// of the queue until EmailMaxAttempts is reached, then they are dropped.
func (w *EmailWorker) process(ctx context.Context, raw string) {
	var msg service.EmailMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		return
	}

	err := w.mailer.Send(ctx, msg)
	if err == nil {
		w.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("Email sent")
		return
	}

	msg.Attempts++
	if msg.Attempts >= EmailMaxAttempts {
		w.log.Error().Err(err).Str("to", msg.To).Int("attempts", msg.Attempts).Msg("Email dropped after max attempts")
		return
	}

	w.log.Warn().Err(err).Str("to", msg.To).Int("attempts", msg.Attempts).Msg("Email send failed, requeueing")
	payload, _ := json.Marshal(msg)
	if err := w.queue.RPush(context.WithoutCancel(ctx), config.WorkerKey.EmailQueue, payload).Err(); err != nil {
		w.log.Error().Err(err).Str("to", msg.To).Msg("Requeue failed")
	}
}
