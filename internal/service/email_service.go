package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/admission-backend/internal/config"
)

var ErrNoRecipient = errors.New("email recipient is empty")

// EmailMessage is the payload queued for the email worker.
type EmailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Text     string `json:"text"`
	HTML     string `json:"html"`
	Attempts int    `json:"attempts"`
}

// EmailService queues outbound email on Redis for worker.EmailWorker.
type EmailService struct {
	queue QueuePusher
}

// NewEmailService creates a new EmailService.
func NewEmailService(queue QueuePusher) *EmailService {
	return &EmailService{queue: queue}
}

// SendEmail enqueues the message. Delivery happens asynchronously.
func (s *EmailService) SendEmail(ctx context.Context, to, subject, text, htmlBody string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrNoRecipient
	}
	payload, err := json.Marshal(EmailMessage{To: to, Subject: subject, Text: text, HTML: htmlBody})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	if err := s.queue.RPush(ctx, config.WorkerKey.EmailQueue, payload).Err(); err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}
