package service

import (
	"context"
	"fmt"
	"html"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/admission-backend/internal/metrics"
	"github.com/stemsi/admission-backend/internal/model"
	"golang.org/x/sync/errgroup"
)

// EmailSender delivers one email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, text, htmlBody string) error
}

// NotificationCreator records an in-app notification for a user.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, userID int, title, message string, typ model.NotificationType, link, relatedID string) (*model.Notification, error)
}

// Dispatcher runs post-commit side effects in the background. Callers never
// wait for it and never see its errors; failures are logged and counted.
type Dispatcher struct {
	email         EmailSender
	notifications NotificationCreator
	baseURL       string
	log           zerolog.Logger
	metrics       *metrics.Metrics

	wg sync.WaitGroup
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(email EmailSender, notifications NotificationCreator, baseURL string, log zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		email:         email,
		notifications: notifications,
		baseURL:       baseURL,
		log:           log.With().Str("component", "dispatcher").Logger(),
		metrics:       m,
	}
}

type sideEffect struct {
	name string
	run  func(ctx context.Context) error
}

// ApplicationSubmitted confirms a new application to the candidate by email
// and in-app notification.
func (d *Dispatcher) ApplicationSubmitted(app *model.Application, e *Eligibility) {
	snap := app.CandidateProfileSnapshot
	link := d.applicationLink(app)
	summary := fmt.Sprintf("%s, ngành %s (%s), phương thức %s, năm %d",
		e.University.Name, e.Major.Name, e.Major.Code, e.Method.Name, app.Year)
	if e.SubjectGroup != nil {
		summary += ", tổ hợp " + e.SubjectGroup.Code
	}

	subject := "Xác nhận nộp hồ sơ xét tuyển"
	text := fmt.Sprintf("Xin chào %s,\n\nHồ sơ xét tuyển của bạn đã được tiếp nhận: %s.\nMã hồ sơ: %s\nTheo dõi trạng thái tại: %s\n",
		snap.FullName, summary, app.ID, link)
	htmlBody := fmt.Sprintf("<p>Xin chào %s,</p><p>Hồ sơ xét tuyển của bạn đã được tiếp nhận: %s.</p><p>Mã hồ sơ: <b>%s</b></p><p><a href=\"%s\">Theo dõi trạng thái hồ sơ</a></p>",
		html.EscapeString(snap.FullName), html.EscapeString(summary), app.ID, html.EscapeString(link))

	d.dispatch(app,
		sideEffect{"email", func(ctx context.Context) error {
			return d.email.SendEmail(ctx, snap.Email, subject, text, htmlBody)
		}},
		sideEffect{"notification", func(ctx context.Context) error {
			_, err := d.notifications.CreateNotification(ctx, app.CandidateID,
				"Nộp hồ sơ thành công", "Hồ sơ "+summary+" đã được tiếp nhận.",
				model.NotificationApplicationSubmitted, link, app.ID.String())
			return err
		}},
	)
}

// ApplicationStatusChanged tells the candidate an administrator changed the
// status of their application.
func (d *Dispatcher) ApplicationStatusChanged(app *model.Application) {
	snap := app.CandidateProfileSnapshot
	link := d.applicationLink(app)
	label := statusLabel(app.Status)

	message := fmt.Sprintf("Hồ sơ %s đã chuyển sang trạng thái: %s.", app.ID, label)
	if app.AdminNote != "" {
		message += " Ghi chú: " + app.AdminNote
	}
	htmlBody := fmt.Sprintf("<p>Xin chào %s,</p><p>%s</p><p><a href=\"%s\">Xem chi tiết hồ sơ</a></p>",
		html.EscapeString(snap.FullName), html.EscapeString(message), html.EscapeString(link))

	d.dispatch(app,
		sideEffect{"email", func(ctx context.Context) error {
			return d.email.SendEmail(ctx, snap.Email, "Cập nhật trạng thái hồ sơ xét tuyển",
				"Xin chào "+snap.FullName+",\n\n"+message+"\n"+link+"\n", htmlBody)
		}},
		sideEffect{"notification", func(ctx context.Context) error {
			_, err := d.notifications.CreateNotification(ctx, app.CandidateID,
				"Cập nhật trạng thái hồ sơ", message,
				model.NotificationApplicationStatus, link, app.ID.String())
			return err
		}},
	)
}

// Wait blocks until every dispatched side effect has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// dispatch runs the effects concurrently in a detached goroutine. It returns
// immediately.
func (d *Dispatcher) dispatch(app *model.Application, effects ...sideEffect) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		var g errgroup.Group
		ctx := context.Background()
		for _, eff := range effects {
			g.Go(func() error {
				err := d.run(ctx, eff)
				if err != nil {
					d.metrics.IncrementSideEffectFailure(eff.name)
					d.log.Error().Err(err).
						Str("effect", eff.name).
						Str("application_id", app.ID.String()).
						Int("candidate_id", app.CandidateID).
						Msg("Side effect failed")
				}
				return err
			})
		}
		_ = g.Wait()
	}()
}

func (d *Dispatcher) run(ctx context.Context, eff sideEffect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return eff.run(ctx)
}

func (d *Dispatcher) applicationLink(app *model.Application) string {
	return d.baseURL + "/candidate/applications/" + app.ID.String()
}

func statusLabel(s model.ApplicationStatus) string {
	switch s {
	case model.ApplicationStatusPending:
		return "Chờ xử lý"
	case model.ApplicationStatusProcessing:
		return "Đang xử lý"
	case model.ApplicationStatusAdditionalRequired:
		return "Cần bổ sung hồ sơ"
	case model.ApplicationStatusApproved:
		return "Đã duyệt"
	case model.ApplicationStatusRejected:
		return "Không đạt"
	case model.ApplicationStatusCancelled:
		return "Đã hủy"
	}
	return string(s)
}
