package worker

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/stemsi/admission-backend/internal/config"
	"github.com/stemsi/admission-backend/internal/service"
	"github.com/wneessen/go-mail"
)

const defaultSMTPTimeout = 10 * time.Second

// SMTPMailer sends multipart/alternative mail through an SMTP relay. Every
// delivery is bounded by the configured timeout, dial and greeting included.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, msg service.EmailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return err
	}

	message, err := m.message(msg)
	if err != nil {
		return err
	}
	client, err := m.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *SMTPMailer) message(msg service.EmailMessage) (*mail.Msg, error) {
	message := mail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetDate()
	message.SetMessageID()

	switch {
	case msg.Text != "" && msg.HTML != "":
		message.SetBodyString(mail.TypeTextPlain, msg.Text)
		message.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		message.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		message.SetBodyString(mail.TypeTextPlain, msg.Text)
	}
	return message, nil
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTimeout(m.cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(dialWithDeadline),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

// dialWithDeadline puts the context deadline on the connection itself. A relay
// that accepts and then never answers fails the read instead of blocking the
// worker.
func dialWithDeadline(ctx context.Context, network, address string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return conn, nil
}
