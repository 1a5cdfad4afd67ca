// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"agency-cms/internal/shared/logger"
)

// ErrMailerNotConfigured is returned by the noop mailer
var ErrMailerNotConfigured = errors.New("email is not configured")

// Message is one outbound email
type Message struct {
	To       []string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
	Template string
}

// Mailer sends messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Configured() bool
}

// New returns the SMTP mailer when SMTP is configured, the noop mailer otherwise
func New(cfg *Config, log logger.Logger) Mailer {
	if log == nil {
		log = logger.NewNop()
	}
	if !cfg.Enabled() {
		log.Warn("📧 SMTP_HOST or EMAIL_FROM not set, emails will not be sent")
		return NoopMailer{}
	}
	log.Infof("📧 SMTP mailer ready (%s:%d)", cfg.Host, cfg.Port)
	return NewSMTPMailer(cfg)
}

// SMTPMailer delivers through a go-mail client dialed per send
type SMTPMailer struct {
	cfg      *Config
	dialSend func(ctx context.Context, msg *gomail.Msg) error
}

// NewSMTPMailer builds an SMTP mailer from cfg
func NewSMTPMailer(cfg *Config) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	m.dialSend = m.deliver
	return m
}

// Configured is always true for the SMTP mailer
func (m *SMTPMailer) Configured() bool { return true }

// Send builds the MIME message and hands it to the SMTP server
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	built, err := m.build(msg)
	if err != nil {
		return err
	}
	return m.dialSend(ctx, built)
}

func (m *SMTPMailer) build(msg Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("message has no recipients")
	}

	out := gomail.NewMsg()
	if err := out.FromFormat(m.cfg.SiteName, m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to: %w", err)
		}
	}
	out.Subject(msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		out.SetBodyString(gomail.TypeTextPlain, msg.Text)
		out.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		out.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	default:
		out.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	return out, nil
}

func (m *SMTPMailer) deliver(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{gomail.WithPort(m.cfg.Port)}
	if m.cfg.Timeout > 0 {
		opts = append(opts, gomail.WithTimeout(m.cfg.Timeout))
	}
	if m.cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if m.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.User),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// NoopMailer is used when SMTP is not configured
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, Message) error { return ErrMailerNotConfigured }
func (NoopMailer) Configured() bool                    { return false }
