package sendgridmail

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"pet-community/internal/ports/notify"
)

// Config holds the SendGrid credentials and sender identity.
type Config struct {
	APIKey    string
	FromName  string
	FromEmail string
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:    os.Getenv("SENDGRID_API_KEY"),
		FromName:  os.Getenv("SENDGRID_FROM_NAME"),
		FromEmail: os.Getenv("SENDGRID_FROM_EMAIL"),
	}
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.FromEmail) != ""
}

// Mailer sends transactional email through SendGrid.
// Implements notify.Notifier.
type Mailer struct {
	cfg    Config
	client *sendgrid.Client
}

func New(cfg Config) *Mailer {
	m := &Mailer{cfg: cfg}
	if cfg.Enabled() {
		m.client = sendgrid.NewSendClient(cfg.APIKey)
	}
	return m
}

func (m *Mailer) Send(ctx context.Context, msg notify.Message) error {
	if m == nil || m.client == nil {
		return notify.ErrNotConfigured
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("sendgrid: empty recipient")
	}

	from := mail.NewEmail(m.cfg.FromName, m.cfg.FromEmail)
	toName := msg.ToName
	if toName == "" {
		toName = msg.To
	}
	to := mail.NewEmail(toName, msg.To)

	v3 := mail.NewV3Mail()
	v3.SetFrom(from)
	v3.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(to)
	v3.AddPersonalizations(p)

	if msg.PlainText != "" {
		v3.AddContent(mail.NewContent("text/plain", msg.PlainText))
	}
	if msg.HTML != "" {
		v3.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	resp, err := m.client.SendWithContext(ctx, v3)
	if err != nil {
		return fmt.Errorf("sendgrid: send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	return nil
}
