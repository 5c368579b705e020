// Package notify sends transactional email. Delivery is best-effort:
// callers log failures and never let them affect a response.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/userkit/user-service/config"
)

const welcomeSubject = "Welcome to UserKit"

const welcomeTemplate = `<html>
  <body>
    <h1>Welcome, {{.Username}}!</h1>
    <p>Your {{.PlatformName}} account is ready. Log in with your username to get started.</p>
  </body>
</html>`

// Mailer sends welcome email over SMTP.
type Mailer struct {
	client   *mail.Client
	from     string
	platform string
	tmpl     *template.Template
}

// NewMailer builds a Mailer from configuration.
func NewMailer(cfg *config.Config) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Mail.Host,
		mail.WithPort(cfg.Mail.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Mail.Username),
		mail.WithPassword(cfg.Mail.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}

	tmpl, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse welcome template: %w", err)
	}

	return &Mailer{
		client:   client,
		from:     cfg.Mail.From,
		platform: cfg.Service.Name,
		tmpl:     tmpl,
	}, nil
}

// SendWelcome renders and sends the welcome email to a new user.
func (m *Mailer) SendWelcome(ctx context.Context, email, username string) error {
	var body bytes.Buffer
	err := m.tmpl.Execute(&body, struct {
		PlatformName string
		Username     string
	}{
		PlatformName: m.platform,
		Username:     username,
	})
	if err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(welcomeSubject)
	msg.SetBodyString(mail.TypeTextHTML, body.String())

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	return nil
}
