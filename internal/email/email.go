// Package email renders and sends the account emails.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	SubjectWelcome       = "Welcome to the Natours family!"
	SubjectPasswordReset = "Your password reset token (valid for only 10 minutes)"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer renders the account emails and hands them to a Sender.
type Mailer struct {
	sender    Sender
	templates map[string]*template.Template
}

// NewMailer parses the embedded templates.
func NewMailer(sender Sender) (*Mailer, error) {
	m := &Mailer{sender: sender, templates: map[string]*template.Template{}}
	for _, name := range []string{"welcome", "passwordReset"} {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		m.templates[name] = tmpl
	}
	return m, nil
}

// New picks the SMTP sender when SMTP is configured and a logging sender
// otherwise.
func New(cfg *config.Config, log *zap.Logger) (*Mailer, error) {
	if cfg.IsEmailConfigured() {
		return NewMailer(NewSMTPSender(cfg.Email, log))
	}
	log.Warn("SMTP not configured, emails will only be logged")
	return NewMailer(NewLogSender(log))
}

type templateData struct {
	Subject   string
	FirstName string
	URL       string
}

// Welcome greets a new user and links to their account page.
func (m *Mailer) Welcome(ctx context.Context, u *models.User, url string) error {
	text := fmt.Sprintf("Hi %s,\n\nWelcome to Natours, we're glad to have you!\n"+
		"Upload your user photo here: %s\n", u.FirstName(), url)
	return m.send(ctx, "welcome", SubjectWelcome, u, url, text)
}

// PasswordReset mails the password reset link.
func (m *Mailer) PasswordReset(ctx context.Context, u *models.User, url string) error {
	text := fmt.Sprintf("Hi %s,\n\nForgot your password? Submit a PATCH request with your new password "+
		"and passwordConfirm to: %s\nIf you didn't forget your password, please ignore this email!\n",
		u.FirstName(), url)
	return m.send(ctx, "passwordReset", SubjectPasswordReset, u, url, text)
}

func (m *Mailer) send(ctx context.Context, name, subject string, u *models.User, url, text string) error {
	var html bytes.Buffer
	data := templateData{Subject: subject, FirstName: u.FirstName(), URL: url}
	if err := m.templates[name].ExecuteTemplate(&html, "base", data); err != nil {
		return fmt.Errorf("render %s email: %w", name, err)
	}

	return m.sender.Send(ctx, Message{
		To:      u.Email,
		Subject: subject,
		Text:    text,
		HTML:    html.String(),
	})
}

// LogSender logs messages instead of sending them.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender { return &LogSender{log: log} }

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("email not sent, SMTP disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}
