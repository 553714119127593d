package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/breaker"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
)

// sendMailFunc matches smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends messages over SMTP with PLAIN auth.
type SMTPSender struct {
	config   config.EmailConfig
	cb       *gobreaker.CircuitBreaker
	sendMail sendMailFunc
	now      func() time.Time
}

// NewSMTPSender creates an SMTP sender guarded by a circuit breaker.
func NewSMTPSender(cfg config.EmailConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{
		config:   cfg,
		cb:       breaker.New("smtp", breaker.Settings{}, log),
		sendMail: smtp.SendMail,
		now:      time.Now,
	}
}

func (s *SMTPSender) from() string {
	if s.config.FromEmail != "" {
		return s.config.FromEmail
	}
	return s.config.SMTPUsername
}

// Send sends an email using SMTP
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.config.SMTPUsername == "" || s.config.SMTPPassword == "" {
		return errors.New("email credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.compose(msg)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	addr := s.config.SMTPHost + ":" + s.config.SMTPPort

	_, err = s.cb.Execute(func() (any, error) {
		return nil, s.sendMail(addr, auth, s.from(), []string{msg.To}, body)
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// compose builds a multipart/alternative message with text and HTML parts.
func (s *SMTPSender) compose(msg Message) ([]byte, error) {
	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)

	for _, p := range []struct{ contentType, body string }{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, fmt.Errorf("compose email: %w", err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("compose email: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("compose email: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s <%s>\r\n", mime.QEncoding.Encode("UTF-8", s.config.FromName), s.from())
	fmt.Fprintf(&out, "To: %s\r\n", msg.To)
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	fmt.Fprintf(&out, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())
	out.Write(parts.Bytes())
	return out.Bytes(), nil
}
