package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
)

type captureSender struct {
	msgs []Message
}

func (c *captureSender) Send(_ context.Context, msg Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestMailer_Templates(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	m, err := NewMailer(sender)
	require.NoError(t, err)
	u := &models.User{Name: "Jonas Schmedtmann", Email: "jonas@example.com"}

	require.NoError(t, m.Welcome(context.Background(), u, "http://localhost:3000/me"))
	require.NoError(t, m.PasswordReset(context.Background(), u, "http://localhost:3000/api/v1/users/resetPassword/abc"))
	require.Len(t, sender.msgs, 2)

	welcome := sender.msgs[0]
	assert.Equal(t, "jonas@example.com", welcome.To)
	assert.Equal(t, SubjectWelcome, welcome.Subject)
	assert.Contains(t, welcome.HTML, "Hi Jonas,")
	assert.Contains(t, welcome.HTML, `href="http://localhost:3000/me"`)
	assert.Contains(t, welcome.Text, "http://localhost:3000/me")

	reset := sender.msgs[1]
	assert.Equal(t, SubjectPasswordReset, reset.Subject)
	assert.Contains(t, reset.HTML, "resetPassword/abc")
}

func TestSMTPSender_Send(t *testing.T) {
	t.Parallel()

	s := NewSMTPSender(config.EmailConfig{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     "587",
		SMTPUsername: "user",
		SMTPPassword: "secret",
		FromEmail:    "hello@natours.io",
		FromName:     "Natours",
	}, zap.NewNop())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		return nil
	}

	err := s.Send(context.Background(), Message{
		To:      "jonas@example.com",
		Subject: SubjectWelcome,
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "hello@natours.io", gotFrom)
	assert.Equal(t, []string{"jonas@example.com"}, gotTo)

	body := string(gotBody)
	assert.Contains(t, body, "To: jonas@example.com\r\n")
	assert.Contains(t, body, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, body, "plain body")
	assert.Contains(t, body, "<p>html body</p>")
	assert.True(t, strings.Index(body, "plain body") < strings.Index(body, "html body"))
}

func TestSMTPSender_Errors(t *testing.T) {
	t.Parallel()

	unconfigured := NewSMTPSender(config.EmailConfig{SMTPHost: "smtp.example.com"}, zap.NewNop())
	assert.Error(t, unconfigured.Send(context.Background(), Message{To: "a@b.c"}))

	s := NewSMTPSender(config.EmailConfig{SMTPHost: "h", SMTPPort: "25", SMTPUsername: "u", SMTPPassword: "p"}, zap.NewNop())
	boom := errors.New("connection refused")
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return boom }
	assert.ErrorIs(t, s.Send(context.Background(), Message{To: "a@b.c"}), boom)
}
