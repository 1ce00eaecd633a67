package mail

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/mbvogue/storefront/internal/application/notification"
	"github.com/mbvogue/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.MailConfig {
	return config.MailConfig{
		Enabled:   true,
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "user",
		Password:  "pass",
		From:      "orders@mbvogue.test",
		StoreName: "MB Vogue",
	}
}

func TestNew(t *testing.T) {
	assert.IsType(t, &LogMailer{}, New(config.MailConfig{}, nil))
	assert.IsType(t, &SMTPMailer{}, New(testConfig(), nil))
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(testConfig(), nil)
	var (
		gotAddr string
		gotTo   []string
		gotRaw  string
	)
	m.send = func(addr string, _ smtp.Auth, from string, to []string, raw []byte) error {
		gotAddr, gotTo, gotRaw = addr, to, string(raw)
		assert.Equal(t, "orders@mbvogue.test", from)
		return nil
	}

	err := m.Send(context.Background(), notification.Message{
		To:      "ama@example.com",
		Subject: "Order Confirmation - MBV-1",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"ama@example.com"}, gotTo)
	assert.Contains(t, gotRaw, "To: ama@example.com\r\n")
	assert.Contains(t, gotRaw, "Content-Type: multipart/alternative")
	assert.Contains(t, gotRaw, "text/plain; charset=UTF-8")
	assert.Contains(t, gotRaw, "plain body")
	assert.Contains(t, gotRaw, "<p>html body</p>")
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := NewSMTPMailer(testConfig(), nil)
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 busy") }

	err := m.Send(context.Background(), notification.Message{To: "a@b.co", Subject: "x", Text: "y"})
	assert.ErrorContains(t, err, "421 busy")
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, NewLogMailer(nil).Send(context.Background(), notification.Message{To: "a@b.co"}))
}
