package email

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dberzins/envault/internal/logging"
	"github.com/dberzins/envault/internal/server/config"
	"github.com/stretchr/testify/assert"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewMailer_DisabledWithoutHost(t *testing.T) {
	cfg := &config.Config{SMTPFrom: "noreply@example.com"}
	m := NewMailer(cfg, testLogger())
	assert.False(t, m.Enabled())

	// Sending through the noop mailer is a silent success.
	err := m.SendPasswordReset(context.Background(), "a@example.com", "t.raw", time.Now())
	assert.NoError(t, err)
}

func TestNewMailer_DefaultsPortAndSecurity(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPFrom: "noreply@example.com"}
	m := NewMailer(cfg, testLogger())
	assert.True(t, m.Enabled())

	sm := m.(*smtpMailer)
	assert.Equal(t, "587", sm.port)
	assert.Equal(t, "starttls", sm.security)
}

func TestMessage_Headers(t *testing.T) {
	msg := string(message("noreply@example.com", "a@example.com", "subject line", "body text"))

	assert.True(t, strings.HasPrefix(msg, "From: noreply@example.com\r\n"))
	assert.Contains(t, msg, "To: a@example.com\r\n")
	assert.Contains(t, msg, "Subject: subject line\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=utf-8\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\nbody text\r\n"))
}
