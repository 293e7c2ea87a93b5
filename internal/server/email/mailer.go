// Package email sends outgoing mail over SMTP. With no SMTP host
// configured the mailer degrades to a no-op so the rest of the server keeps
// working in development.
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/dberzins/envault/internal/logging"
	"github.com/dberzins/envault/internal/server/config"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error
	Enabled() bool
}

type smtpMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	security string
	baseURL  string
	logger   logging.Logger
}

// NewMailer builds an SMTP mailer from cfg. Missing host or sender address
// disables delivery entirely.
func NewMailer(cfg *config.Config, logger logging.Logger) Mailer {
	m := &smtpMailer{
		host:     strings.TrimSpace(cfg.SMTPHost),
		port:     strings.TrimSpace(cfg.SMTPPort),
		user:     strings.TrimSpace(cfg.SMTPUser),
		password: cfg.SMTPPassword,
		from:     strings.TrimSpace(cfg.SMTPFrom),
		security: strings.ToLower(strings.TrimSpace(cfg.SMTPSecurity)),
		baseURL:  strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:   logger.With("module", "email"),
	}
	if m.security == "" {
		m.security = "starttls"
	}
	if m.host == "" || m.from == "" {
		logger.Warn(context.Background(), "mailer disabled, SMTP host or from missing")
		return &noopMailer{}
	}
	if m.port == "" {
		m.port = "587"
	}
	return m
}

type noopMailer struct{}

func (n *noopMailer) SendPasswordReset(context.Context, string, string, time.Time) error {
	return nil
}
func (n *noopMailer) Enabled() bool { return false }

func (m *smtpMailer) Enabled() bool { return true }

func (m *smtpMailer) SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token)
	body := fmt.Sprintf("You requested a password reset. Use the token below before %s UTC.\n\nToken: %s\nReset link: %s\n\nIf you did not request this, ignore the message.",
		expiresAt.UTC().Format(time.RFC3339), token, link)
	msg := message(m.from, to, "Your envault password reset link", body)

	switch m.security {
	case "ssl", "smtps":
		return m.sendSSL(to, msg)
	case "none":
		return smtp.SendMail(m.addr(), nil, m.from, []string{to}, msg)
	default:
		return m.sendStartTLS(to, msg)
	}
}

func (m *smtpMailer) sendStartTLS(to string, msg []byte) error {
	addr := m.addr()
	host, _, _ := net.SplitHostPort(addr)

	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		cfg := &tls.Config{ServerName: host}
		if err := client.StartTLS(cfg); err != nil {
			return err
		}
	}

	if m.user != "" && m.password != "" {
		auth := smtp.PlainAuth("", m.user, m.password, host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	return m.submit(client, to, msg)
}

func (m *smtpMailer) sendSSL(to string, msg []byte) error {
	conn, err := tls.Dial("tcp", m.addr(), &tls.Config{ServerName: m.host})
	if err != nil {
		return err
	}
	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.user != "" && m.password != "" {
		auth := smtp.PlainAuth("", m.user, m.password, m.host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	return m.submit(client, to, msg)
}

func (m *smtpMailer) submit(client *smtp.Client, to string, msg []byte) error {
	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (m *smtpMailer) addr() string {
	return net.JoinHostPort(m.host, m.port)
}

func message(from, to, subject, body string) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")
	return buf.Bytes()
}
