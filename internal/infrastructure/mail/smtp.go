// Package mail relays contact messages through an SMTP server.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/savannaherds/site-api/internal/core/domain"
	"github.com/savannaherds/site-api/internal/core/ports"
)

const implicitTLSPort = 465

// SMTPConfig holds SMTP server configuration. Mail is sent from and to
// Username, the site inbox.
type SMTPConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Validate checks if the SMTP configuration is valid
func (c *SMTPConfig) Validate() error {
	if c.Host == "" {
		return errors.New("smtp host is required")
	}
	if c.Port == 0 {
		return errors.New("smtp port is required")
	}
	if c.Username == "" {
		return errors.New("smtp user is required")
	}
	return nil
}

// SMTPMailer implements ports.Mailer. Port 465 uses implicit TLS, any other
// port upgrades with STARTTLS when the server offers it.
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
	now    func() time.Time
}

var _ ports.Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) (*SMTPMailer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smtp config: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &SMTPMailer{
		config: config,
		logger: logger.With().Str("component", "smtp_mailer").Logger(),
		now:    time.Now,
	}, nil
}

// Send delivers msg to the site inbox.
func (m *SMTPMailer) Send(ctx context.Context, msg domain.MailMessage) error {
	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	client, err := m.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if deadline, ok := ctx.Deadline(); ok {
		// smtp.Client has no context support; the deadline bounds the whole exchange.
		_ = client.conn.SetDeadline(deadline)
	}

	if err := m.deliver(client.Client, m.buildMessage(msg)); err != nil {
		m.logger.Error().Err(err).Str("subject", msg.Subject).Msg("failed to send email")
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info().Str("subject", msg.Subject).Msg("email sent successfully")
	return nil
}

type smtpConn struct {
	*smtp.Client
	conn net.Conn
}

func (m *SMTPMailer) dial(ctx context.Context) (*smtpConn, error) {
	addr := net.JoinHostPort(m.config.Host, strconv.Itoa(m.config.Port))
	tlsConfig := m.tlsConfig()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial smtp: %w", err)
	}
	if m.config.Port == implicitTLSPort {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	if m.config.Port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("starttls: %w", err)
			}
		}
	}
	return &smtpConn{Client: client, conn: conn}, nil
}

func (m *SMTPMailer) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         m.config.Host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: m.config.InsecureSkipVerify, //nolint:gosec
	}
}

func (m *SMTPMailer) deliver(c *smtp.Client, body []byte) error {
	if m.config.Password != "" {
		if err := c.Auth(smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(m.config.Username); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := c.Rcpt(m.config.Username); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}
	return c.Quit()
}

// buildMessage renders a plain-text message. The sender's display name is
// shown on the From line; replies go to the sender's own address.
func (m *SMTPMailer) buildMessage(msg domain.MailMessage) []byte {
	from := netmail.Address{Name: msg.FromName, Address: m.config.Username}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", m.config.Username)
	if msg.ReplyTo != "" {
		fmt.Fprintf(&buf, "Reply-To: %s\r\n", headerSafe(msg.ReplyTo))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerSafe(msg.Subject)))
	fmt.Fprintf(&buf, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(msg.Body, "\r\n", "\n"), "\n", "\r\n"))
	return buf.Bytes()
}

// headerSafe strips line breaks so user input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
