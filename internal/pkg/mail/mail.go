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
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHost    = "smtp.gmail.com"
	defaultPort    = 587
	dialTimeout    = 15 * time.Second
	sessionTimeout = 30 * time.Second
)

var (
	// ErrNotConfigured is returned by Send when SMTP credentials are missing.
	ErrNotConfigured = errors.New("mail: smtp credentials are not configured")
	// ErrSenderRejected marks failures caused by the server refusing the From address.
	ErrSenderRejected = errors.New("mail: sender address rejected")
)

// Config holds SMTP settings.
type Config struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Message is a single email to send.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Headers map[string]string
}

// Mailer is what request handlers depend on.
type Mailer interface {
	Enabled() bool
	// Account is the authenticated SMTP user, used as a fallback sender.
	Account() string
	Send(ctx context.Context, msg Message) error
}

// Sender sends emails via SMTP.
type Sender struct {
	cfg Config
}

func New(cfg Config) *Sender {
	if strings.TrimSpace(cfg.Host) == "" {
		cfg.Host = defaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	return &Sender{cfg: cfg}
}

// Enabled reports whether both SMTP user and password are set.
func (s *Sender) Enabled() bool {
	return s.cfg.User != "" && s.cfg.Pass != ""
}

func (s *Sender) Account() string { return s.cfg.User }

// Send dispatches msg. A rejected From address is reported wrapped in
// ErrSenderRejected so callers can retry with Account() as sender.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}

	from := msg.From
	if from == "" {
		from = s.cfg.From
	}
	if from == "" {
		from = s.cfg.User
	}
	envelopeFrom, err := netmail.ParseAddress(from)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSenderRejected, err)
	}

	recipients := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		addr, err := netmail.ParseAddress(to)
		if err != nil {
			return fmt.Errorf("mail: invalid recipient %q: %w", to, err)
		}
		recipients = append(recipients, addr.Address)
	}

	body := buildMessage(from, msg)
	return s.deliver(ctx, envelopeFrom.Address, recipients, body)
}

func (s *Sender) deliver(ctx context.Context, from string, to []string, body []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(sessionTimeout)
	}
	_ = conn.SetDeadline(deadline)

	tlsConfig := &tls.Config{ServerName: s.cfg.Host}
	if s.cfg.Port == 465 {
		conn = tls.Client(conn, tlsConfig)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("%w: %v", ErrSenderRejected, err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return classify(err)
	}
	if _, err := w.Write(body); err != nil {
		return classify(err)
	}
	if err := w.Close(); err != nil {
		return classify(err)
	}
	return c.Quit()
}

// classify wraps DATA-stage errors that complain about the sender.
func classify(err error) error {
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "from") || strings.Contains(lower, "sender") {
		return fmt.Errorf("%w: %v", ErrSenderRejected, err)
	}
	return fmt.Errorf("mail: data: %w", err)
}

func buildMessage(from string, msg Message) []byte {
	var body bytes.Buffer
	writeHeader := func(k, v string) {
		body.WriteString(k)
		body.WriteString(": ")
		body.WriteString(v)
		body.WriteString("\r\n")
	}

	writeHeader("MIME-Version", "1.0")
	writeHeader("Date", time.Now().Format(time.RFC1123Z))
	writeHeader("From", formatAddress(from))
	tos := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		tos = append(tos, formatAddress(to))
	}
	writeHeader("To", strings.Join(tos, ", "))
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	if msg.ReplyTo != "" {
		writeHeader("Reply-To", formatAddress(msg.ReplyTo))
	}
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		if strings.EqualFold(k, "Reply-To") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeHeader(k, sanitizeHeader(msg.Headers[k]))
	}
	writeHeader("Content-Type", "text/html; charset=UTF-8")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)
	return body.Bytes()
}

// formatAddress re-encodes a parsed address; unparsable input is passed
// through with CR/LF stripped.
func formatAddress(raw string) string {
	if addr, err := netmail.ParseAddress(raw); err == nil {
		return addr.String()
	}
	return sanitizeHeader(raw)
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

// Address formats a display name and email as an RFC 5322 address.
func Address(name, email string) string {
	return (&netmail.Address{Name: name, Address: email}).String()
}
