package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/http"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// ErrNotConfigured is returned by Send when no transport has credentials.
var ErrNotConfigured = errors.New("mail transport not configured")

// Config holds mail provider settings.
type Config struct {
	Host      string
	Port      int
	User      string
	Pass      string
	From      string
	UseResend bool
	ResendKey string
	Timeout   time.Duration
}

// Message is a single email to send.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender sends emails via SMTP or Resend.
type Sender struct {
	cfg        Config
	httpClient *http.Client
	resendURL  string
	sendMail   sendFunc
}

func New(cfg Config) *Sender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Sender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		resendURL:  resendEndpoint,
		sendMail:   smtp.SendMail,
	}
}

// Configured reports whether Send can reach a transport.
func (s *Sender) Configured() bool {
	if s == nil {
		return false
	}
	if s.cfg.UseResend {
		return s.cfg.ResendKey != "" && s.cfg.From != ""
	}
	return s.cfg.Host != "" && s.cfg.User != "" && s.cfg.Pass != ""
}

// Send dispatches an email. Uses Resend if configured, otherwise SMTP.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if s.cfg.UseResend {
		return s.sendResend(ctx, msg)
	}
	return s.sendSMTP(ctx, msg)
}

// sendSMTP sends via net/smtp. SendMail has no context, so the call is raced against ctx.
func (s *Sender) sendSMTP(ctx context.Context, msg Message) error {
	body, err := buildMIME(s.cfg.From, msg, time.Now())
	if err != nil {
		return err
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(addr, auth, s.cfg.From, msg.To, body)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send: %w", ctx.Err())
	}
}

// sendResend sends via the Resend HTTP API.
func (s *Sender) sendResend(ctx context.Context, msg Message) error {
	payload := map[string]interface{}{
		"from":    s.cfg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if msg.Text != "" {
		payload["text"] = msg.Text
	}
	if msg.ReplyTo != "" {
		payload["reply_to"] = msg.ReplyTo
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.resendURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}

func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(v))
}

// buildMIME renders a multipart/alternative message with a plain-text and an HTML part.
func buildMIME(from string, msg Message, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	var head bytes.Buffer
	head.WriteString("MIME-Version: 1.0\r\n")
	head.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	head.WriteString("From: " + headerSafe(from) + "\r\n")
	head.WriteString("To: " + headerSafe(strings.Join(msg.To, ", ")) + "\r\n")
	if msg.ReplyTo != "" {
		head.WriteString("Reply-To: " + headerSafe(msg.ReplyTo) + "\r\n")
	}
	head.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", headerSafe(msg.Subject)) + "\r\n")
	head.WriteString("Content-Type: multipart/alternative; boundary=" + mw.Boundary() + "\r\n\r\n")

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", p.contentType)
		h.Set("Content-Transfer-Encoding", "quoted-printable")
		w, err := mw.CreatePart(h)
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(p.content)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return append(head.Bytes(), body.Bytes()...), nil
}
