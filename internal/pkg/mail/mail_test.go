package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContact() ContactNotifyData {
	return ContactNotifyData{
		Name:    "Ada <script>",
		Email:   "ada@example.com",
		Subject: "Hiring",
		Message: "Hello there",
	}
}

func TestSendWithoutCredentials(t *testing.T) {
	s := New(Config{Host: "smtp.example.com"})
	assert.False(t, s.Configured())
	err := s.Send(context.Background(), Message{To: []string{"x@example.com"}})
	assert.ErrorIs(t, err, ErrNotConfigured)

	var nilSender *Sender
	assert.False(t, nilSender.Configured())
}

func TestContactMessage(t *testing.T) {
	msg, err := ContactMessage("owner@example.com", sampleContact(), time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, []string{"owner@example.com"}, msg.To)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Equal(t, "Portfolio Contact: Hiring", msg.Subject)
	assert.Contains(t, msg.HTML, "Ada &lt;script&gt;")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Text, "Ada <script>")
	assert.Contains(t, msg.Text, "Hello there")
	assert.NotContains(t, msg.Text, "Phone:")
}

func TestSendSMTPBuildsMultipart(t *testing.T) {
	s := New(Config{Host: "smtp.example.com", User: "owner@example.com", Pass: "pw"})
	var gotAddr, gotFrom string
	var gotBody []byte
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotBody = addr, from, msg
		return nil
	}

	msg, err := ContactMessage("owner@example.com", sampleContact(), time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "owner@example.com", gotFrom)
	body := string(gotBody)
	assert.Contains(t, body, "Reply-To: ada@example.com\r\n")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "text/plain; charset=UTF-8")
	assert.Contains(t, body, "text/html; charset=UTF-8")
}

func TestSendSMTPFailure(t *testing.T) {
	s := New(Config{Host: "smtp.example.com", User: "u", Pass: "p"})
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("535 auth failed")
	}
	err := s.Send(context.Background(), Message{To: []string{"x@example.com"}, Text: "hi"})
	assert.ErrorContains(t, err, "535")
}

func TestHeaderInjectionIsFlattened(t *testing.T) {
	b, err := buildMIME("a@example.com", Message{
		To:      []string{"b@example.com"},
		Subject: "hi\r\nBcc: evil@example.com",
		Text:    "x",
	}, time.Now())
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(b), "\r\nBcc:"))
}

func TestSendResend(t *testing.T) {
	var payload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(Config{UseResend: true, ResendKey: "re_test", From: "site@example.com"})
	s.resendURL = srv.URL
	err := s.Send(context.Background(), Message{To: []string{"o@example.com"}, ReplyTo: "v@example.com", Subject: "s", HTML: "<p>h</p>", Text: "h"})
	require.NoError(t, err)
	assert.Equal(t, "v@example.com", payload["reply_to"])
	assert.Equal(t, "h", payload["text"])
}

func TestSendResendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	s := New(Config{UseResend: true, ResendKey: "re_test", From: "site@example.com"})
	s.resendURL = srv.URL
	err := s.Send(context.Background(), Message{To: []string{"o@example.com"}})
	assert.ErrorContains(t, err, "invalid from")
}
