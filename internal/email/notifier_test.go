package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/stretchr/testify/require"
)

type sent struct {
	to, subject, html, text string
}

type fakeSender struct {
	mu   sync.Mutex
	msgs []sent
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, html, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, sent{to, subject, html, text})
	return f.err
}

func TestNotifier_Welcome(t *testing.T) {
	fs := &fakeSender{}
	n, err := NewNotifier(fs, "https://app.example.com/")
	require.NoError(t, err)

	err = n.SendWelcome(context.Background(), WelcomeVars{
		Name: "Ana", Email: "ana@acme.com", TenantName: "Acme Tours", TenantSlug: "acme-tours",
	})
	require.NoError(t, err)
	require.Len(t, fs.msgs, 1)

	m := fs.msgs[0]
	require.Equal(t, "ana@acme.com", m.to)
	require.Equal(t, "Welcome to Acme Tours", m.subject)
	require.Contains(t, m.text, "Hi Ana")
	require.Contains(t, m.text, "https://app.example.com/login?tenant=acme-tours")
	require.Contains(t, m.html, "<strong>Acme Tours</strong>")
}

func TestNotifier_InviteEscapesToken(t *testing.T) {
	fs := &fakeSender{}
	n, err := NewNotifier(fs, "https://app.example.com")
	require.NoError(t, err)

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	err = n.SendInvite(context.Background(), InviteVars{
		Email: "boss@acme.com", TenantName: "Acme", Token: "a+b/c", ExpiresAt: exp,
	})
	require.NoError(t, err)

	m := fs.msgs[0]
	require.Equal(t, "Set up Acme", m.subject)
	require.Contains(t, m.text, "https://app.example.com/signup/accept?token=a%2Bb%2Fc")
	require.Contains(t, m.text, "02 Jan 2030")
}

func TestNotifier_PropagatesSenderError(t *testing.T) {
	boom := errors.New("smtp down")
	n, err := NewNotifier(&fakeSender{err: boom}, "")
	require.NoError(t, err)
	err = n.SendWelcome(context.Background(), WelcomeVars{Email: "a@x.com", TenantName: "X"})
	require.ErrorIs(t, err, boom)
}

func TestSMTPSender_BuildsMessageAndDialer(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", From: "no-reply@example.com", TLSMode: "ssl", Port: 465})

	var gotDialer *mail.Dialer
	var gotMsg *mail.Message
	s.dial = func(d *mail.Dialer, m *mail.Message) error {
		gotDialer, gotMsg = d, m
		return nil
	}

	require.NoError(t, s.Send(context.Background(), "to@example.com", "Hello", "<p>hi</p>", "hi"))
	require.True(t, gotDialer.SSL)
	require.Equal(t, 465, gotDialer.Port)
	require.Equal(t, "smtp.example.com", gotDialer.TLSConfig.ServerName)
	require.Equal(t, []string{"to@example.com"}, gotMsg.GetHeader("To"))
	require.Equal(t, []string{"Hello"}, gotMsg.GetHeader("Subject"))
}

func TestSMTPSender_Defaults(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "h"})
	d := s.dialer()
	require.Equal(t, 587, d.Port)
	require.False(t, d.SSL)
}

func TestSMTPSender_WrapsDialError(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "h"})
	boom := errors.New("refused")
	s.dial = func(*mail.Dialer, *mail.Message) error { return boom }
	err := s.Send(context.Background(), "a@x.com", "s", "", "t")
	require.ErrorIs(t, err, boom)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, LogSender{}.Send(context.Background(), "a@x.com", "s", "", "body"))
}
