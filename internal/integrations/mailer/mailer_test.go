package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "smtp.local", Port: 2525, From: "BTR <noreply@btr.local>"})
	m.now = func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) }

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
	)
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "rider@example.com", "Бронь подтверждена", "line1\nline2"))

	assert.Equal(t, "smtp.local:2525", gotAddr)
	assert.Equal(t, "noreply@btr.local", gotFrom)
	assert.Equal(t, []string{"rider@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "To: rider@example.com\r\n")
	assert.Contains(t, gotMsg, "Subject: =?utf-8?q?")
	assert.True(t, strings.HasSuffix(gotMsg, "line1\r\nline2\r\n"))
}

func TestSMTPMailer_Errors(t *testing.T) {
	m := NewSMTPMailer(Config{Host: "smtp.local", Port: 25, From: "noreply@btr.local"})
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 busy") }

	assert.ErrorIs(t, m.Send(context.Background(), " ", "s", "b"), ErrNoRecipient)
	assert.ErrorIs(t, m.Send(context.Background(), "a@b.c", "s", "b"), ErrSend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, "a@b.c", "s", "b"), ErrSend)
}
