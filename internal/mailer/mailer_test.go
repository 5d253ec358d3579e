package mailer

import (
	"strings"
	"sync"
	"testing"

	"github.com/Pratham2994/Symbiote-sub000/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}
}

func TestMailerDeliversEnqueuedJobs(t *testing.T) {
	m := New(smtpConfig(), zap.NewNop())

	var mu sync.Mutex
	var sent []Email
	done := make(chan struct{}, 1)
	m.send = func(e Email) error {
		mu.Lock()
		sent = append(sent, e)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}

	m.Start(1)
	m.Enqueue(Email{To: "a@example.com", Subject: "hi"})
	<-done
	m.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@example.com", sent[0].To)
}

func TestEnqueueNeverBlocksWhenQueueFull(t *testing.T) {
	m := New(smtpConfig(), zap.NewNop())
	// No workers running: the queue fills up and further jobs are dropped.
	for i := 0; i < 500; i++ {
		m.Enqueue(Email{To: "x@example.com"})
	}
}

func TestDisabledMailerDropsEverything(t *testing.T) {
	m := New(config.SMTPConfig{}, zap.NewNop())
	assert.False(t, m.Enabled())
	m.Start(2)
	m.Enqueue(Email{To: "a@example.com"})
}

func TestBuildNotificationEmailEscapesContent(t *testing.T) {
	body := BuildNotificationEmail(NotificationEmailData{
		Title:   "Team invite",
		Message: "<script>alert(1)</script>",
	})
	assert.Contains(t, body, "Team invite")
	assert.False(t, strings.Contains(body, "<script>"))
}
