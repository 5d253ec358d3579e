package mailer

import (
	"fmt"
	"net/smtp"
	"sync"

	"github.com/Pratham2994/Symbiote-sub000/internal/config"

	"go.uber.org/zap"
)

// Email is one outbound notification email job.
type Email struct {
	To      string
	Subject string
	Body    string // HTML
}

// Enqueuer is what producers depend on; the zero-value NopEnqueuer satisfies
// it for tests and for deployments without SMTP configured.
type Enqueuer interface {
	Enqueue(e Email)
}

// Mailer is a fire-and-forget email channel: a bounded queue drained by a
// small worker pool. Enqueue never blocks the request path and failures are
// logged and dropped, since email is never required for correctness.
type Mailer struct {
	cfg  config.SMTPConfig
	jobs chan Email
	log  *zap.Logger
	wg   sync.WaitGroup

	// send is swappable in tests.
	send func(e Email) error
}

// New creates a mailer. Start must be called before Enqueue does anything
// useful.
func New(cfg config.SMTPConfig, log *zap.Logger) *Mailer {
	m := &Mailer{
		cfg:  cfg,
		jobs: make(chan Email, 128),
		log:  log,
	}
	m.send = m.sendSMTP
	return m
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// Start launches the worker pool.
func (m *Mailer) Start(workers int) {
	if !m.Enabled() {
		m.log.Info("mailer disabled, no SMTP host configured")
		return
	}
	for i := 0; i < workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	m.log.Info("mailer started", zap.Int("workers", workers))
}

// Stop closes the queue and waits for in-flight sends.
func (m *Mailer) Stop() {
	close(m.jobs)
	m.wg.Wait()
}

// Enqueue hands a job to the pool without blocking. A full queue drops the
// email; so does a disabled mailer.
func (m *Mailer) Enqueue(e Email) {
	if !m.Enabled() {
		return
	}
	select {
	case m.jobs <- e:
	default:
		m.log.Warn("mail queue full, dropping email", zap.String("to", e.To))
	}
}

func (m *Mailer) worker() {
	defer m.wg.Done()
	for e := range m.jobs {
		if err := m.send(e); err != nil {
			m.log.Error("failed to send email",
				zap.String("to", e.To), zap.Error(err))
		}
	}
}

func (m *Mailer) sendSMTP(e Email) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + e.To + "\r\n" +
		"Subject: " + e.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + e.Body)

	return smtp.SendMail(addr, auth, m.cfg.From, []string{e.To}, msg)
}

// NopEnqueuer discards every email.
type NopEnqueuer struct{}

func (NopEnqueuer) Enqueue(Email) {}
