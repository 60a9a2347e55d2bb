// Package mail is the outbound email boundary. The core never depends on
// it; only registration does, and only when SMTP is configured.
package mail

import (
	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/gauravkharai149-boop/voice-roooom/internal/config"
)

type Sender interface {
	SendWelcome(to string) error
}

// Disabled is the no-op sender used when no SMTP credentials exist.
type Disabled struct{}

func (Disabled) SendWelcome(string) error { return nil }

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// New returns an SMTP-backed sender, or Disabled when the config carries
// no credentials.
func New(cfg config.SMTP) Sender {
	if !cfg.Enabled() {
		log.Info().Str("module", "mail").Msg("no SMTP credentials, mail disabled")
		return Disabled{}
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

func (s *SMTPSender) SendWelcome(to string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to Voice Room")
	m.SetBody("text/plain", "Your account is ready. You can now log in and join a room.")
	if err := s.dialer.DialAndSend(m); err != nil {
		return err
	}
	log.Info().Str("module", "mail").Str("to", to).Msg("welcome mail sent")
	return nil
}
