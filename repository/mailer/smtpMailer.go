package mailer

import (
	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"
)

// SMTP delivers notifications as plain-text mail. Dial errors are logged and
// swallowed; the library state has already moved on by the time we get here.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
	log    zerolog.Logger
}

func NewSMTP(host string, port int, username, password string, log zerolog.Logger) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
		log:    log,
	}
}

func (s *SMTP) Send(to, subject, body string) bool {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		s.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("smtp send failed")
		return false
	}
	s.log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return true
}
