package utils

import (
	"errors"

	"gopkg.in/gomail.v2"
)

var ErrMailerDisabled = errors.New("mailer is not configured")

// Mailer sends plain-text alert mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer returns nil when no SMTP host is configured; a nil *Mailer
// refuses to send.
func NewMailer(host string, port int, user, password string) *Mailer {
	if host == "" {
		return nil
	}
	return &Mailer{dialer: gomail.NewDialer(host, port, user, password), from: user}
}

func (m *Mailer) SendEmail(to, subject, body string) error {
	if m == nil {
		return ErrMailerDisabled
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
