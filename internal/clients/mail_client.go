package clients

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer — внешний отправитель писем. Отказ отправки — штатный исход,
// его разбирает вызывающий код.
type Mailer interface {
	Send(to, subject, textBody, htmlBody string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type smtpMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPMailer(config SMTPConfig) Mailer {
	return &smtpMailer{
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		from:     config.From,
		fromName: config.FromName,
	}
}

func (m *smtpMailer) Send(to, subject, textBody, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
