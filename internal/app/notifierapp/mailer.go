package notifierapp

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/tiagocodinha/StagelinkApproval/internal/config"
)

type Mailer interface {
	Send(to, toName, subject, htmlBody string) error
}

// SMTPMailer delivers over plain SMTP with STARTTLS, one dial per
// message. Volume is a handful of mails a day, pooling is not worth it.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}, nil
}

func (m *SMTPMailer) Send(to, toName, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", to, toName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}
