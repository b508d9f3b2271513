package notification

import (
	"context"
	"fmt"
	"time"

	mail "gopkg.in/mail.v2"
)

// SMTPSender sends HTML mail through an SMTP relay
type SMTPSender struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPSender creates a sender for the relay at host:port
func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: mail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send delivers one message. The dialer timeout follows the context deadline.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := *s.dialer
	if deadline, ok := ctx.Deadline(); ok {
		d.Timeout = time.Until(deadline)
	}

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
