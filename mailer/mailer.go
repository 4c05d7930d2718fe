// Package mailer sends one-time codes and PDF attachments through an SMTP
// relay.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"gopkg.in/gomail.v2"
)

// ErrPasswordNotSet is returned by the SMTP gateway when no relay password is
// configured.
var ErrPasswordNotSet = errors.New("SMTP password not set")

// Attachment is a file sent alongside a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound plain-text email.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Gateway delivers messages. Implementations block until the relay accepts
// or rejects the message.
type Gateway interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPGateway sends through an authenticated SMTP relay, upgrading the
// connection with STARTTLS when the server offers it.
type SMTPGateway struct {
	cfg SMTPConfig
}

// NewSMTPGateway returns a gateway for cfg. A missing password is reported on
// every Send rather than here, so the server still starts without mail.
func NewSMTPGateway(cfg SMTPConfig) *SMTPGateway {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Password == "" {
		log.Println("Warning: SMTP password not set, mail delivery will fail")
	}
	return &SMTPGateway{cfg: cfg}
}

// Send builds the MIME message and delivers it in one dial.
func (g *SMTPGateway) Send(ctx context.Context, msg Message) error {
	if g.cfg.Password == "" {
		return ErrPasswordNotSet
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", g.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if msg.Attachment != nil {
		content := msg.Attachment.Content
		m.Attach(msg.Attachment.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	d := gomail.NewDialer(g.cfg.Host, g.cfg.Port, g.cfg.Username, g.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}
