package email

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/yourusername/casetracker/internal/config"
)

// ErrNotConfigured is returned by Send when no print queue address is set.
var ErrNotConfigured = errors.New("label mail relay is not configured")

// Dialer is the part of *gomail.Dialer the mailer uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// LabelMailer sends rendered labels to the print queue mailbox
type LabelMailer struct {
	from, to string
	dialer   Dialer
}

// NewLabelMailer creates a mailer relaying through the configured SMTP host.
// It returns nil when label mail is not configured.
func NewLabelMailer(c config.LabelConfig) *LabelMailer {
	if c.SMTPHost == "" || c.PrintTo == "" {
		return nil
	}
	// gomail only authenticates when a username is set
	d := gomail.NewDialer(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword)
	return NewLabelMailerWithDialer(c.From, c.PrintTo, d)
}

// NewLabelMailerWithDialer creates a mailer with an explicit dialer
func NewLabelMailerWithDialer(from, to string, d Dialer) *LabelMailer {
	if from == "" {
		from = to
	}
	return &LabelMailer{from: from, to: to, dialer: d}
}

// Send mails one label as a plain-text message with the label attached
// under filename.
func (s *LabelMailer) Send(subject, label, filename string) error {
	if s == nil {
		return ErrNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", label)
	m.Attach(filename)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send label to %s: %w", s.to, err)
	}
	return nil
}
