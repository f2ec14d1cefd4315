package utils

import (
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
)

// Mailer simulates outgoing mail by writing it to the log.
type Mailer struct {
	resetURL string
	log      logrus.FieldLogger
}

func NewMailer(resetURL string, log logrus.FieldLogger) *Mailer {
	return &Mailer{resetURL: resetURL, log: log}
}

// SendPasswordResetEmail "sends" the reset link for token to email.
func (m *Mailer) SendPasswordResetEmail(email, token string) error {
	link, err := url.Parse(m.resetURL)
	if err != nil {
		return fmt.Errorf("invalid password reset url: %w", err)
	}
	q := link.Query()
	q.Set("token", token)
	link.RawQuery = q.Encode()

	m.log.WithFields(logrus.Fields{
		"to":      email,
		"subject": "Reset Your Password",
		"link":    link.String(),
	}).Info("simulated password reset email")
	return nil
}
