// Package mailer sends account mail (validation and recovery links) over SMTP.
package mailer

import (
	"crypto/tls"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" default:"587"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	FromName string `yaml:"from-name"`
	// SkipVerify disables TLS certificate checks for self hosted relays.
	SkipVerify bool `yaml:"skip-verify"`
}

type Mailer struct {
	config Config
	dialer *gomail.Dialer
}

func NewMailer(cfg Config) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.SkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Mailer{
		config: cfg,
		dialer: d,
	}
}

// Enabled reports whether SMTP is configured. When not enabled the account
// flows fall back to returning tokens in the API response.
func (m *Mailer) Enabled() bool {
	return m.config.Host != "" && m.config.From != ""
}

// Send sends one HTML mail.
func (m *Mailer) Send(to string, subject string, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.config.From, m.config.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrap(err, "mailer")
	}
	return nil
}
