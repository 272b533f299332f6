// Package mailer delivers the transactional email for the auth flows:
// verification codes, welcome notes, password reset links, and reset
// confirmations.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"auth-backend/pkg/utils"

	"go.uber.org/zap"
)

// Sender is what the auth service depends on; tests swap in a fake.
type Sender interface {
	SendVerification(to, code string) error
	SendWelcome(to, fullName string) error
	SendPasswordReset(to, resetURL string) error
	SendResetSuccess(to string) error
}

type SMTPSender struct {
	cfg utils.EmailConfig
	log *zap.Logger
}

func NewSMTPSender(cfg utils.EmailConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log.With(zap.String("component", "mailer"))}
}

func (s *SMTPSender) SendVerification(to, code string) error {
	body := strings.Replace(verificationEmailTemplate, "{verificationCode}", code, 1)
	return s.send(to, "Verify your email", body)
}

func (s *SMTPSender) SendWelcome(to, fullName string) error {
	body := strings.Replace(welcomeEmailTemplate, "{fullname}", fullName, 1)
	return s.send(to, "Welcome to Our Service", body)
}

func (s *SMTPSender) SendPasswordReset(to, resetURL string) error {
	body := strings.Replace(passwordResetRequestTemplate, "{resetURL}", resetURL, 1)
	return s.send(to, "Password Reset Request", body)
}

func (s *SMTPSender) SendResetSuccess(to string) error {
	return s.send(to, "Password Reset Successful", passwordResetSuccessTemplate)
}

func (s *SMTPSender) send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		s.log.Error("Failed to send email",
			zap.Error(err),
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return fmt.Errorf("send email %q to %s: %w", subject, to, err)
	}

	s.log.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
