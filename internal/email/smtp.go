package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medibook/hospital-api/config"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendResetCode(_ context.Context, to, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your password reset code")
	m.SetBody("text/plain", fmt.Sprintf(
		"Your password reset code is %s. It expires in one hour.\n\n"+
			"If you did not request a reset, you can ignore this message.", code))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}
