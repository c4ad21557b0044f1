package email

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Service delivers credential-reset codes. Reset codes are secrets and must
// never appear in logs.
type Service interface {
	SendResetCode(ctx context.Context, to, code string) error
}

// noopService is wired in when SMTP is unconfigured; the reset flow still
// completes, only delivery is skipped.
type noopService struct{}

func NewNoopService() Service {
	return &noopService{}
}

func (s *noopService) SendResetCode(_ context.Context, to, _ string) error {
	log.Warn().Str("recipient", to).Msg("email delivery disabled, reset code not sent")
	return nil
}
