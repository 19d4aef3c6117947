package mail

import (
	"context"

	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
)

var _ model.Mailer = (*LogMailer)(nil)

// LogMailer records emails in the log instead of sending them.
type LogMailer struct {
	logger *logger.Logger
}

func NewLogMailer(l *logger.Logger) *LogMailer {
	return &LogMailer{logger: l}
}

func (m *LogMailer) Send(ctx context.Context, email model.Email) error {
	m.logger.InfoContext(ctx, "email not sent, mailer disabled", "to", email.To, "subject", email.Subject)
	return nil
}
