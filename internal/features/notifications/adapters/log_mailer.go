package adapters

import (
	"context"

	"revive-orders/internal/core/logger"

	"go.uber.org/zap"
)

// LogMailer implements the order engine's NotificationSink by logging the
// email instead of sending it. It is wired when no MAILER_URL is
// configured, so local environments see every notification in the logs.
type LogMailer struct{}

// NewLogMailer creates a LogMailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// SendEmail logs the email and reports success.
func (m *LogMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	logger.Get().Info("Email (log relay)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}
