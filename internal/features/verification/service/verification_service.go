package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"revive-orders/internal/core/cache"
	"revive-orders/internal/core/logger"
	ordersports "revive-orders/internal/features/orders/ports"

	"go.uber.org/zap"
)

const (
	// codeTTL is how long a code stays valid after it is issued.
	codeTTL = 10 * time.Minute
	// maxAttempts is how many wrong guesses consume a code.
	maxAttempts = 3
)

var (
	// ErrCodeExpired is returned when no valid code exists for the email.
	ErrCodeExpired = errors.New("verification code expired or never issued")
	// ErrCodeMismatch is returned on a wrong guess with attempts remaining.
	ErrCodeMismatch = errors.New("verification code does not match")
	// ErrTooManyAttempts is returned when the attempt budget is exhausted;
	// the code is consumed and a new one must be requested.
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// codeRecord is the cached state of one issued code.
type codeRecord struct {
	Code     string `json:"code"`
	Attempts int    `json:"attempts"`
}

// VerificationService issues and checks one-time email verification codes.
// Codes live in the shared cache keyed per email, so every instance of the
// service sees the same codes and expiry needs no sweeper.
type VerificationService struct {
	cache  cache.Cache
	mailer ordersports.NotificationSink
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(c cache.Cache, mailer ordersports.NotificationSink) *VerificationService {
	return &VerificationService{
		cache:  c,
		mailer: mailer,
	}
}

func codeKey(email string) string {
	return "verification:" + email
}

// SendCode issues a fresh 6-digit code for the email, replacing any
// previous one, and delivers it through the notification sink.
func (s *VerificationService) SendCode(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	data, err := json.Marshal(codeRecord{Code: code})
	if err != nil {
		return fmt.Errorf("failed to marshal code record: %w", err)
	}
	if err := s.cache.Set(ctx, codeKey(email), data, codeTTL); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	body := fmt.Sprintf(`Hi,

Your verification code is: %s

It expires in %d minutes. If you did not request it, ignore this email.

The Revive & Rewear Team
`, code, int(codeTTL.Minutes()))

	if err := s.mailer.SendEmail(ctx, email, "Your Verification Code", body); err != nil {
		return fmt.Errorf("failed to deliver verification code: %w", err)
	}

	logger.Get().Info("Verification code issued",
		zap.String("email", email),
	)
	return nil
}

// VerifyCode checks the guess against the issued code. A correct guess
// consumes the code; so does exhausting the attempt budget.
func (s *VerificationService) VerifyCode(ctx context.Context, email, guess string) error {
	key := codeKey(email)

	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrCodeExpired
	}
	if err != nil {
		return fmt.Errorf("failed to load verification code: %w", err)
	}

	var record codeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to unmarshal code record: %w", err)
	}

	if guess == record.Code {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("Failed to consume verification code",
				zap.String("email", email),
				zap.Error(err),
			)
		}
		return nil
	}

	record.Attempts++
	if record.Attempts >= maxAttempts {
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Get().Warn("Failed to consume verification code",
				zap.String("email", email),
				zap.Error(err),
			)
		}
		return ErrTooManyAttempts
	}

	data, err = json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal code record: %w", err)
	}
	if err := s.cache.Set(ctx, key, data, codeTTL); err != nil {
		return fmt.Errorf("failed to store attempt count: %w", err)
	}
	return ErrCodeMismatch
}

// generateCode returns a random 6-digit code, zero padded.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
