package service

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"revive-orders/internal/core/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureMailer records the last email so tests can read the issued code.
type captureMailer struct {
	mu   sync.Mutex
	to   string
	body string
}

func (m *captureMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = to
	m.body = body
	return nil
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func (m *captureMailer) code(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	match := codePattern.FindStringSubmatch(m.body)
	require.NotNil(t, match, "email should contain a 6-digit code")
	return match[1]
}

func newVerification(t *testing.T) (*VerificationService, *captureMailer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisCache, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { redisCache.Close() })

	mailer := &captureMailer{}
	return NewVerificationService(redisCache, mailer), mailer, mr
}

// TestVerificationService_SendAndVerify verifies the happy path and code
// consumption on success.
func TestVerificationService_SendAndVerify(t *testing.T) {
	svc, mailer, _ := newVerification(t)

	require.NoError(t, svc.SendCode(context.Background(), "user@test.com"))
	assert.Equal(t, "user@test.com", mailer.to)

	code := mailer.code(t)
	require.NoError(t, svc.VerifyCode(context.Background(), "user@test.com", code))

	// Consumed: a second use fails.
	assert.ErrorIs(t, svc.VerifyCode(context.Background(), "user@test.com", code), ErrCodeExpired)
}

// TestVerificationService_Mismatch verifies wrong guesses within the
// attempt budget leave the code usable.
func TestVerificationService_Mismatch(t *testing.T) {
	svc, mailer, _ := newVerification(t)

	require.NoError(t, svc.SendCode(context.Background(), "user@test.com"))
	code := mailer.code(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	assert.ErrorIs(t, svc.VerifyCode(context.Background(), "user@test.com", wrong), ErrCodeMismatch)
	assert.ErrorIs(t, svc.VerifyCode(context.Background(), "user@test.com", wrong), ErrCodeMismatch)

	// Still valid on the third, correct attempt.
	require.NoError(t, svc.VerifyCode(context.Background(), "user@test.com", code))
}

// TestVerificationService_AttemptExhaustion verifies the code is consumed
// after the attempt budget, even for a late correct guess.
func TestVerificationService_AttemptExhaustion(t *testing.T) {
	svc, mailer, _ := newVerification(t)

	require.NoError(t, svc.SendCode(context.Background(), "user@test.com"))
	code := mailer.code(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	assert.ErrorIs(t, svc.VerifyCode(context.Background(), "user@test.com", wrong), ErrCodeMismatch)
	assert.ErrorIs(t, svc.VerifyCode(context.Background(), "user@test.com", wrong), ErrCodeMismatch)
	assert.ErrorIs(t, svc.VerifyCode(context.Background(), "user@test.com", wrong), ErrTooManyAttempts)

	assert.ErrorIs(t, svc.VerifyCode(context.Background(), "user@test.com", code), ErrCodeExpired)
}

// TestVerificationService_Expiry verifies codes die with their TTL.
func TestVerificationService_Expiry(t *testing.T) {
	svc, mailer, mr := newVerification(t)

	require.NoError(t, svc.SendCode(context.Background(), "user@test.com"))
	code := mailer.code(t)

	mr.FastForward(codeTTL + time.Minute)

	assert.ErrorIs(t, svc.VerifyCode(context.Background(), "user@test.com", code), ErrCodeExpired)
}

// TestVerificationService_Reissue verifies a new code replaces the old one.
func TestVerificationService_Reissue(t *testing.T) {
	svc, mailer, _ := newVerification(t)

	require.NoError(t, svc.SendCode(context.Background(), "user@test.com"))
	first := mailer.code(t)

	require.NoError(t, svc.SendCode(context.Background(), "user@test.com"))
	second := mailer.code(t)

	if first != second {
		assert.ErrorIs(t, svc.VerifyCode(context.Background(), "user@test.com", first), ErrCodeMismatch)
	}
	require.NoError(t, svc.VerifyCode(context.Background(), "user@test.com", second))
}
