// Package prereg keeps signup data between the verification email and the
// moment the user proves ownership of the address.
//
// Entries are keyed by an opaque token and indexed by their 6-digit code.
// Two implementations exist: MemoryStore for a single process and
// RedisStore when REDIS_ADDR is configured. Both expire entries lazily on
// read; MemoryStore additionally supports a periodic Sweep.
package prereg

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/retry"
)

// ErrCodeInUse is returned by Save when another live entry holds the same
// numeric code.
var ErrCodeInUse = errors.New("verification code already in use")

const issueAttempts = 5

type Store interface {
	Save(ctx context.Context, entry *domain.PreRegistration) error
	Get(ctx context.Context, token string) (*domain.PreRegistration, error)
	FindByCode(ctx context.Context, code string) (*domain.PreRegistration, error)
	Delete(ctx context.Context, token string) error
	Len(ctx context.Context) (int, error)
}

// Sweeper is implemented by stores that need explicit expiry.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// Issue fills in token, numeric code and expiry and saves the entry,
// drawing a fresh code when it collides with a live one.
func Issue(ctx context.Context, s Store, entry domain.PreRegistration, now time.Time, ttl time.Duration) (*domain.PreRegistration, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	entry.Token = token
	entry.ExpiresAt = now.Add(ttl)

	err = retry.Do(ctx, retry.Policy{
		Attempts: issueAttempts,
		RetryIf:  func(err error) bool { return errors.Is(err, ErrCodeInUse) },
	}, func(ctx context.Context, _ int) error {
		code, err := NewNumericCode()
		if err != nil {
			return err
		}
		entry.NumericCode = code
		return s.Save(ctx, &entry)
	})
	if err != nil {
		return nil, fmt.Errorf("save pre-registration: %w", err)
	}
	return &entry, nil
}

// NewToken returns 32 random bytes hex encoded.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewNumericCode returns a 6-digit code in [100000, 999999].
func NewNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, s Sweeper, interval time.Duration, name string) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ctx); n > 0 {
				slog.Info("cleaned up expired pre-registrations", "kind", name, "count", n)
			}
		}
	}
}
