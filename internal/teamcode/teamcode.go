package teamcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
	"github.com/wizdeskofficial/wizdeskofficial/internal/retry"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var errTaken = errors.New("team code taken")

// Generator produces candidate team codes.
type Generator func() (string, error)

// TakenFunc reports whether a code is already used by a team. It may also
// claim the code when it is free.
type TakenFunc func(ctx context.Context, code string) (bool, error)

// Generate returns a random upper-case alphanumeric code.
func Generate() (string, error) {
	buf := make([]byte, domain.TeamCodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate team code: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Unique draws codes from gen until one is not taken. It gives up with
// my_errors.ErrTeamCodeExhausted after attempts candidates.
func Unique(ctx context.Context, gen Generator, taken TakenFunc, attempts int) (string, error) {
	var code string
	err := retry.Do(ctx, retry.Policy{
		Attempts: attempts,
		RetryIf:  func(err error) bool { return errors.Is(err, errTaken) },
	}, func(ctx context.Context, _ int) error {
		candidate, err := gen()
		if err != nil {
			return err
		}
		used, err := taken(ctx, candidate)
		if err != nil {
			return fmt.Errorf("check team code: %w", err)
		}
		if used {
			return errTaken
		}
		code = candidate
		return nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return "", fmt.Errorf("%w after %d attempts", my_errors.ErrTeamCodeExhausted, attempts)
		}
		return "", err
	}
	return code, nil
}
