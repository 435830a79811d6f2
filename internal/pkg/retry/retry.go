package retry

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts         = 2
	defaultDelay            = 150 * time.Millisecond
	defaultTimeoutIncrement = 600 * time.Millisecond
)

// RetryConfig drives the single-retry policy for retrieval calls: one extra
// attempt after a fixed delay, with the per-call timeout extended by
// TimeoutIncrement on the retry.
type RetryConfig struct {
	Attempts         uint          `env:"ATTEMPTS" envDefault:"2"`
	Delay            time.Duration `env:"DELAY" envDefault:"150ms"`
	TimeoutIncrement time.Duration `env:"TIMEOUT_INCREMENT" envDefault:"600ms"`
}

func (rc *RetryConfig) ToRetryOptions(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Attempts(rc.Attempts),
		retry.Delay(rc.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(IsTimeout),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	}
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts:         defaultAttempts,
		Delay:            defaultDelay,
		TimeoutIncrement: defaultTimeoutIncrement,
	}
}

// IsTimeout classifies an error as a timeout. Only timeout-classified failures
// are retried; everything else degrades to an empty contribution.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
