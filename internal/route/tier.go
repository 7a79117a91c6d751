package route

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// newTierBackoff spaces the attempts on one tier by a fixed interval.
func newTierBackoff(ctx context.Context, interval time.Duration, retries int) backoff.BackOffContext {
	return backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(retries)), ctx)
}

type TierError struct {
	Tier *Tier
	Err  error
}

// RunTiers calls do for every tier in order until one succeeds. Each tier is
// retried up to retries extra times. The succeeding tier is returned together
// with the last error of every tier that failed before it.
func RunTiers(ctx context.Context, tiers []*Tier, retries int, interval time.Duration, do func(context.Context, *Tier) error, log *zap.Logger) (*Tier, []*TierError) {
	failures := []*TierError{}

	if retries < 0 {
		retries = 0
	}

	for _, tier := range tiers {
		withRetries := newTierBackoff(ctx, interval, retries)

		attempt := func() error {
			err := do(ctx, tier)
			if err != nil && ctx.Err() != nil {
				return backoff.Permanent(err)
			}

			return err
		}

		notify := func(err error, t time.Duration) {
			log.Debug("error when requesting transcription tier", zap.String("tier", tier.Name), zap.Error(err), zap.Duration("duration", t))
		}

		err := backoff.RetryNotify(attempt, withRetries, notify)
		if err == nil {
			return tier, failures
		}

		failures = append(failures, &TierError{Tier: tier, Err: err})

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}

	return nil, failures
}
