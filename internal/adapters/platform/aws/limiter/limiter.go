package limiter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/deltahdl/driftgate/internal/core/ports"
)

const (
	defaultRateLimitRPS = 20
	minRateLimitRPS     = 1
	maxRateLimitRPS     = 100
)

// Limiter bounds the aggregate rate of AWS read calls across all probers.
// One instance is shared per provider; there is no package-level state.
type Limiter struct {
	rl *rate.Limiter
}

func New(rps int, logger ports.Logger) *Limiter {
	limitValue := defaultRateLimitRPS
	if rps >= minRateLimitRPS && rps <= maxRateLimitRPS {
		limitValue = rps
	} else if rps != 0 {
		logger.Warnf(nil, "Invalid AWS API RPS configured (%d), using default %d RPS. Valid range: %d-%d.",
			rps, defaultRateLimitRPS, minRateLimitRPS, maxRateLimitRPS)
	}
	return &Limiter{rl: rate.NewLimiter(rate.Limit(limitValue), limitValue)}
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.rl.Wait(ctx)
}
