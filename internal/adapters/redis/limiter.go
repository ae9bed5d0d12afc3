package redisad

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"booking_relay/internal/adapters/observability"
	"booking_relay/internal/domain"
	"booking_relay/internal/shared"
)

const keyPrefix = "relay:rl:"

// MinWindow is the shortest window the slot arithmetic supports.
const MinWindow = time.Second

// Limiter is a fixed-window counter shared by every relay instance that
// points at the same Redis.
type Limiter struct {
	c      *redis.Client
	max    int
	window time.Duration
	clock  shared.Clock
}

func New(addr, pass string, db, max int, window time.Duration) *Limiter {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), max, window, nil)
}

func NewWithClient(c *redis.Client, max int, window time.Duration, clock shared.Clock) *Limiter {
	if max <= 0 {
		max = 100
	}
	switch {
	case window <= 0:
		window = 15 * time.Minute
	case window < MinWindow:
		window = MinWindow
	}
	if clock == nil {
		clock = shared.RealClock{}
	}
	return &Limiter{c: c, max: max, window: window, clock: clock}
}

func (l *Limiter) Ping(ctx context.Context) error { return l.c.Ping(ctx).Err() }

func (l *Limiter) Close() error { return l.c.Close() }

// Allow counts one hit for key in the current window. On Redis failure the
// request is allowed and the error is returned alongside.
func (l *Limiter) Allow(ctx context.Context, key string) (domain.Decision, error) {
	now := l.clock.Now()
	slot := now.UnixMilli() / l.window.Milliseconds()
	end := time.UnixMilli((slot + 1) * l.window.Milliseconds())
	k := keyPrefix + key + ":" + strconv.FormatInt(slot, 10)

	var incr *redis.IntCmd
	_, err := l.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.PExpire(ctx, k, end.Sub(now)+time.Second)
		return nil
	})
	if err != nil {
		observability.ObserveRateLimit("redis", "error")
		return domain.Decision{Allowed: true}, errors.Wrap(err, "redis rate limit")
	}

	n := int(incr.Val())
	if n > l.max {
		observability.ObserveRateLimit("redis", "reject")
		return domain.Decision{Allowed: false, RetryAfter: end.Sub(now)}, nil
	}
	observability.ObserveRateLimit("redis", "allow")
	return domain.Decision{Allowed: true, Remaining: l.max - n}, nil
}
