// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/tournament-backend/internal/core"
)

const (
	ScopeGlobal      = "global"
	ScopeCredentials = "credentials"
)

// ThrottleOptions configures one rate limit bucket family. Scope prefixes
// every key so the global and credential limiters never share a bucket.
type ThrottleOptions struct {
	Scope    string
	Limit    redis_rate.Limit
	Key      func(*http.Request) string
	Skip     func(*http.Request) bool
	FailOpen bool
	Logger   *slog.Logger
}

type Throttle struct {
	redis *redis_rate.Limiter
	local *localBuckets
	opts  ThrottleOptions
}

type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
}

func NewThrottle(rdb *redis.Client, opts ThrottleOptions) *Throttle {
	if opts.Scope == "" {
		opts.Scope = ScopeGlobal
	}
	if opts.Key == nil {
		opts.Key = KeyByIP
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Throttle{
		redis: redis_rate.NewLimiter(rdb),
		local: newLocalBuckets(opts.Limit),
		opts:  opts,
	}
}

func (t *Throttle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.opts.Skip != nil && t.opts.Skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := "ratelimit:" + t.opts.Scope + ":" + t.opts.Key(r)

		d, err := t.check(r.Context(), key)
		if err != nil {
			if t.opts.FailOpen {
				t.opts.Logger.Warn("rate limiter unavailable, allowing request",
					"scope", t.opts.Scope,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}
			core.JSONError(w, core.NewAppError(
				err,
				"rate limiter unavailable",
				http.StatusServiceUnavailable,
				"SERVICE_UNAVAILABLE",
			))
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Scope", t.opts.Scope)
		h.Set("X-RateLimit-Limit", strconv.Itoa(t.opts.Limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))

		if !d.allowed {
			retryAfter := max(int(d.retryAfter.Seconds()), 1)
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSONError(w, core.NewAppError(
				core.ErrRateLimited,
				fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
				http.StatusTooManyRequests,
				"RATE_LIMITED",
			))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// check asks Redis first; the in-process buckets only answer while Redis
// is unreachable, so limits are per instance during an outage.
func (t *Throttle) check(ctx context.Context, key string) (decision, error) {
	res, err := t.redis.Allow(ctx, key, t.opts.Limit)
	if err == nil {
		return decision{
			allowed:    res.Allowed > 0,
			remaining:  res.Remaining,
			retryAfter: res.RetryAfter,
		}, nil
	}

	if t.local == nil {
		return decision{}, fmt.Errorf("redis rate limit: %w", err)
	}
	return t.local.take(key), nil
}

// KeyByIP relies on chi's RealIP having already rewritten RemoteAddr.
func KeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

// KeyByIPAndRoute gives every route its own bucket, so hammering
// /api/login does not eat into /api/register.
func KeyByIPAndRoute(r *http.Request) string {
	return KeyByIP(r) + ":route:" + routeShape(r)
}

func routeShape(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" && pattern != "/*" {
			return r.Method + " " + pattern
		}
	}

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	for i, seg := range segments {
		switch {
		case strings.Contains(seg, "@"):
			segments[i] = "{mail}"
		case isNumeric(seg):
			segments[i] = "{id}"
		}
	}
	return r.Method + " /" + strings.Join(segments, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Every builds a limit of requests per window with the given burst.
func Every(requests, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{Rate: requests, Burst: burst, Period: window}
}

const bucketIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type localBuckets struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	every     rate.Limit
	burst     int
	lastSweep time.Time
}

func newLocalBuckets(limit redis_rate.Limit) *localBuckets {
	if limit.Rate <= 0 || limit.Period <= 0 {
		return nil
	}
	return &localBuckets{
		buckets:   make(map[string]*bucket),
		every:     rate.Limit(float64(limit.Rate) / limit.Period.Seconds()),
		burst:     max(limit.Burst, 1),
		lastSweep: time.Now(),
	}
}

func (l *localBuckets) take(key string) decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	reservation := b.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
		return decision{retryAfter: delay}
	}

	return decision{
		allowed:   true,
		remaining: max(int(b.limiter.TokensAt(now)), 0),
	}
}

// sweep drops idle buckets at most once per TTL, under the caller's lock.
func (l *localBuckets) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < bucketIdleTTL {
		return
	}
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > bucketIdleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
