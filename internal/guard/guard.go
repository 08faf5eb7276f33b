// Package guard implements the abuse-protection layer that runs before the
// authentication pipeline: per-IP request rate limiting, a user-agent
// denylist, and a tighter per-email window on signup. Counters live in
// Redis so limits hold across instances.
package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denial messages returned to clients.
const (
	msgRateLimited   = "Too many requests."
	msgBotDenied     = "Bots are not allowed."
	msgSignupLimited = "Too many signup attempts."
	msgUnavailable   = "Security checks unavailable. Please try again later."
)

// Config tunes the guard windows.
type Config struct {
	RateCapacity   int
	RateInterval   time.Duration
	SignupMax      int
	SignupInterval time.Duration
}

// Guard screens requests before they reach the handlers. A nil Guard or one
// constructed without a redis client passes everything through.
type Guard struct {
	client *redis.Client
	logger *slog.Logger
	cfg    Config
}

// New constructs a Guard. Client may be nil to disable all checks.
func New(client *redis.Client, logger *slog.Logger, cfg Config) *Guard {
	if cfg.RateCapacity <= 0 {
		cfg.RateCapacity = 10
	}
	if cfg.RateInterval <= 0 {
		cfg.RateInterval = 10 * time.Second
	}
	if cfg.SignupMax <= 0 {
		cfg.SignupMax = 5
	}
	if cfg.SignupInterval <= 0 {
		cfg.SignupInterval = 10 * time.Minute
	}
	return &Guard{client: client, logger: logger, cfg: cfg}
}

var botTokens = []string{"bot", "crawler", "spider", "scraper", "curl/", "python-requests"}

func looksLikeBot(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return true
	}
	ua := strings.ToLower(userAgent)
	for _, token := range botTokens {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// hit increments a fixed-window counter and reports whether the window's
// capacity is exceeded.
func (g *Guard) hit(ctx context.Context, key string, capacity int, window time.Duration) (bool, error) {
	count, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("guard: incr %s: %w", key, err)
	}
	if count == 1 {
		if err := g.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("guard: expire %s: %w", key, err)
		}
	}
	return count > int64(capacity), nil
}

func (g *Guard) deny(w http.ResponseWriter, status int, message, reason string) {
	g.logger.Warn("request denied by guard",
		slog.String("reason", reason), slog.Int("status", status))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Middleware screens every request: bot denylist first, then the per-IP
// window. Redis being unreachable fails closed with 503 rather than letting
// unmetered traffic through.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g == nil || g.client == nil {
			next.ServeHTTP(w, r)
			return
		}
		if looksLikeBot(r.UserAgent()) {
			g.deny(w, http.StatusForbidden, msgBotDenied, "bot_detected")
			return
		}
		over, err := g.hit(r.Context(), "guard:ip:"+clientIP(r), g.cfg.RateCapacity, g.cfg.RateInterval)
		if err != nil {
			g.logger.Error("guard check failed", slog.Any("error", err))
			g.deny(w, http.StatusServiceUnavailable, msgUnavailable, "guard_unavailable")
			return
		}
		if over {
			g.deny(w, http.StatusTooManyRequests, msgRateLimited, "rate_limit")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SignupMiddleware adds the tighter per-email window on registrations. It
// peeks at the email field without consuming the body.
func (g *Guard) SignupMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g == nil || g.client == nil {
			next.ServeHTTP(w, r)
			return
		}
		email, restore, err := peekEmail(r)
		if err != nil || email == "" {
			// Malformed bodies are the validator's concern, not the guard's.
			if restore != nil {
				restore()
			}
			next.ServeHTTP(w, r)
			return
		}
		restore()

		key := "guard:signup:" + strings.ToLower(strings.TrimSpace(email))
		over, err := g.hit(r.Context(), key, g.cfg.SignupMax, g.cfg.SignupInterval)
		if err != nil {
			g.logger.Error("signup guard check failed", slog.Any("error", err))
			g.deny(w, http.StatusServiceUnavailable, msgUnavailable, "guard_unavailable")
			return
		}
		if over {
			g.deny(w, http.StatusTooManyRequests, msgSignupLimited, "signup_rate_limit")
			return
		}
		next.ServeHTTP(w, r)
	})
}
