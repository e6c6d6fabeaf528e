package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/matzehuels/lodgrid/pkg/errors"
)

// RateLimitConfig configures a RateLimiter. A non-positive
// RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// TrustProxy reads the client address from X-Forwarded-For and
	// X-Real-IP instead of the connection.
	TrustProxy bool
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config  RateLimitConfig
	logger  *log.Logger
	clients map[string]*rate.Limiter
	mu      sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter starts a limiter. Idle buckets are dropped once a minute
// until Close is called.
func NewRateLimiter(config RateLimitConfig, logger *log.Logger) *RateLimiter {
	if config.Burst < 1 {
		config.Burst = 1
	}
	rl := &RateLimiter{
		config:  config,
		logger:  logger,
		clients: make(map[string]*rate.Limiter),
		stop:    make(chan struct{}),
	}
	if rl.enabled() {
		go rl.cleanupClients(time.Minute)
	}
	return rl
}

func (rl *RateLimiter) enabled() bool {
	return rl.config.RequestsPerSecond > 0
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.clients[ip]
	rl.mu.RUnlock()
	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, exists = rl.clients[ip]; !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)
		rl.clients[ip] = limiter
	}
	return limiter
}

func (rl *RateLimiter) cleanupClients(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.prune(now)
		}
	}
}

// prune drops buckets that have refilled completely.
func (rl *RateLimiter) prune(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, limiter := range rl.clients {
		if limiter.TokensAt(now) >= float64(rl.config.Burst) {
			delete(rl.clients, ip)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Middleware rejects requests over the client's budget with 429 and a
// Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.enabled() {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r, rl.config.TrustProxy)
		if !rl.getLimiter(ip).Allow() {
			rl.logger.Warn("rate limit exceeded",
				"client_ip", ip,
				"method", r.Method,
				"path", r.URL.Path,
				"requests_per_second", rl.config.RequestsPerSecond,
				"burst", rl.config.Burst)

			err := &errors.RateLimitedError{RetryAfter: rl.retryAfter(), Message: "too many requests"}
			w.Header().Set("Retry-After", strconv.Itoa(err.RetryAfter))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error:   string(err.Code()),
				Message: err.Error(),
				Code:    http.StatusTooManyRequests,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfter is the time in whole seconds until one token is available.
func (rl *RateLimiter) retryAfter() int {
	return max(1, int(math.Ceil(1/rl.config.RequestsPerSecond)))
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// The first entry is the client.
			if i := strings.IndexByte(xff, ','); i != -1 {
				return strings.TrimSpace(xff[:i])
			}
			return strings.TrimSpace(xff)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
