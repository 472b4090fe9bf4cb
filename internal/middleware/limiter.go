package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront-web/internal/logger"
	"storefront-web/internal/visitor"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Login / register / checkout / review submissions (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// Page views and cart clicks (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// Internal / trusted services
	limitInternal = rate.Limit(100)
	burstInternal = 200

	idleTTL = 3 * time.Minute
)

// strictPaths are the form posts that reach the remote API with credentials
// or create records.
var strictPaths = map[string]bool{
	"/login":          true,
	"/register":       true,
	"/checkout":       true,
	"/product/review": true,
	"/newsletter":     true,
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per identity and tier. The strict tier
// is always charged to the source IP; the other tiers to the visitor when the
// request carried its id, to the source IP otherwise.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*client
	internalKey string
	trustProxy  bool
	now         func() time.Time
}

// NewRateLimiter builds a limiter. With trustProxy the source IP is the last
// X-Forwarded-For hop, the one added by the proxy in front of the server.
func NewRateLimiter(internalKey string, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		clients:     make(map[string]*client),
		internalKey: internalKey,
		trustProxy:  trustProxy,
		now:         time.Now,
	}
}

// Run evicts idle buckets every minute until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *RateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, c := range l.clients {
		if l.now().Sub(c.lastSeen) > idleTTL {
			delete(l.clients, key)
		}
	}
}

func (l *RateLimiter) get(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, exists := l.clients[key]
	if !exists {
		c = &client{limiter: rate.NewLimiter(r, b)}
		l.clients[key] = c
	}
	c.lastSeen = l.now()
	return c.limiter
}

// Middleware rejects requests over quota with 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Determine Rate Tier
		limit, burst, tier := l.resolveRateTier(r)

		// 2. Determine Identity Key
		key := l.identity(r, tier) + ":" + tier

		if !l.get(key, limit, burst).Allow() {
			logger.FromCtx(r.Context()).Warn("rate limit exceeded",
				zap.String("tier", tier),
				zap.String("path", r.URL.Path),
			)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	if l.internalKey != "" && r.Header.Get("X-Service-Auth") == l.internalKey {
		return limitInternal, burstInternal, "internal"
	}

	if r.Method == http.MethodPost && strictPaths[r.URL.Path] {
		return limitStrict, burstStrict, "strict"
	}

	return limitGeneral, burstGeneral, "general"
}

// identity picks who pays for the request. Ids minted for this request are
// free to obtain, so they never get a bucket of their own.
func (l *RateLimiter) identity(r *http.Request, tier string) string {
	if tier == "strict" {
		return "ip:" + l.sourceIP(r)
	}
	ctx := r.Context()
	if id := visitor.IDFrom(ctx); id != "" && !visitor.IsNew(ctx) {
		return "visitor:" + id
	}
	return "ip:" + l.sourceIP(r)
}

func (l *RateLimiter) sourceIP(r *http.Request) string {
	if l.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			hops := strings.Split(fwd, ",")
			if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
				return last
			}
		}
	}
	return remoteHost(r)
}

// clientIP is the originating address as reported by proxies, for logs.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
