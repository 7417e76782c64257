package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dfirmansy/userledger/internal/logging"
	"golang.org/x/time/rate"
)

// RateLimiter implements IP-based request rate limiting. This protects the
// whole HTTP surface; the per-email login lockout is handled separately by
// the auth guard.
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   *logging.Logger
}

// visitor tracks rate limiting state for a single IP
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware creates an IP rate limiting middleware.
// requestsPerSecond is the sustained rate per IP, burst the short-term allowance.
func RateLimitMiddleware(logger *logging.Logger, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	limiter := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   logger,
	}

	go limiter.cleanupVisitors()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := extractIP(r)
			if ip == "" {
				logger.Warn("Rate limiting: unable to extract IP", "remote_addr", r.RemoteAddr)
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(ip) {
				logger.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
				writeRateLimitErrorResponse(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Allow checks if an IP is allowed to make a request
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.rate == 0 {
		return true
	}

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter.Allow()
	}

	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

// cleanupVisitors removes stale visitors to prevent memory growth
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// extractIP extracts the real client IP from the request
func extractIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs; take the first one
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if isValidIP(ip) {
			return ip
		}
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" && isValidIP(xri) {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if isValidIP(r.RemoteAddr) {
			return r.RemoteAddr
		}
		return ""
	}

	if isValidIP(host) {
		return host
	}

	return ""
}

// isValidIP checks if the string is a valid IP address
func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// writeRateLimitErrorResponse writes a rate limit error response
func writeRateLimitErrorResponse(w http.ResponseWriter) {
	response := map[string]string{
		"error": "Too many requests",
		"code":  "RATE_LIMIT_EXCEEDED",
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(response)
}
