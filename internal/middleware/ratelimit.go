package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"account-api/internal/authz"
	"account-api/internal/services"
)

const rateLimitWindow = time.Hour

// RateLimiter applies a fixed-window per-user limit keyed by role.
// Admins are unlimited.
type RateLimiter struct {
	limits map[authz.Role]int
	users  map[string]int
	mu     sync.Mutex
	reset  map[string]time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limits: map[authz.Role]int{
			authz.RoleStandard: 1000,
			authz.RoleAdmin:    -1,
		},
		users: make(map[string]int),
		reset: make(map[string]time.Time),
	}
}

func (rl *RateLimiter) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := services.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		rl.mu.Lock()
		defer rl.mu.Unlock()

		userID := user.ID.String()

		now := time.Now()
		if resetTime, exists := rl.reset[userID]; !exists || now.After(resetTime) {
			rl.reset[userID] = now.Add(rateLimitWindow)
			rl.users[userID] = 0
		}

		limit := rl.limits[user.Role]
		if limit >= 0 && rl.users[userID] >= limit {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rl.reset[userID].Unix(), 10))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		rl.users[userID]++

		if limit >= 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-rl.users[userID]))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rl.reset[userID].Unix(), 10))
		}

		next.ServeHTTP(w, r)
	})
}
