package middleware

import (
	"sync"
	"time"
)

// InvalidLoginRateLimiter counts failed login attempts per IP.
type InvalidLoginRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	limit    int
	window   time.Duration
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewInvalidLoginRateLimiter allows limit failed attempts per window.
func NewInvalidLoginRateLimiter(limit int, window time.Duration) *InvalidLoginRateLimiter {
	return &InvalidLoginRateLimiter{
		attempts: make(map[string]*attemptInfo),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Blocked reports whether ip has used up its attempts in the current window.
func (r *InvalidLoginRateLimiter) Blocked(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.attempts[ip]
	if !exists || r.now().Sub(info.firstAt) > r.window {
		return false
	}
	return info.count >= r.limit
}

// Allow records a failed attempt and reports whether ip may try again.
func (r *InvalidLoginRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > r.window {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= r.limit {
		return false
	}
	info.count++
	return true
}

// Sweep drops expired windows and returns how many were removed.
func (r *InvalidLoginRateLimiter) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for ip, info := range r.attempts {
		if now.Sub(info.firstAt) > r.window {
			delete(r.attempts, ip)
			n++
		}
	}
	return n
}
