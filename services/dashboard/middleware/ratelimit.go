// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// idleClientTTL is how long an unused per-client bucket is kept.
const idleClientTTL = 10 * time.Minute

// RateLimiter holds one token bucket per client IP.
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	onLimited func()
	now       func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastSweep time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second per
// client with bursts up to burst. onLimited, if non-nil, is called for
// every rejected request.
func NewRateLimiter(rps float64, burst int, onLimited func()) *RateLimiter {
	return &RateLimiter{
		limit:     rate.Limit(rps),
		burst:     burst,
		onLimited: onLimited,
		now:       time.Now,
		clients:   make(map[string]*clientBucket),
	}
}

// Allow reports whether a request from key may proceed now. A rejection
// is reported to onLimited.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.bucket(key).Allow() {
		return true
	}
	if rl.onLimited != nil {
		rl.onLimited()
	}
	return false
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > idleClientTTL {
		for k, b := range rl.clients {
			if now.Sub(b.lastSeen) > idleClientTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// Middleware rejects requests over the client's budget with 429 and a
// Retry-After header.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		retry := 1
		if rl.limit > 0 {
			retry = int(math.Ceil(1 / float64(rl.limit)))
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "rate limit exceeded",
			"code":  "rate_limited",
		})
	}
}
