package server

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// clientLimiter keeps one token bucket per client address.
type clientLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// allow reports whether the client may make one more request now.
func (l *clientLimiter) allow(client string) bool {
	return l.get(client).Allow()
}

func (l *clientLimiter) get(client string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[client]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.limiters[client]; ok {
		return lim
	}
	lim = rate.NewLimiter(l.rate, l.burst)
	l.limiters[client] = lim
	return lim
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
