package actions

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorIdle  = 10 * time.Minute
	sweepAtCount = 1024
)

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter hands out one token bucket per client key.
type Limiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
	trusted  []netip.Prefix
	now      func() time.Time
}

func NewLimiter(rps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

// Allow takes a token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		if len(l.visitors) >= sweepAtCount {
			l.sweep(now)
		}
		v = &visitor{lim: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.seen = now
	return v.lim.AllowN(now, 1)
}

func (l *Limiter) sweep(now time.Time) {
	for k, v := range l.visitors {
		if now.Sub(v.seen) > visitorIdle {
			delete(l.visitors, k)
		}
	}
}

// TrustProxies sets the addresses (IPs or CIDRs) whose X-Forwarded-For
// header is believed. Without any, clients are keyed by their remote address.
func (l *Limiter) TrustProxies(addrs []string) error {
	var trusted []netip.Prefix
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if p, err := netip.ParsePrefix(a); err == nil {
			trusted = append(trusted, p.Masked())
			continue
		}
		ip, err := netip.ParseAddr(a)
		if err != nil {
			return fmt.Errorf("trusted proxy %q: %w", a, err)
		}
		trusted = append(trusted, netip.PrefixFrom(ip, ip.BitLen()))
	}
	l.mu.Lock()
	l.trusted = trusted
	l.mu.Unlock()
	return nil
}

func (l *Limiter) isTrusted(host string) bool {
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	ip = ip.Unmap()
	for _, p := range l.trusted {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the remote host of r. When that host is a trusted proxy,
// X-Forwarded-For is walked from the right and the first untrusted hop wins.
func (l *Limiter) ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.isTrusted(host) {
		return host
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !l.isTrusted(hop) {
			return hop
		}
	}
	return host
}

// limited reports whether r exceeded the auth rate limit.
func (s *Service) limited(action string, r *http.Request) (Result, bool) {
	if s.limiter == nil {
		return Result{}, false
	}
	ip := s.limiter.ClientIP(r)
	if s.limiter.Allow(ip) {
		return Result{}, false
	}
	s.logFor(r.Context(), action).WithField("ip", ip).Warn("Rate limit exceeded")
	s.metrics.FailedActions.WithLabelValues(action).Inc()
	return Result{Message: MsgTooManyAttempts, RateLimited: true}, true
}
