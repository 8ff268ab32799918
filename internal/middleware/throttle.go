package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"lawlow/internal/httputil"
)

// maxThrottleKeys bounds the callers tracked at once; the oldest window is
// evicted first.
const maxThrottleKeys = 10000

type window struct {
	mu      sync.Mutex
	started time.Time
	count   int
}

// Throttle allows limit requests per caller in each fixed window. Callers are
// keyed by user id when authenticated and by client IP otherwise. Requests
// over the limit get 429 with Retry-After.
type Throttle struct {
	limit   int
	period  time.Duration
	windows *expirable.LRU[string, *window]
	mu      sync.Mutex
	now     func() time.Time
	logger  *slog.Logger
	// X-Forwarded-For is only read when the peer is one of these.
	trusted []netip.Prefix
}

// NewThrottle creates a fixed-window limiter
func NewThrottle(limit int, period time.Duration, logger *slog.Logger) *Throttle {
	return &Throttle{
		limit:   limit,
		period:  period,
		windows: expirable.NewLRU[string, *window](maxThrottleKeys, nil, period),
		now:     time.Now,
		logger:  logger,
	}
}

// TrustProxies sets the proxies whose X-Forwarded-For header names the client.
func (t *Throttle) TrustProxies(prefixes []netip.Prefix) *Throttle {
	t.trusted = prefixes
	return t
}

// Allow counts a request for key and reports whether it is within the limit.
// When it is not, retryAfter is the time left in the current window.
func (t *Throttle) Allow(key string) (ok bool, retryAfter time.Duration) {
	now := t.now()

	t.mu.Lock()
	w, found := t.windows.Get(key)
	if !found || now.Sub(w.started) >= t.period {
		w = &window{started: now}
		t.windows.Add(key, w)
	}
	t.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.count++
	if w.count > t.limit {
		return false, t.period - now.Sub(w.started)
	}
	return true, 0
}

// Wrap applies the throttle to one handler
func (t *Throttle) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := t.key(r)
		ok, retryAfter := t.Allow(key)
		if !ok {
			t.logger.Warn("request throttled", "key", key, "path", r.URL.Path)
			seconds := int(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			httputil.RespondError(w, http.StatusTooManyRequests, "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
			return
		}
		next(w, r)
	}
}

func (t *Throttle) key(r *http.Request) string {
	if userID, ok := httputil.GetUserID(r); ok {
		return "user:" + userID.String()
	}
	return "ip:" + t.clientIP(r)
}

// clientIP is the peer address unless the peer is a trusted proxy. Then the
// forwarded chain is walked from the right and the first untrusted hop wins.
func (t *Throttle) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	fwd := r.Header.Values("X-Forwarded-For")
	if len(fwd) == 0 || !t.isTrusted(host) {
		return host
	}

	hops := strings.Split(strings.Join(fwd, ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !t.isTrusted(hop) {
			return hop
		}
		host = hop
	}
	return host
}

func (t *Throttle) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
