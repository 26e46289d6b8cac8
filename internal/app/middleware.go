package app

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/scrollcal/scrollcal/internal/config"
	"github.com/scrollcal/scrollcal/internal/rest"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-Id"

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, cfg config.Application) {
	r.Use(requestLogging)

	if cfg.RateLimit.PerMinute > 0 {
		limiters := newLimiterStore(cfg.RateLimit)
		r.Use(limiters.middleware)
	} else {
		log.Warn("Rate limiting disabled")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// requestLogging tags every request with an id, echoed in X-Request-Id, and logs it when done.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requestID := req.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, req)

		log.WithFields(log.Fields{
			"requestId": requestID,
			"method":    req.Method,
			"path":      req.URL.Path,
			"status":    recorder.status,
			"duration":  time.Since(started),
		}).Debug("Handled request")
	})
}

// limiterStore holds one token bucket per client IP for mutating requests.
// Buckets idle for longer than idleTTL are dropped so the map stays bounded by recent clients.
type limiterStore struct {
	mu                sync.Mutex
	clients           map[string]*clientLimiter
	limit             rate.Limit
	burst             int
	idleTTL           time.Duration
	trustForwardedFor bool
	now               func() time.Time
	lastSweep         time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(cfg config.RateLimit) *limiterStore {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	idleTTL := cfg.IdleTTL
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &limiterStore{
		clients:           make(map[string]*clientLimiter),
		limit:             rate.Every(time.Minute / time.Duration(cfg.PerMinute)),
		burst:             burst,
		idleTTL:           idleTTL,
		trustForwardedFor: cfg.TrustForwardedFor,
		now:               time.Now,
	}
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.idleTTL {
		s.sweep(now)
	}
	client, exists := s.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[ip] = client
	}
	client.lastSeen = now
	return client.limiter
}

// sweep drops idle buckets. Callers hold s.mu.
func (s *limiterStore) sweep(now time.Time) {
	for ip, client := range s.clients {
		if now.Sub(client.lastSeen) > s.idleTTL {
			delete(s.clients, ip)
		}
	}
	s.lastSweep = now
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *limiterStore) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost && req.Method != http.MethodDelete {
			next.ServeHTTP(w, req)
			return
		}
		ip := clientIP(req, s.trustForwardedFor)
		if !s.get(ip).Allow() {
			log.WithField("ip", ip).Warn("Rate limit exceeded")
			rest.WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded", "Try again later")
			return
		}
		next.ServeHTTP(w, req)
	})
}

// clientIP keys a request by its peer address. X-Forwarded-For is client controlled and only
// honoured when the server sits behind a proxy that sets it.
func clientIP(req *http.Request, trustForwardedFor bool) string {
	if trustForwardedFor {
		if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
