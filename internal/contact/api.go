package contact

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
	maxBodyBytes  = 64 << 10
)

type ServerOptions struct {
	RateEvery time.Duration // one submission per interval per client
	RateBurst int
	QuoteURL  string

	// TrustProxy takes the client address from X-Real-IP / X-Forwarded-For.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool
}

// Server is the HTTP boundary of the contact form
type Server struct {
	router   chi.Router
	submit   Submitter
	limiter  *clientLimiter
	quoteURL string
	log      *zap.Logger
}

func NewServer(s Submitter, opts ServerOptions, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.RateEvery <= 0 {
		opts.RateEvery = 10 * time.Second
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 3
	}
	srv := &Server{
		submit:   s,
		limiter:  newClientLimiter(opts.RateEvery, opts.RateBurst),
		quoteURL: opts.QuoteURL,
		log:      log.Named("api"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/contact/options", srv.options)
		r.With(srv.rateLimit).Post("/contact", srv.contact)
		r.Get("/quote.png", srv.quote)
	})
	srv.router = r
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Options is the body of GET /api/contact/options
type Options struct {
	ProjectTypes []string `json:"projectTypes"`
	Budgets      []string `json:"budgets"`
	Defaults     FormData `json:"defaults"`
}

type submitResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Errors  Errors `json:"errors,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Options{ProjectTypes: ProjectTypes, Budgets: Budgets, Defaults: NewFormData()})
}

func (s *Server) contact(w http.ResponseWriter, r *http.Request) {
	var d FormData
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{Error: "malformed request body"})
		return
	}

	form := NewForm(s.submit)
	form.Load(d)
	err := form.Submit(r.Context())

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, submitResponse{Errors: verr.Errors})
	case err != nil:
		s.log.Error("inquiry not delivered", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, submitResponse{Error: "we could not send your inquiry, please try again"})
	default:
		s.log.Info("inquiry received", zap.String("project_type", d.ProjectType), zap.String("budget", d.Budget))
		writeJSON(w, http.StatusCreated, submitResponse{Status: "received", Message: ThankYou})
	}
}

// quote serves a QR code of the quote link, ?size= in pixels
func (s *Server) quote(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > maxQRSize {
			http.Error(w, "size must be between 64 and 1024", http.StatusBadRequest)
			return
		}
		size = n
	}
	png, err := qrcode.Encode(s.quoteURL, qrcode.Medium, size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientKey(r)) {
			w.Header().Set("Retry-After", "10")
			writeJSON(w, http.StatusTooManyRequests, submitResponse{Error: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// clientLimiter keeps one token bucket per client address. A bucket idle
// long enough to have refilled is indistinguishable from a new one, so such
// buckets are swept.
type clientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type client struct {
	limiter *rate.Limiter
	seen    time.Time
}

const minLimiterIdle = time.Minute

func newClientLimiter(every time.Duration, burst int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*client),
		every:   rate.Every(every),
		burst:   burst,
		idle:    max(minLimiterIdle, every*time.Duration(burst)),
		now:     time.Now,
	}
}

func (l *clientLimiter) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.every, l.burst)}
		l.clients[key] = c
	}
	c.seen = now
	return c.limiter.AllowN(now, 1)
}

func (l *clientLimiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.seen) >= l.idle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
