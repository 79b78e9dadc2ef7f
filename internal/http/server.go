package http

import (
	"context"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"billing/internal/core"
	"billing/internal/services"
	"billing/internal/sheets"
	appweb "billing/web"
)

// Services bundles the application services the server depends on.
type Services struct {
	Products  *services.ProductService
	Customers *services.CustomerService
	Invoices  *services.InvoiceService
	Settings  *services.SettingsService
}

type Server struct {
	http.Server
	templates *template.Template
	services  Services

	// sheetReader pulls rows from the configured import tab. Nil when no
	// spreadsheet is configured; the /import/sheet route then reports it.
	sheetReader sheets.RangeReader
	importSheet string

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svcs Services, sheetReader sheets.RangeReader, importSheet string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		services:    svcs,
		sheetReader: sheetReader,
		importSheet: importSheet,
		rateLimiter: newRateLimiter(),
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(template.FuncMap{
		"money": formatMoney,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Tiny cache for static assets
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/products", s.withSecurityHeaders(s.handleCreateProduct))
	mux.HandleFunc("/products/update", s.withSecurityHeaders(s.handleUpdateProduct))
	mux.HandleFunc("/products/delete", s.withSecurityHeaders(s.handleDeleteProduct))

	mux.HandleFunc("/customers", s.withSecurityHeaders(s.handleCreateCustomer))
	mux.HandleFunc("/customers/update", s.withSecurityHeaders(s.handleUpdateCustomer))
	mux.HandleFunc("/customers/delete", s.withSecurityHeaders(s.handleDeleteCustomer))

	mux.HandleFunc("/invoices", s.withSecurityHeaders(s.handleCreateInvoice))
	mux.HandleFunc("/invoices/status", s.withSecurityHeaders(s.handleInvoiceStatus))
	mux.HandleFunc("/invoices/delete", s.withSecurityHeaders(s.handleDeleteInvoice))
	mux.HandleFunc("/invoices/pdf", s.withSecurityHeaders(s.handleInvoicePDF))

	mux.HandleFunc("/settings", s.withSecurityHeaders(s.handleSaveSettings))

	mux.HandleFunc("/import/products", s.withSecurityHeaders(s.handleImportProducts))
	mux.HandleFunc("/import/template", s.withSecurityHeaders(s.handleImportTemplate))
	mux.HandleFunc("/import/sheet", s.withSecurityHeaders(s.handleImportSheet))

	// UI partials
	mux.HandleFunc("/ui/products", s.withSecurityHeaders(s.handleProductsTable))
	mux.HandleFunc("/ui/customers", s.withSecurityHeaders(s.handleCustomersTable))
	mux.HandleFunc("/ui/invoices", s.withSecurityHeaders(s.handleInvoicesTable))

	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// indexData feeds the single-page template with every collection.
type indexData struct {
	Products  interface{}
	Customers interface{}
	Invoices  interface{}
	Settings  interface{}

	// ProductsJSON carries the product dropdown data pre-encoded with
	// encoding/json, so product names with quotes stay valid JSON in the
	// data attribute.
	ProductsJSON string
}

// productOption is the subset of a product the invoice item picker needs.
type productOption struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
}

func encodeProductOptions(products []core.Product) string {
	options := make([]productOption, 0, len(products))
	for _, p := range products {
		options = append(options, productOption{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Discount: p.Discount,
		})
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	products := s.services.Products.List(ctx)
	data := indexData{
		Products:     products,
		Customers:    s.services.Customers.List(ctx),
		Invoices:     s.services.Invoices.List(ctx),
		Settings:     s.services.Settings.Settings(ctx),
		ProductsJSON: encodeProductOptions(products),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(ctx, "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
