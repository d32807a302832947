package web

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/supply/internal/ops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server for the Supply web UI.
func NewServer(st *ops.State, version, bind string, port int) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(bind, strconv.Itoa(port)),
		Handler:           NewHandler(st, version),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler builds the routed handler, wrapped with cross-origin request
// protection and security headers.
func NewHandler(st *ops.State, version string) http.Handler {
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to create static sub-FS: %v", err)
	}

	h := newHandlers(st, version)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/shopping", http.StatusFound)
	})
	mux.HandleFunc("GET /shopping", h.HandleShopping)
	mux.HandleFunc("POST /shopping/clear", h.HandleShoppingClear)

	mux.HandleFunc("GET /items", h.HandleItems)
	mux.HandleFunc("POST /items", h.HandleItemAdd)
	mux.HandleFunc("POST /items/{id}/edit", h.HandleItemEdit)
	mux.HandleFunc("POST /items/{id}/toggle", h.HandleItemToggle)
	mux.HandleFunc("POST /items/{id}/check", h.HandleItemCheck)
	mux.HandleFunc("POST /items/{id}/delete", h.HandleItemDelete)

	mux.HandleFunc("GET /categories", h.HandleCategories)
	mux.HandleFunc("POST /categories", h.HandleCategoryAdd)
	mux.HandleFunc("POST /categories/{id}/edit", h.HandleCategoryEdit)
	mux.HandleFunc("POST /categories/{id}/delete", h.HandleCategoryDelete)

	mux.HandleFunc("GET /settings", h.HandleSettings)
	mux.HandleFunc("GET /settings/export", h.HandleExport)
	mux.HandleFunc("POST /settings/import", h.HandleImport)
	mux.HandleFunc("POST /settings/reset", h.HandleReset)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	// Every mutation is a form POST; refuse ones sent from another site.
	return securityHeaders(http.NewCrossOriginProtection().Handler(mux))
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and shuts it down on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("Supply UI running at http://%s", srv.Addr)

	if strings.HasPrefix(srv.Addr, "0.0.0.0:") || strings.HasPrefix(srv.Addr, "[::]:") || strings.HasPrefix(srv.Addr, ":") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
