// Package server serves the build directory for local preview and rebuilds
// the site when its sources change.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cactus-go/cactus/config"
	"github.com/cactus-go/cactus/site"
)

// notFoundPages are tried in order for a custom 404 response. The second form
// is where a prettified 404.html ends up.
var notFoundPages = []string{"404.html", "404/index.html"}

// Server ties the preview handler to a site.
type Server struct {
	cfg          *config.Config
	site         *site.Site
	logger       *slog.Logger
	serverHeader string
	watch        bool
}

// New constructs a server instance. With watch set, source changes trigger rebuilds.
func New(cfg *config.Config, s *site.Site, logger *slog.Logger, serverHeader string, watch bool) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return &Server{cfg: cfg, site: s, logger: logger, serverHeader: strings.TrimSpace(serverHeader), watch: watch}
}

// Handler serves the build directory.
func (s *Server) Handler() http.Handler {
	return s.withServerHeader(s.logRequests(http.HandlerFunc(s.serveBuild)))
}

// Start builds the site, then serves it until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	if _, err := s.site.Build(ctx); err != nil {
		s.logger.Warn("initial build", "error", err)
	}

	if s.watch {
		w, err := newWatcher(s.cfg, s.site, s.logger)
		if err != nil {
			return err
		}
		go w.run(ctx)
	}

	listener, err := listen(s.cfg.Listen)
	if err != nil {
		return err
	}
	s.logger.Info("preview server listening", "address", listener.Addr().String(), "root", s.cfg.BuildDir)

	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(ctxShutdown)
		close(shutdownDone)
	}()

	serveErr := server.Serve(listener)
	if errors.Is(serveErr, http.ErrServerClosed) {
		<-shutdownDone
		return nil
	}
	return serveErr
}

func listen(address string) (net.Listener, error) {
	if after, ok := strings.CutPrefix(address, "unix:"); ok {
		_ = os.Remove(after)
		return net.Listen("unix", after)
	}
	return net.Listen("tcp", address)
}

func (s *Server) serveBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	root := s.cfg.BuildDir
	clean := sanitizeRequestPath(r.URL.Path)
	target := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	if !isWithin(root, target) || !exists(target) {
		s.notFound(w, r)
		return
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() && !exists(filepath.Join(target, "index.html")) {
		s.notFound(w, r)
		return
	}
	http.FileServer(http.Dir(root)).ServeHTTP(w, r)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	var body []byte
	for _, name := range notFoundPages {
		data, err := os.ReadFile(filepath.Join(s.cfg.BuildDir, filepath.FromSlash(name)))
		if err == nil {
			body = data
			break
		}
	}
	if body == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (s *Server) withServerHeader(next http.Handler) http.Handler {
	if s.serverHeader == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverHeader)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.logger.Info("http", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func isWithin(base, target string) bool {
	baseAbs, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

func sanitizeRequestPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	clean := path.Clean(p)
	if clean == "." {
		return "/"
	}
	return clean
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}
