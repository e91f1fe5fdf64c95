// Package proxy fronts a Spring application with a reverse proxy that only
// lets allowlisted clients reach its actuator endpoints.
package proxy

import (
	"context"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/rileyhilliard/actop/internal/access"
	"github.com/rileyhilliard/actop/internal/errors"
	"github.com/rileyhilliard/actop/internal/logger"
)

// DefaultPrefix is the guarded path when Options.Prefix is empty.
const DefaultPrefix = "/actuator"

const shutdownGrace = 5 * time.Second

// Options configures a Server.
type Options struct {
	Listen string
	Target string

	// Prefix is the guarded path prefix. Defaults to DefaultPrefix.
	Prefix string

	FilterEnabled bool
	AllowedIPs    []string

	Log logger.Logger
}

// Server is a guarded reverse proxy.
type Server struct {
	listen    string
	target    *url.URL
	validator *access.Validator
	metrics   *metrics
	log       logger.Logger
	handler   http.Handler
}

// New builds a Server. It does not start listening.
func New(opts Options) (*Server, error) {
	target, err := url.Parse(opts.Target)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, errors.New(errors.ErrProxy,
			"Proxy target '"+opts.Target+"' isn't an absolute URL",
			"Use something like http://localhost:8080")
	}

	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	s := &Server{
		listen:    opts.Listen,
		target:    target,
		validator: access.NewValidator(opts.FilterEnabled, opts.AllowedIPs),
		metrics:   newMetrics(),
		log:       log,
	}

	rp := httputil.NewSingleHostReverseProxy(target)
	rp.ErrorHandler = s.upstreamError

	mux := http.NewServeMux()
	mux.Handle(MetricsPath, s.metrics.handler())
	mux.Handle("/", access.Guard(rp, access.GuardOptions{
		Prefix:    prefix,
		Validator: s.validator,
		Log:       log,
		Observe:   s.metrics.observe,
	}))
	s.handler = mux

	return s, nil
}

// Handler returns the proxy's root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Validator exposes the allowlist, mainly so callers can clear its cache.
func (s *Server) Validator() *access.Validator {
	return s.validator
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrProxy,
			"Couldn't listen on "+s.listen,
			"Pick a free address with --listen")
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. It owns ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("proxy listening on %s, forwarding to %s", ln.Addr(), s.target)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrProxy, "Proxy stopped unexpectedly", "")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	s.log.Info("proxy shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapWithCode(err, errors.ErrProxy, "Proxy didn't shut down cleanly", "")
	}
	return nil
}

func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	s.metrics.upstreamErrors.Inc()
	s.log.Error("proxy %s %s: %v", r.Method, r.URL.Path, err)
	w.WriteHeader(http.StatusBadGateway)
}
