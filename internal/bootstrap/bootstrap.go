// Package bootstrap brings the listener up, proves it is reachable and only then
// registers the Trello webhook that points at it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/chxlky/canvas-trello-sync/internal/session"
	"go.uber.org/zap"
)

// ErrProbeFailed means the listener did not answer its own liveness probe.
var ErrProbeFailed = errors.New("local server failed validation")

type Registrar interface {
	RegisterWebhook(ctx context.Context, callbackURL, idModel string) (string, error)
	DeleteWebhook(ctx context.Context, webhookID string) error
}

type Server struct {
	Handler      http.Handler
	State        *session.State
	Registrar    Registrar
	CallbackPath string

	// BindHost defaults to 0.0.0.0; the port always comes from State.
	BindHost string
	// Deregister deletes the webhook after the listener has stopped.
	Deregister bool
	// OnReady runs once after the webhook is registered. Its error is logged only.
	OnReady func(ctx context.Context) error

	ProbeClient     *http.Client
	ShutdownTimeout time.Duration
}

// Run blocks until ctx is cancelled or the listener fails. Any error before the
// webhook is registered stops the listener and is returned.
func (s *Server) Run(ctx context.Context) error {
	host := s.BindHost
	if host == "" {
		host = "0.0.0.0"
	}
	addr := net.JoinHostPort(host, strconv.Itoa(s.State.Port()))

	// Binding synchronously means the socket accepts connections before the probe runs.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("unable to bind server on %s (check TRELLO_CANVAS_PORT): %w", addr, err)
	}

	srv := &http.Server{Handler: s.Handler}
	serveErr := make(chan error, 1)

	zap.L().Info("Starting HTTP server", zap.String("addr", addr))
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	zap.L().Info("Ensuring server is running...", zap.String("probeURL", s.State.ProbeURL()))
	if err := Probe(ctx, s.ProbeClient, s.State.ProbeURL()); err != nil {
		s.shutdown(srv)
		return err
	}

	callbackURL := s.State.CallbackURL(s.CallbackPath)
	board := s.State.Board()
	zap.L().Info("Registering Trello webhook", zap.String("boardID", board.ID), zap.String("callbackURL", callbackURL))

	webhookID, err := s.Registrar.RegisterWebhook(ctx, callbackURL, board.ID)
	if err != nil {
		s.shutdown(srv)
		return fmt.Errorf("failed to register webhook for board %s: %w", board.ID, err)
	}

	if s.OnReady != nil {
		if err := s.OnReady(ctx); err != nil {
			zap.L().Error("Startup task failed", zap.Error(err))
		}
	}

	zap.L().Info("Ready to begin, press enter or Ctrl+C to exit...")

	var runErr error
	select {
	case <-ctx.Done():
		zap.L().Info("Shutdown initiated")
	case runErr = <-serveErr:
		zap.L().Error("Server error", zap.Error(runErr))
	}

	s.shutdown(srv)

	if s.Deregister {
		delCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()
		if err := s.Registrar.DeleteWebhook(delCtx, webhookID); err != nil {
			zap.L().Error("Error deleting webhook for board", zap.String("boardID", board.ID), zap.Error(err))
		} else {
			zap.L().Info("Successfully deleted webhook for board", zap.String("boardID", board.ID))
		}
	}

	return runErr
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.ShutdownTimeout > 0 {
		return s.ShutdownTimeout
	}
	return 10 * time.Second
}

// shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
	defer cancel()

	zap.L().Info("Shutting down HTTP server...")
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Error shutting down server", zap.Error(err))
	} else {
		zap.L().Info("HTTP server shut down gracefully.")
	}
}

// Probe sends a HEAD request to url and fails unless it gets a 2xx answer.
func Probe(ctx context.Context, client *http.Client, url string) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %s", ErrProbeFailed, url, resp.Status)
	}
	return nil
}
