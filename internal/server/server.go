package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 15 * time.Second
	WriteTimeout      = 15 * time.Second
	IdleTimeout       = 60 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Listen creates a TCP listener on the given address.
// Use "127.0.0.1:0" for a random available port.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, "tcp", addr)
}

// Serve starts an HTTP server on the listener and shuts it down gracefully
// when ctx is canceled. Both goroutines run in grp.
func Serve(ctx context.Context, grp *errgroup.Group, srv *http.Server, listener net.Listener, shutdownTimeout time.Duration) {
	srv.ReadHeaderTimeout = ReadHeaderTimeout
	srv.ReadTimeout = ReadTimeout
	srv.WriteTimeout = WriteTimeout
	srv.IdleTimeout = IdleTimeout

	grp.Go(func() error {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// Run listens on addr and serves handler until ctx is canceled.
func Run(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	listener, err := Listen(ctx, addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:  handler,
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	grp, grpCtx := errgroup.WithContext(ctx)
	Serve(grpCtx, grp, srv, listener, ShutdownTimeout)

	logger.InfoContext(ctx, "server listening", slog.String("addr", listener.Addr().String()))

	return grp.Wait()
}
