// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts and graceful shutdown.
//
// Production hardening recommends:
//
//   - ReadHeaderTimeout  abort slow-loris headers
//   - ReadTimeout        cap request body reads
//   - WriteTimeout       cap total response time
//   - IdleTimeout        close keep-alives on idle clients
//
// Values come from the `http` config block; zero falls back to the
// defaults below so tests can pass an empty config.

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/tenantgate/internal/config"
)

const (
	defaultRead     = 10 * time.Second
	defaultWrite    = 15 * time.Second
	defaultIdle     = 60 * time.Second
	defaultShutdown = 15 * time.Second
)

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// New constructs an *http.Server from cfg.
func New(cfg config.HTTP, handler http.Handler) *http.Server {
	read := orDefault(cfg.ReadTimeout, defaultRead)
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: read,
		ReadTimeout:       read,
		WriteTimeout:      orDefault(cfg.WriteTimeout, defaultWrite),
		IdleTimeout:       orDefault(cfg.IdleTimeout, defaultIdle),
	}
}

// Run serves on ln until ctx is cancelled, then drains in-flight requests
// for up to shutdown.  Request contexts keep ctx's values but not its
// cancellation, so lookups already in flight finish during the drain.
func Run(ctx context.Context, srv *http.Server, ln net.Listener, shutdown time.Duration) error {
	srv.BaseContext = func(net.Listener) context.Context { return context.WithoutCancel(ctx) }

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.S().Infow("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), orDefault(shutdown, defaultShutdown))
		defer cancel()
		zap.S().Infow("http server shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
