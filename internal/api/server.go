// Package api serves assignments and notes over a JSON REST API.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/satchel/internal/assignment"
	"github.com/zulandar/satchel/internal/logging"
	"github.com/zulandar/satchel/internal/note"
	"github.com/zulandar/satchel/internal/store"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	Assignments    *assignment.Service
	Notes          *note.Service
	DataDir        store.DataDir
	Port           int
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Version        string
	Out            io.Writer
	Now            func() time.Time // export timestamps; defaults to time.Now
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(opts StartOpts) (*gin.Engine, error) {
	if opts.Assignments == nil {
		return nil, fmt.Errorf("api: assignment service is required")
	}
	if opts.Notes == nil {
		return nil, fmt.Errorf("api: note service is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	router := gin.New()
	router.Use(
		recovery(),
		requestLogger(),
		securityHeaders(),
		cors(opts.CORSOrigins),
		requestTimeout(opts.RequestTimeout),
		bodyLimit(opts.MaxBodyBytes),
	)
	router.NoRoute(notFound)
	router.NoMethod(notFound)

	h := &handler{
		assignments: opts.Assignments,
		notes:       opts.Notes,
		dataDir:     opts.DataDir,
		version:     opts.Version,
		now:         opts.Now,
	}
	registerRoutes(router, h)
	return router, nil
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Port <= 0 {
		opts.Port = 5000
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Logger.WithError(err).Warn("api: shutdown")
		}
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Satchel API running at http://localhost:%d/api\n", opts.Port)
	}
	logging.Logger.WithField("addr", addr).Info("api: listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
