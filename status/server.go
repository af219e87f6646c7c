// Package status exposes the watcher's counters over a small HTTP
// endpoint for local health checks.
package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/framewatch/framewatch/logging"
	"github.com/framewatch/framewatch/watcher"
)

// StatusProvider yields the current watcher snapshot.
type StatusProvider interface {
	Status() watcher.Snapshot
}

// Server serves /health and /status. It carries no state of its own;
// everything comes from the provider on each request.
type Server struct {
	addr     string
	logger   logging.Logger
	provider StatusProvider
	srv      *http.Server
}

func NewServer(addr string, provider StatusProvider, logger logging.Logger) *Server {
	return &Server{
		addr:     addr,
		logger:   logger,
		provider: provider,
	}
}

// Router builds the Gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "framewatch",
		})
	})

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.provider.Status())
	})

	return router
}

// Run serves until ctx is cancelled, then shuts down with a short
// grace period. Cancellation returns nil.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()
	s.logger.Info("Status server listening.", "address", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
