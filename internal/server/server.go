// Package server exposes a read-only HTTP view of the watcher.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go-jobwatch-automation/internal/scheduler"
	"go-jobwatch-automation/internal/store"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires the health and status routes.
func NewRouter(state *scheduler.RunState, st store.Store, log *slog.Logger) *gin.Engine {
	log = log.With("component", "server")

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "jobwatch is running",
			"status":  "healthy",
		})
	})

	r.GET("/status", func(c *gin.Context) {
		listings, err := st.Load(c.Request.Context())
		if err != nil {
			log.Error("❌ Status: failed to load listings", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "listing store unavailable"})
			return
		}
		c.JSON(http.StatusOK, state.Snapshot(len(listings)))
	})

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start))
	}
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🌐 Status server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("🛑 Status server stopped")
	return nil
}
