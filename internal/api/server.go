// Package api exposes the card engine over HTTP with gin.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/youruser/cardforge/internal/config"
)

// maxUpload bounds multipart bodies held in memory; larger parts spill to disk.
const maxUpload = 64 << 20

type Server struct {
	cfg     *config.Config
	logger  *log.Logger
	workDir string
	engine  *gin.Engine
}

// NewServer builds the gin engine with request logging, recovery and request
// ids. Per-request scratch directories live under cfg.Server.WorkDir, or the
// system temp directory.
func NewServer(cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	workDir := cfg.Server.WorkDir
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "cardforge-api")
	}
	s := &Server{cfg: cfg, logger: logger, workDir: workDir}

	r := gin.Default()
	r.MaxMultipartMemory = maxUpload
	r.Use(requestID(workDir, logger))
	s.RegisterRoutes(r)
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", "http://"+displayAddr(addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
