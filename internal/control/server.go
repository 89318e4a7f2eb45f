// Package control exposes a small HTTP API next to a running crawl: health,
// live status and a remote "ready" signal for when the operator finished the
// manual login from another machine.
package control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go-jobcrawl/internal/crawl"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statusResponse struct {
	Site             string `json:"site"`
	State            string `json:"state"`
	Page             int    `json:"page"`
	Records          int    `json:"records"`
	Failures         int    `json:"failures"`
	PersistErrors    int    `json:"persist_errors"`
	LastPersistError string `json:"last_persist_error,omitempty"`
	Ready            bool   `json:"ready"`
}

// Server implements crawl.ReadyGate and crawl.Observer.
type Server struct {
	site   string
	logger *zap.Logger
	engine *gin.Engine
	http   *http.Server

	mu      sync.Mutex
	status  crawl.Status
	started bool
	ready   chan struct{}
	opened  bool
}

func New(site string, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		site:   site,
		logger: logger,
		ready:  make(chan struct{}),
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.GET("/healthz", s.handleHealth)
	r.GET("/status", s.handleStatus)
	r.POST("/ready", s.handleReady)
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("control server listen on %s: %w", addr, err)
	}
	s.http = &http.Server{Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	s.logger.Info("🛰️ Control server listening", zap.String("addr", ln.Addr().String()))
	if Exposed(addr) {
		s.logger.Warn("⚠️ Control server is reachable from the network and POST /ready is unauthenticated; bind 127.0.0.1 unless the network is trusted",
			zap.String("addr", addr))
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("control server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Exposed reports whether addr listens beyond the loopback interface.
func Exposed(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return true
	}
	if host == "localhost" {
		return false
	}
	ip := net.ParseIP(host)
	return ip == nil || !ip.IsLoopback()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Wait blocks until POST /ready was received or ctx is done.
func (s *Server) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) Observe(st crawl.Status) {
	s.mu.Lock()
	s.status = st
	s.started = true
	s.mu.Unlock()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleStatus(c *gin.Context) {
	s.mu.Lock()
	st, started, opened := s.status, s.started, s.opened
	s.mu.Unlock()

	state := "waiting"
	if started {
		state = st.State.String()
	}
	c.JSON(http.StatusOK, statusResponse{
		Site:             s.site,
		State:            state,
		Page:             st.Page,
		Records:          st.Records,
		Failures:         st.Failures,
		PersistErrors:    st.PersistErrors,
		LastPersistError: st.LastPersistError,
		Ready:            opened,
	})
}

func (s *Server) handleReady(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		c.JSON(http.StatusConflict, gin.H{"error": "crawl already started"})
		return
	}
	s.opened = true
	close(s.ready)
	s.logger.Info("✅ Ready signal received", zap.String("remote", c.ClientIP()))
	c.JSON(http.StatusAccepted, gin.H{"status": "starting"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("control request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
