package bridge

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mavsense/mavsense/internal/observability"
)

// serveStatus exposes health, position and Prometheus metrics for field
// debugging over the companion computer's wifi link.
func (s *Service) serveStatus(ctx context.Context, addr string) {
	srv := &http.Server{Addr: addr, Handler: s.statusRouter(time.Now())}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", addr).Msg("status endpoint listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Warn().Err(err).Msg("status endpoint failed")
	}
}

func (s *Service) statusRouter(startedAt time.Time) http.Handler {
	observability.RegisterMetrics()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		s.mu.RLock()
		rows := s.rowsHandled
		lastFix := s.lastFixAt
		s.mu.RUnlock()
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"uptime":      time.Since(startedAt).String(),
			"service":     "mavsense",
			"rows":        rows,
			"last_fix_at": lastFix,
		})
	})

	r.GET("/position", func(c *gin.Context) {
		loc, ok := s.Position()
		if !ok {
			c.JSON(http.StatusOK, gin.H{"fix": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"fix":       true,
			"latitude":  loc.Latitude,
			"longitude": loc.Longitude,
			"altitude":  loc.Altitude,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
