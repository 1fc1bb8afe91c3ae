// Package handlers is the HTTP layer: HTML pages for the competition
// UI plus the JSON endpoints the dashboard polls.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atharvakonge/trading-competition/internal/market"
	"github.com/atharvakonge/trading-competition/internal/models"
	"github.com/atharvakonge/trading-competition/internal/store"
	"github.com/atharvakonge/trading-competition/internal/trading"
)

const (
	sessionName    = "trading_session"
	sessionUserKey = "user_id"
)

// Options configures NewServer.
type Options struct {
	// SessionSecret signs session cookies. Empty means a random
	// per-process secret.
	SessionSecret string
	// TemplateGlob locates the HTML templates. Empty skips template
	// loading, for tests that only hit JSON endpoints.
	TemplateGlob string
}

// Server holds the router and the injected stores.
type Server struct {
	R        *gin.Engine
	Store    store.Store
	Market   *market.Service
	Executor *trading.Executor
	Logger   *zap.Logger
}

// NewServer wires middleware, sessions, templates, and routes.
func NewServer(st store.Store, mkt *market.Service, exec *trading.Executor, logger *zap.Logger, opts Options) *Server {
	g := gin.New()
	g.Use(requestLogger(logger))
	g.Use(gin.Recovery())

	secret := opts.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
	}
	g.Use(sessions.Sessions(sessionName, cookie.NewStore([]byte(secret))))

	if opts.TemplateGlob != "" {
		g.LoadHTMLGlob(opts.TemplateGlob)
	}

	s := &Server{
		R:        g,
		Store:    st,
		Market:   mkt,
		Executor: exec,
		Logger:   logger,
	}

	g.GET("/", s.index)
	g.GET("/register", s.registerPage)
	g.POST("/register", s.register)
	g.GET("/login", s.loginPage)
	g.POST("/login", s.login)
	g.GET("/logout", s.logout)
	g.GET("/dashboard", s.dashboard)
	g.POST("/dashboard", s.dashboard)
	g.GET("/leaderboard", s.leaderboard)
	g.GET("/ticker_prices", s.tickerPrices)
	g.GET("/open_positions", s.openPositions)
	g.GET("/ws/prices", s.priceSocket)
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return s
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Next()
		logger.Info("http_request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// currentUser resolves the session to a user record.
func (s *Server) currentUser(c *gin.Context) (models.User, bool) {
	sess := sessions.Default(c)
	id, ok := sess.Get(sessionUserKey).(int)
	if !ok {
		return models.User{}, false
	}
	user, err := s.Store.UserByID(c.Request.Context(), id)
	if err != nil {
		return models.User{}, false
	}
	return user, true
}

// flash queues a one-shot message for the next rendered page.
func flash(c *gin.Context, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg)
	_ = sess.Save()
}

// takeFlashes drains queued messages.
func takeFlashes(c *gin.Context) []string {
	sess := sessions.Default(c)
	raw := sess.Flashes()
	_ = sess.Save()
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func (s *Server) internalError(c *gin.Context, where string, err error) {
	s.Logger.Error("internal_error", zap.String("where", where), zap.Error(err))
	c.String(http.StatusInternalServerError, "internal server error")
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{"Flashes": takeFlashes(c)})
}
