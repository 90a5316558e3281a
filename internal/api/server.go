// Package api exposes the VitalPulse HTTP surface: auth, the four health
// collections, SOS dispatch, the assistant proxy, session state, and a
// websocket push channel for reminders and toasts.
package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/just-rehan/vitality-companion/internal/assist"
	"github.com/just-rehan/vitality-companion/internal/auth"
	"github.com/just-rehan/vitality-companion/internal/config"
	"github.com/just-rehan/vitality-companion/internal/metrics"
	"github.com/just-rehan/vitality-companion/internal/session"
	"github.com/just-rehan/vitality-companion/internal/sos"
	"github.com/just-rehan/vitality-companion/internal/store"
	"github.com/just-rehan/vitality-companion/internal/tracker"
	"go.uber.org/zap"
)

// Server handles HTTP API and WebSocket
type Server struct {
	app     *fiber.App
	config  *config.Config
	store   *store.Store
	tracker *tracker.Tracker
	session *session.Session
	sos     *sos.Coordinator
	assist  *assist.Service
	auth    *auth.Service
	metrics *metrics.Metrics
	hub     *Hub
	logger  *zap.Logger
}

// New creates a new API server
func New(
	cfg *config.Config,
	st *store.Store,
	tr *tracker.Tracker,
	sess *session.Session,
	coordinator *sos.Coordinator,
	assistant *assist.Service,
	authService *auth.Service,
	m *metrics.Metrics,
	log *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	s := &Server{
		app:     app,
		config:  cfg,
		store:   st,
		tracker: tr,
		session: sess,
		sos:     coordinator,
		assist:  assistant,
		auth:    authService,
		metrics: m,
		hub:     NewHub(log),
		logger:  log,
	}

	// Session changes are pushed to every connected browser.
	sess.SetListener(s.hub.Broadcast)

	s.setupRoutes()
	return s
}

// Hub returns the websocket hub so other components (the reminder
// notifier) can broadcast directly.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(s.config.Security.AllowOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	s.app.Use(s.countRequests())

	s.app.Get("/api/health", s.handleHealth)
	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	api := s.app.Group("/api")

	api.Post("/auth/login", s.handleLogin)

	protected := api.Use(s.authMiddleware())

	protected.Get("/me", s.handleCurrentUser)

	protected.Get("/medications", s.handleListMedications)
	protected.Post("/medications", s.handleAddMedication)
	protected.Delete("/medications/:id", s.handleRemoveMedication)
	protected.Patch("/medications/:id", s.handleUpdateMedication)
	protected.Post("/medications/:id/explain", s.handleExplainMedication)

	protected.Get("/vitals", s.handleListVitals)
	protected.Post("/vitals", s.handleAddVital)

	protected.Get("/allergies", s.handleListAllergies)
	protected.Post("/allergies", s.handleAddAllergy)
	protected.Delete("/allergies/:id", s.handleRemoveAllergy)

	protected.Get("/sos", s.handleSOSHistory)
	protected.Post("/sos/dispatch", s.handleSOSDispatch)

	protected.Post("/chat", s.handleChat)
	protected.Post("/symptoms/analyze", s.handleAnalyzeSymptoms)

	protected.Get("/session", s.handleGetSession)
	protected.Put("/session/view", s.handleSetView)
	protected.Delete("/session/notification", s.handleDismissNotification)

	s.app.Get("/ws", websocket.New(s.hub.Serve))
}

// Start starts the server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Address, s.config.Server.Port)
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the fiber app for tests
func (s *Server) App() *fiber.App {
	return s.app
}
