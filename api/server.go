package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/helpdeskhq/chatflash-go/api/controllers"
	"github.com/helpdeskhq/chatflash-go/api/middlewares"
	"github.com/helpdeskhq/chatflash-go/api/notifyhub"
	"github.com/helpdeskhq/chatflash-go/tool"
)

// Server is the development hub: a WebSocket fan-out endpoint plus a small
// local-only HTTP API for publishing test events and inspecting subscribers.
type Server struct {
	port    int
	channel string
	hub     *notifyhub.Hub
	engine  *gin.Engine
	server  *http.Server
	mu      sync.RWMutex
}

// NewServer creates a development hub server listening on port. channel is the
// default broadcast channel used when publish requests omit one.
func NewServer(port int, channel string) *Server {
	return &Server{
		port:    port,
		channel: channel,
		hub:     notifyhub.New(),
	}
}

// Hub returns the underlying channel hub.
func (s *Server) Hub() *notifyhub.Hub {
	return s.hub
}

func (s *Server) connectURL() string {
	return fmt.Sprintf("ws://127.0.0.1:%d/ws", s.port)
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	engine.Use(gin.Recovery())

	engine.GET("/ws", middlewares.OnlyAllowLocal, notifyhub.HandleChannelWS(s.hub))

	v1 := engine.Group("/api/hub/v1", middlewares.OnlyAllowLocal)
	{
		v1.POST("/publish", controllers.PublishEvent(s.hub, s.channel))
		v1.GET("/status", controllers.HubStatus(s.hub, s.channel))
		v1.GET("/qrcode", controllers.GenerateConnectQRCode(s.connectURL()))
	}

	return engine
}

// Start starts the hub server. It blocks until the server stops.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: engine,
	}
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting hub server on %s", s.connectURL())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the hub server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
