package api

import (
	"net/http"
	"time"

	"sheetclean/app"
	"sheetclean/internal"

	"github.com/gin-gonic/gin"
)

// Server exposes the clean service over HTTP
type Server struct {
	router  *gin.Engine
	service *app.CleanService
	logger  *internal.Logger
}

// NewServer creates a server with its routes registered
func NewServer(service *app.CleanService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router:  gin.New(),
		service: service,
		logger:  logger.WithComponent("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/normalize", s.handleNormalize)
	api.POST("/profile", s.handleProfile)
	api.POST("/tables", s.handleSaveTable)
	api.GET("/tables", s.handleListTables)
	api.DELETE("/tables/:id", s.handleDropTable)
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("starting sheetclean API on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
