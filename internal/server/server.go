package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spendsapp/receipt-service/internal/config"
	"github.com/spendsapp/receipt-service/internal/handler"
	"github.com/spendsapp/receipt-service/internal/middleware"
	"github.com/spendsapp/receipt-service/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server represents the HTTP server for the receipt service
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
}

// NewServer creates and configures a new server instance
func NewServer(cfg *config.Config) *Server {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestResponseLogger(middleware.LoggerConfig{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
	}))

	server := &Server{
		router: router,
		config: cfg,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	server.setupBaseRoutes()

	return server
}

// GetRouter returns the gin router instance
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// setupBaseRoutes configures the routes that exist regardless of wiring
func (s *Server) setupBaseRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Swagger UI lives at /api-docs/index.html
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	s.router.GET("/api-docs/*any", swaggerHandler)

	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})
}

// RegisterRoutes wires the API routes. Receipt routes sit behind the auth
// middleware; token issuance does not.
func (s *Server) RegisterRoutes(receiptHandler *handler.ReceiptHandler, authHandler *handler.AuthHandler, authService service.AuthService) {
	v1 := s.router.Group("/v1")

	v1.POST("/auth/token", authHandler.IssueToken)

	authed := v1.Group("")
	authed.Use(middleware.Auth(authService))
	{
		authed.GET("/me", authHandler.Me)

		authed.POST("/receipts/upload", receiptHandler.UploadReceipt)
		authed.GET("/receipts", receiptHandler.ListReceipts)
		authed.GET("/receipts/:receiptId", receiptHandler.GetReceipt)
		authed.PATCH("/receipts/:receiptId", receiptHandler.PatchReceipt)
		authed.DELETE("/receipts/:receiptId", receiptHandler.DeleteReceipt)
		authed.POST("/receipts/:receiptId/reprocess", receiptHandler.ReprocessReceipt)
		authed.GET("/receipts/:receiptId/summary", receiptHandler.GetReceiptSummary)
	}
}

// Start begins listening for requests and handles graceful shutdown
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited gracefully")
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
