// Package router wires chatbot handlers onto the gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/campus-chat/internal/chatbot/handler"
	"github.com/kart-io/campus-chat/pkg/middleware"
)

// Config holds router dependencies.
type Config struct {
	ChatHandler   *handler.ChatHandler
	HealthHandler *handler.HealthHandler
	CORS          middleware.CORSConfig
}

// New builds the gin engine with middleware and routes registered.
func New(cfg *Config) *gin.Engine {
	logger.Info("Registering chatbot routes...")

	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORSWithConfig(cfg.CORS),
	)

	engine.GET("/", cfg.HealthHandler.Health)
	engine.GET("/api/health", cfg.HealthHandler.APIHealth)
	engine.GET("/status", cfg.HealthHandler.Status)

	engine.POST("/chat", cfg.ChatHandler.Chat)
	engine.POST("/chat/simple", cfg.ChatHandler.ChatSimple)
	engine.POST("/chat/clear", cfg.ChatHandler.ClearHistory)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	logger.Info("HTTP routes registered")
	return engine
}
