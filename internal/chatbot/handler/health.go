package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/campus-chat/internal/chatbot/biz"
)

// HealthHandler handles health and status requests.
type HealthHandler struct {
	service    biz.Service
	chatModel  string
	embedModel string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(service biz.Service, chatModel, embedModel string) *HealthHandler {
	return &HealthHandler{
		service:    service,
		chatModel:  chatModel,
		embedModel: embedModel,
	}
}

// Health 健康检查。确认模型供应商可达并报告检索状态。
func (h *HealthHandler) Health(c *gin.Context) {
	models, err := h.service.ListModels(c.Request.Context())
	if err != nil {
		logger.Errorw("health check failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	ragStatus := "disabled"
	if h.service.RAGAvailable() {
		ragStatus = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"model":            h.chatModel,
		"embed_model":      h.embedModel,
		"message":          "Enhanced Chatbot API is running",
		"models_available": len(models),
		"rag_system":       ragStatus,
		"srec_data_loaded": h.service.RAGAvailable(),
	})
}

// APIHealth 轻量健康检查，不触达模型供应商。
func (h *HealthHandler) APIHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": float64(time.Now().UnixNano()) / float64(time.Second),
	})
}

// Status 详细状态：模型列表、会话长度、检索状态与业务指标。
// session_id 查询参数缺省为默认会话。
func (h *HealthHandler) Status(c *gin.Context) {
	models, err := h.service.ListModels(c.Request.Context())
	if err != nil {
		logger.Errorw("status check failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "error",
			"error":     err.Error(),
			"connected": false,
		})
		return
	}

	var modelInfo gin.H
	for _, name := range models {
		if strings.Contains(name, h.chatModel) {
			modelInfo = gin.H{"name": name}
			break
		}
	}

	sessionID := c.Query("session_id")

	c.JSON(http.StatusOK, gin.H{
		"model":               h.chatModel,
		"embed_model":         h.embedModel,
		"model_info":          modelInfo,
		"available_models":    models,
		"conversation_length": h.service.HistoryLen(sessionID),
		"status":              "ready",
		"connected":           true,
		"rag_system": gin.H{
			"enabled":           h.service.RAGAvailable(),
			"srec_data_loaded":  h.service.RAGAvailable(),
			"documents_indexed": h.service.DocumentCount(),
		},
		"metrics": h.service.Metrics(),
	})
}
