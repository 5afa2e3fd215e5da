// Package handler provides HTTP handlers for the chatbot service.
package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/campus-chat/internal/chatbot/biz"
	"github.com/kart-io/campus-chat/pkg/utils/json"
)

// streamErrorMessage 流式回复失败时发给客户端的文案。
const streamErrorMessage = "Sorry, I encountered an error while generating the response. Please try again."

// ChatHandler handles chat HTTP requests.
type ChatHandler struct {
	service biz.Service
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service biz.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// ChatRequest 聊天请求体。session_id 为空时落入默认会话。
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// streamFrame 流式响应的单帧。
type streamFrame struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
	Done    bool   `json:"done"`
}

// Chat 流式聊天接口。以 "data: <json>\n\n" 帧返回增量内容，
// 最后一帧 done 为 true。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	logger.Infof("Received message: %.100s", message)

	c.Header("Content-Type", "text/plain")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)
	flush := func() {
		if canFlush {
			flusher.Flush()
		}
	}

	writeFrame := func(frame streamFrame) {
		data, err := json.Marshal(frame)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flush()
	}

	// 客户端断开时请求上下文被取消，流在下一个片段处终止
	err := h.service.ChatStream(c.Request.Context(), req.SessionID, message, func(fragment string) error {
		writeFrame(streamFrame{Content: fragment, Done: false})
		return nil
	})
	if err != nil {
		logger.Errorw("stream chat failed", "error", err.Error())
		writeFrame(streamFrame{Error: streamErrorMessage, Done: true})
		return
	}

	writeFrame(streamFrame{Done: true})
}

// ChatSimple 非流式聊天接口。
func (h *ChatHandler) ChatSimple(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	result, err := h.service.Chat(c.Request.Context(), req.SessionID, message)
	if err != nil {
		logger.Errorw("simple chat failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Sorry, I encountered an error. Please try again.",
			"success": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":      result.Response,
		"success":       true,
		"used_rag":      result.UsedRAG,
		"rag_available": result.RAGAvailable,
	})
}

// ClearRequest 清空历史请求体。
type ClearRequest struct {
	SessionID string `json:"session_id"`
}

// ClearHistory 清空指定会话的历史。请求体可省略，此时清空默认会话。
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	var req ClearRequest
	// 空请求体是合法的
	_ = c.ShouldBindJSON(&req)

	h.service.ClearHistory(req.SessionID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Conversation history cleared",
		"success": true,
	})
}
