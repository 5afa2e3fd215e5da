package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/campus-chat/internal/chatbot/conversation"
	"github.com/kart-io/campus-chat/internal/chatbot/metrics"
	"github.com/kart-io/campus-chat/internal/model"
	"github.com/kart-io/campus-chat/pkg/llm"
)

// ChatResult 一次非流式对话的结果。
type ChatResult struct {
	Response     string
	UsedRAG      bool
	RAGAvailable bool
}

// Service 定义聊天服务接口。
type Service interface {
	// Chat 执行一次非流式对话并更新会话历史。
	Chat(ctx context.Context, sessionID, message string) (*ChatResult, error)

	// ChatStream 执行一次流式对话。流提前终止时已产生的部分回复
	// 仍会写入会话历史。
	ChatStream(ctx context.Context, sessionID, message string, handler llm.StreamHandler) error

	// ClearHistory 清空指定会话的历史。
	ClearHistory(sessionID string)

	// HistoryLen 返回指定会话当前的轮数。
	HistoryLen(sessionID string) int

	// RAGAvailable 返回检索是否可用。
	RAGAvailable() bool

	// DocumentCount 返回已索引的文档数量。
	DocumentCount() int

	// ListModels 列出供应商侧可用的模型。
	ListModels(ctx context.Context) ([]string, error)

	// Metrics 返回当前业务指标。
	Metrics() map[string]interface{}
}

// ServiceConfig 聊天服务配置。
type ServiceConfig struct {
	// Generation 发往 LLM 的生成参数。
	Generation *llm.ChatOptions
}

// ChatbotService 组合消息组装、检索与会话管理提供完整的聊天服务。
type ChatbotService struct {
	composer      *Composer
	retriever     *Retriever
	chatProvider  llm.ChatProvider
	conversations *conversation.Manager
	genOpts       *llm.ChatOptions
	metrics       *metrics.ChatMetrics
}

// NewChatbotService 创建聊天服务实例。
func NewChatbotService(
	retriever *Retriever,
	chatProvider llm.ChatProvider,
	conversations *conversation.Manager,
	config *ServiceConfig,
) *ChatbotService {
	return &ChatbotService{
		composer:      NewComposer(retriever),
		retriever:     retriever,
		chatProvider:  chatProvider,
		conversations: conversations,
		genOpts:       config.Generation,
		metrics:       metrics.GetChatMetrics(),
	}
}

// Chat 执行一次非流式对话。回复成功后才写入历史。
func (s *ChatbotService) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	session := s.conversations.Session(sessionID)
	messages := s.composer.Compose(ctx, message, session.Snapshot())
	usedRAG := IsCampusQuestion(message)

	start := time.Now()
	reply, err := s.chatProvider.Chat(ctx, messages, s.genOpts)
	s.metrics.RecordLLMCall(time.Since(start), err)
	s.metrics.RecordChat(false, usedRAG, err)

	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	session.Append(model.RoleUser, message)
	session.Append(model.RoleAssistant, reply)

	return &ChatResult{
		Response:     reply,
		UsedRAG:      usedRAG,
		RAGAvailable: s.retriever.Enabled(),
	}, nil
}

// ChatStream 执行一次流式对话。流正常结束时写入完整回复；
// 提前终止（客户端断开、ctx 取消）时写入已产生的部分回复。
func (s *ChatbotService) ChatStream(ctx context.Context, sessionID, message string, handler llm.StreamHandler) error {
	session := s.conversations.Session(sessionID)
	messages := s.composer.Compose(ctx, message, session.Snapshot())
	usedRAG := IsCampusQuestion(message)

	start := time.Now()
	full, err := s.chatProvider.ChatStream(ctx, messages, s.genOpts, handler)
	s.metrics.RecordLLMCall(time.Since(start), err)
	s.metrics.RecordChat(true, usedRAG, err)

	if err != nil && full == "" {
		return fmt.Errorf("chat stream: %w", err)
	}

	session.Append(model.RoleUser, message)
	session.Append(model.RoleAssistant, full)

	if err != nil {
		logger.Warnw("stream ended early, partial reply kept in history",
			"session_id", sessionID,
			"partial_length", len(full),
			"error", err.Error(),
		)
		return fmt.Errorf("chat stream: %w", err)
	}

	logger.Infof("Response completed. Length: %d", len(full))
	return nil
}

// ClearHistory 清空指定会话的历史。
func (s *ChatbotService) ClearHistory(sessionID string) {
	s.conversations.Session(sessionID).Clear()
}

// HistoryLen 返回指定会话当前的轮数。
func (s *ChatbotService) HistoryLen(sessionID string) int {
	return s.conversations.Session(sessionID).Len()
}

// RAGAvailable 返回检索是否可用。
func (s *ChatbotService) RAGAvailable() bool {
	return s.retriever.Enabled()
}

// DocumentCount 返回已索引的文档数量。
func (s *ChatbotService) DocumentCount() int {
	return s.retriever.DocumentCount()
}

// ListModels 列出供应商侧可用的模型。供应商不支持时返回错误。
func (s *ChatbotService) ListModels(ctx context.Context) ([]string, error) {
	lister, ok := s.chatProvider.(llm.ModelLister)
	if !ok {
		return nil, fmt.Errorf("provider %s does not support model listing", s.chatProvider.Name())
	}
	return lister.ListModels(ctx)
}

// Metrics 返回当前业务指标。
func (s *ChatbotService) Metrics() map[string]interface{} {
	return s.metrics.Stats()
}

// 确保 ChatbotService 实现了 Service 接口。
var _ Service = (*ChatbotService)(nil)
