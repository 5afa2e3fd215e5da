// Package chatbot provides the campus chatbot server implementation.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/campus-chat/internal/chatbot/biz"
	"github.com/kart-io/campus-chat/internal/chatbot/conversation"
	"github.com/kart-io/campus-chat/internal/chatbot/handler"
	"github.com/kart-io/campus-chat/internal/chatbot/knowledge"
	"github.com/kart-io/campus-chat/internal/chatbot/router"
	"github.com/kart-io/campus-chat/pkg/app"
	"github.com/kart-io/campus-chat/pkg/llm"
	// 导入 LLM 供应商以自动注册
	_ "github.com/kart-io/campus-chat/pkg/llm/ollama"
	"github.com/kart-io/campus-chat/pkg/middleware"
	historyopts "github.com/kart-io/campus-chat/pkg/options/history"
	llmopts "github.com/kart-io/campus-chat/pkg/options/llm"
	logopts "github.com/kart-io/campus-chat/pkg/options/logger"
	middlewareopts "github.com/kart-io/campus-chat/pkg/options/middleware"
	ragopts "github.com/kart-io/campus-chat/pkg/options/rag"
	httpopts "github.com/kart-io/campus-chat/pkg/options/server/http"
)

// Name is the name of the application.
const Name = "campus-chat"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions       *httpopts.Options
	LogOptions        *logopts.Options
	EmbeddingOptions  *llmopts.ProviderOptions
	ChatOptions       *llmopts.ProviderOptions
	GenerationOptions *llmopts.GenerationOptions
	RAGOptions        *ragopts.Options
	HistoryOptions    *historyopts.Options
	CORSOptions       *middlewareopts.CORSOptions
	ShutdownTimeout   time.Duration
}

// Server represents the chatbot server.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	printBanner(cfg)

	// 1. 初始化日志
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.GetVersion())
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting campus chatbot service...")

	// 2. 初始化 LLM 供应商
	embedProvider, err := llm.NewEmbeddingProvider(cfg.EmbeddingOptions.Provider, cfg.EmbeddingOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	logger.Infow("Embedding provider initialized",
		"provider", cfg.EmbeddingOptions.Provider,
		"model", cfg.EmbeddingOptions.Model,
	)

	chatProvider, err := llm.NewChatProvider(cfg.ChatOptions.Provider, cfg.ChatOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	logger.Infow("Chat provider initialized",
		"provider", cfg.ChatOptions.Provider,
		"model", cfg.ChatOptions.Model,
	)

	// 3. 启动探测：确认供应商可达、所需模型已拉取。仅告警，不阻止启动。
	probeModels(ctx, chatProvider, cfg.ChatOptions.Model, cfg.EmbeddingOptions.Model)

	// 4. 加载知识库并构建索引。失败则降级为普通对话。
	retriever := biz.NewRetriever(embedProvider, &biz.RetrieverConfig{TopK: cfg.RAGOptions.TopK})
	switch result := knowledge.Load(cfg.RAGOptions.KnowledgePath); result.Status {
	case knowledge.StatusLoaded:
		logger.Infof("Loaded %d campus Q&A entries", len(result.Documents))
		if err := retriever.BuildIndex(ctx, result.Documents); err != nil {
			logger.Errorw("failed to build knowledge index, retrieval disabled", "error", err.Error())
		} else {
			logger.Info("Campus knowledge retrieval initialized successfully")
		}
	case knowledge.StatusUnavailable:
		logger.Warnw("knowledge file unavailable, retrieval disabled", "reason", result.Reason)
	}

	// 5. 初始化 Biz 层
	conversations := conversation.NewManager(cfg.HistoryOptions.MaxHistory)
	service := biz.NewChatbotService(retriever, chatProvider, conversations, &biz.ServiceConfig{
		Generation: &llm.ChatOptions{
			Temperature:   cfg.GenerationOptions.Temperature,
			TopP:          cfg.GenerationOptions.TopP,
			NumCtx:        cfg.GenerationOptions.NumCtx,
			RepeatPenalty: cfg.GenerationOptions.RepeatPenalty,
		},
	})
	logger.Infow("Chatbot service initialized",
		"rag.enabled", retriever.Enabled(),
		"rag.documents", retriever.DocumentCount(),
		"history.max", cfg.HistoryOptions.MaxHistory,
	)

	// 6. 初始化 Handler 层与路由
	engine := router.New(&router.Config{
		ChatHandler:   handler.NewChatHandler(service),
		HealthHandler: handler.NewHealthHandler(service, cfg.ChatOptions.Model, cfg.EmbeddingOptions.Model),
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOptions.AllowOrigins,
			AllowCredentials: cfg.CORSOptions.AllowCredentials,
		},
	})
	logger.Info("Handler layer initialized")

	httpServer := &http.Server{
		Addr:         cfg.HTTPOptions.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTPOptions.ReadTimeout,
		WriteTimeout: cfg.HTTPOptions.WriteTimeout,
		IdleTimeout:  cfg.HTTPOptions.IdleTimeout,
	}

	logger.Info("Campus chatbot service is ready")
	return &Server{
		httpServer:      httpServer,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}

// probeModels 检查供应商侧是否已拉取所需模型。
func probeModels(ctx context.Context, provider llm.ChatProvider, chatModel, embedModel string) {
	lister, ok := provider.(llm.ModelLister)
	if !ok {
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models, err := lister.ListModels(probeCtx)
	if err != nil {
		logger.Warnw("could not reach model provider", "error", err.Error())
		return
	}
	logger.Infof("Provider connection successful, %d models available", len(models))

	chatFound, embedFound := false, false
	for _, name := range models {
		if strings.Contains(name, chatModel) {
			chatFound = true
		}
		if strings.Contains(name, embedModel) {
			embedFound = true
		}
	}

	if !chatFound {
		logger.Warnf("chat model %q not found, run: ollama pull %s", chatModel, chatModel)
	}
	if !embedFound {
		logger.Warnf("embedding model %q not found, run: ollama pull %s", embedModel, embedModel)
	}
}

func printBanner(cfg *Config) {
	fmt.Printf("Starting %s...\n", Name)
	fmt.Printf("  Embedding: %s (%s)\n", cfg.EmbeddingOptions.Provider, cfg.EmbeddingOptions.Model)
	fmt.Printf("  Chat: %s (%s)\n", cfg.ChatOptions.Provider, cfg.ChatOptions.Model)
	fmt.Printf("  Knowledge: %s\n", cfg.RAGOptions.KnowledgePath)
	fmt.Printf("  Listen: %s\n", cfg.HTTPOptions.Addr)
}
