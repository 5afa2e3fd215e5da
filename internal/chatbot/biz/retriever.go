package biz

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/campus-chat/internal/chatbot/metrics"
	"github.com/kart-io/campus-chat/internal/chatbot/store"
	"github.com/kart-io/campus-chat/internal/model"
	"github.com/kart-io/campus-chat/pkg/llm"
)

// ContextSeparator 拼接检索到的文档时使用的分隔符。
const ContextSeparator = "\n\n---\n\n"

// RetrieverConfig 检索器配置。
type RetrieverConfig struct {
	// TopK 返回的结果数量。
	TopK int
}

// Retriever 负责知识库的向量化索引与检索。
// 索引构建失败或知识库缺失时检索保持禁用，服务降级为普通对话。
type Retriever struct {
	index         *store.FlatIndex
	documents     []model.Document
	embedProvider llm.EmbeddingProvider
	config        *RetrieverConfig
	enabled       atomic.Bool
}

// NewRetriever 创建检索器实例。调用 BuildIndex 成功后才可检索。
func NewRetriever(embedProvider llm.EmbeddingProvider, config *RetrieverConfig) *Retriever {
	return &Retriever{
		index:         store.NewFlatIndex(),
		embedProvider: embedProvider,
		config:        config,
	}
}

// BuildIndex 为全部文档批量生成向量并建立索引。
// 任一步骤失败则索引保持禁用并返回错误。
func (r *Retriever) BuildIndex(ctx context.Context, documents []model.Document) error {
	if len(documents) == 0 {
		return fmt.Errorf("no documents to index")
	}

	texts := make([]string, len(documents))
	for i, doc := range documents {
		texts[i] = doc.Text
	}

	logger.Infof("Creating embeddings for %d documents", len(texts))
	embeddings, err := r.embedProvider.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	if err := r.index.Add(embeddings); err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	r.documents = documents
	r.enabled.Store(true)
	logger.Infow("knowledge index built",
		"documents", len(documents),
		"dimension", r.index.Dim(),
	)
	return nil
}

// Enabled 返回检索是否可用。
func (r *Retriever) Enabled() bool {
	return r.enabled.Load()
}

// DocumentCount 返回已索引的文档数量。
func (r *Retriever) DocumentCount() int {
	if !r.enabled.Load() {
		return 0
	}
	return len(r.documents)
}

// Retrieve 检索与查询最相关的文档并拼接上下文。
// 检索禁用或查询向量化失败时返回 nil 而非错误，调用方降级为普通对话。
func (r *Retriever) Retrieve(ctx context.Context, query string) (result *model.RetrievalResult) {
	if !r.enabled.Load() {
		return nil
	}

	start := time.Now()
	defer func() {
		metrics.GetChatMetrics().RecordRetrieval(time.Since(start), result == nil)
	}()

	queryVec, err := r.embedProvider.EmbedSingle(ctx, query)
	if err != nil {
		logger.Warnw("query embedding failed, skipping retrieval", "error", err.Error())
		return nil
	}

	matches, err := r.index.Search(queryVec, r.config.TopK)
	if err != nil {
		logger.Warnw("index search failed, skipping retrieval", "error", err.Error())
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	sources := make([]model.Source, len(matches))
	texts := make([]string, len(matches))
	for i, m := range matches {
		doc := r.documents[m.ID]
		sources[i] = model.Source{
			ID:       doc.ID,
			Question: doc.Question,
			Answer:   doc.Answer,
			Text:     doc.Text,
			Score:    m.Score,
		}
		texts[i] = doc.Text
	}

	return &model.RetrievalResult{
		Context: strings.Join(texts, ContextSeparator),
		Sources: sources,
	}
}
