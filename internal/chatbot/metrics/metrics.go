// Package metrics 提供聊天服务的业务指标收集。
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// ChatMetrics 聊天服务业务指标。
type ChatMetrics struct {
	// 对话指标
	chatsTotal     uint64 // 总对话请求次数
	chatsStreaming uint64 // 流式对话次数
	chatsErrors    uint64 // 对话错误次数
	chatsRAGUsed   uint64 // 走检索增强路径的次数

	// 检索指标
	retrievalTotal    uint64  // 总检索次数
	retrievalDuration float64 // 检索总耗时（秒）
	retrievalMisses   uint64  // 检索降级次数（向量化失败等）

	// LLM 调用指标
	llmCallsTotal    uint64  // LLM 总调用次数
	llmCallsDuration float64 // LLM 调用总耗时（秒）
	llmCallsErrors   uint64  // LLM 调用错误次数

	startTime  time.Time
	durationMu sync.Mutex
}

// globalChatMetrics 全局指标实例。
var (
	globalChatMetrics *ChatMetrics
	chatMetricsOnce   sync.Once
)

// GetChatMetrics 获取全局指标实例。
func GetChatMetrics() *ChatMetrics {
	chatMetricsOnce.Do(func() {
		globalChatMetrics = &ChatMetrics{
			startTime: time.Now(),
		}
	})
	return globalChatMetrics
}

// RecordChat 记录一次对话请求。
func (m *ChatMetrics) RecordChat(streaming, usedRAG bool, err error) {
	atomic.AddUint64(&m.chatsTotal, 1)
	if streaming {
		atomic.AddUint64(&m.chatsStreaming, 1)
	}
	if usedRAG {
		atomic.AddUint64(&m.chatsRAGUsed, 1)
	}
	if err != nil {
		atomic.AddUint64(&m.chatsErrors, 1)
	}
}

// RecordRetrieval 记录一次检索操作。miss 表示检索降级未产生上下文。
func (m *ChatMetrics) RecordRetrieval(duration time.Duration, miss bool) {
	atomic.AddUint64(&m.retrievalTotal, 1)
	if miss {
		atomic.AddUint64(&m.retrievalMisses, 1)
	}

	m.durationMu.Lock()
	m.retrievalDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// RecordLLMCall 记录一次 LLM 调用。
func (m *ChatMetrics) RecordLLMCall(duration time.Duration, err error) {
	atomic.AddUint64(&m.llmCallsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.llmCallsErrors, 1)
		return
	}

	m.durationMu.Lock()
	m.llmCallsDuration += duration.Seconds()
	m.durationMu.Unlock()
}

// Stats 返回当前统计信息（用于 /status）。
func (m *ChatMetrics) Stats() map[string]interface{} {
	m.durationMu.Lock()
	retrievalDuration := m.retrievalDuration
	llmDuration := m.llmCallsDuration
	m.durationMu.Unlock()

	retrievalTotal := atomic.LoadUint64(&m.retrievalTotal)
	avgRetrievalDuration := 0.0
	if retrievalTotal > 0 {
		avgRetrievalDuration = retrievalDuration / float64(retrievalTotal)
	}

	llmTotal := atomic.LoadUint64(&m.llmCallsTotal)
	avgLLMDuration := 0.0
	if llmTotal > 0 {
		avgLLMDuration = llmDuration / float64(llmTotal)
	}

	return map[string]interface{}{
		"chats": map[string]interface{}{
			"total":     atomic.LoadUint64(&m.chatsTotal),
			"streaming": atomic.LoadUint64(&m.chatsStreaming),
			"rag_used":  atomic.LoadUint64(&m.chatsRAGUsed),
			"errors":    atomic.LoadUint64(&m.chatsErrors),
		},
		"retrieval": map[string]interface{}{
			"total":               retrievalTotal,
			"total_duration_secs": retrievalDuration,
			"avg_duration_secs":   avgRetrievalDuration,
			"misses":              atomic.LoadUint64(&m.retrievalMisses),
		},
		"llm": map[string]interface{}{
			"calls_total":         llmTotal,
			"total_duration_secs": llmDuration,
			"avg_duration_secs":   avgLLMDuration,
			"errors":              atomic.LoadUint64(&m.llmCallsErrors),
		},
		"uptime_seconds": time.Since(m.startTime).Seconds(),
	}
}

// Reset 重置所有指标（仅用于测试）。
func (m *ChatMetrics) Reset() {
	atomic.StoreUint64(&m.chatsTotal, 0)
	atomic.StoreUint64(&m.chatsStreaming, 0)
	atomic.StoreUint64(&m.chatsErrors, 0)
	atomic.StoreUint64(&m.chatsRAGUsed, 0)
	atomic.StoreUint64(&m.retrievalTotal, 0)
	atomic.StoreUint64(&m.retrievalMisses, 0)
	atomic.StoreUint64(&m.llmCallsTotal, 0)
	atomic.StoreUint64(&m.llmCallsErrors, 0)

	m.durationMu.Lock()
	m.retrievalDuration = 0
	m.llmCallsDuration = 0
	m.startTime = time.Now()
	m.durationMu.Unlock()
}
