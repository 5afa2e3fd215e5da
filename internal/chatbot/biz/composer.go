package biz

import (
	"context"
	"fmt"
	"time"

	"github.com/kart-io/campus-chat/internal/model"
	"github.com/kart-io/campus-chat/internal/pkg/timeutil"
	"github.com/kart-io/campus-chat/pkg/llm"
)

// campusPromptFormat 检索命中时注入的系统提示，%s 为拼接后的上下文。
const campusPromptFormat = `You are a helpful assistant with detailed knowledge about Sree Rama Engineering College (SREC).
Use the following specific information to answer questions about SREC accurately:

%s

Important guidelines:
1. Answer questions about SREC using ONLY the provided context above
2. Be specific and accurate with details like names, numbers, dates, and contact information
3. If asked about SREC but the specific information is not in the context, say "I don't have that specific information about SREC"
4. For general questions not about SREC, respond normally as a helpful AI assistant
5. Always be helpful and provide complete answers when possible`

// timePromptFormat 时间问题注入的系统提示。
const timePromptFormat = "You are an AI assistant. The current time in IST is %s and the date is %s. Format your response professionally and include both time and date."

// Composer 根据消息类型组装发往模型的消息序列。
type Composer struct {
	retriever *Retriever
	now       func() time.Time
}

// NewComposer 创建消息组装器。
func NewComposer(retriever *Retriever) *Composer {
	return &Composer{
		retriever: retriever,
		now:       timeutil.Now,
	}
}

// Compose 组装对话消息。按优先级分三类处理：
//  1. 时间问题：丢弃历史，仅注入当前 IST 时间的系统提示。
//  2. 校园问题且检索命中：在历史前注入带上下文的系统提示。
//  3. 其他：历史加当前消息。
func (c *Composer) Compose(ctx context.Context, message string, history []model.Turn) []llm.Message {
	if IsTimeQuestion(message) {
		now := c.now()
		return []llm.Message{
			{
				Role:    llm.RoleSystem,
				Content: fmt.Sprintf(timePromptFormat, timeutil.FormatTime(now), timeutil.FormatDate(now)),
			},
			{Role: llm.RoleUser, Content: message},
		}
	}

	var messages []llm.Message

	if IsCampusQuestion(message) {
		if result := c.retriever.Retrieve(ctx, message); result != nil && result.Context != "" {
			messages = append(messages, llm.Message{
				Role:    llm.RoleSystem,
				Content: fmt.Sprintf(campusPromptFormat, result.Context),
			})
		}
	}

	for _, turn := range history {
		messages = append(messages, llm.Message{
			Role:    llm.Role(turn.Role),
			Content: turn.Content,
		})
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})
	return messages
}
