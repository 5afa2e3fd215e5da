// Package llm provides LLM provider configuration options.
package llm

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/campus-chat/pkg/options"
)

var _ options.IOptions = (*ProviderOptions)(nil)

// ProviderOptions 定义 LLM 供应商配置。
type ProviderOptions struct {
	// Provider 供应商名称（当前支持 ollama）。
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL API 基础地址。
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// Model 使用的模型名称。
	Model string `json:"model" mapstructure:"model"`

	// Timeout 请求超时时间。0 表示不限制（chat 流式生成耗时不可预估）。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// GenerationOptions 定义发送给 chat 模型的生成参数。
type GenerationOptions struct {
	// Temperature 采样温度。
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// TopP 核采样阈值。
	TopP float64 `json:"top-p" mapstructure:"top-p"`

	// NumCtx 上下文窗口 token 数。
	NumCtx int `json:"num-ctx" mapstructure:"num-ctx"`

	// RepeatPenalty 重复惩罚系数。
	RepeatPenalty float64 `json:"repeat-penalty" mapstructure:"repeat-penalty"`
}

// NewEmbeddingOptions 创建默认 Embedding 供应商配置。
// embedding 调用使用固定超时，失败即视为本次无结果。
func NewEmbeddingOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider: "ollama",
		BaseURL:  "http://localhost:11434",
		Model:    "mxbai-embed-large",
		Timeout:  60 * time.Second,
	}
}

// NewChatOptions 创建默认 Chat 供应商配置。
func NewChatOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider: "ollama",
		BaseURL:  "http://localhost:11434",
		Model:    "gemma2:2b",
		Timeout:  0,
	}
}

// NewGenerationOptions 创建默认生成参数。
func NewGenerationOptions() *GenerationOptions {
	return &GenerationOptions{
		Temperature:   0.7,
		TopP:          0.9,
		NumCtx:        2048,
		RepeatPenalty: 1.1,
	}
}

// ToConfigMap 转换为配置 map，用于供应商工厂。
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":    o.BaseURL,
		"embed_model": o.Model,
		"chat_model":  o.Model,
		"timeout":     o.Timeout,
	}
}

// AddFlags adds flags for LLM provider options to the specified FlagSet.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Provider, options.Join(prefixes...)+"llm.provider", o.Provider, "LLM provider name.")
	fs.StringVar(&o.BaseURL, options.Join(prefixes...)+"llm.base-url", o.BaseURL, "LLM API base URL.")
	fs.StringVar(&o.Model, options.Join(prefixes...)+"llm.model", o.Model, "LLM model name.")
	fs.DurationVar(&o.Timeout, options.Join(prefixes...)+"llm.timeout", o.Timeout, "LLM request timeout (0 disables the client timeout).")
}

// AddFlags adds flags for generation options to the specified FlagSet.
func (o *GenerationOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.Float64Var(&o.Temperature, options.Join(prefixes...)+"temperature", o.Temperature, "Sampling temperature.")
	fs.Float64Var(&o.TopP, options.Join(prefixes...)+"top-p", o.TopP, "Nucleus sampling threshold.")
	fs.IntVar(&o.NumCtx, options.Join(prefixes...)+"num-ctx", o.NumCtx, "Context window size in tokens.")
	fs.Float64Var(&o.RepeatPenalty, options.Join(prefixes...)+"repeat-penalty", o.RepeatPenalty, "Repetition penalty.")
}

// Validate validates the LLM provider options.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("llm.provider is required"))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("llm.base-url is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("llm.model is required"))
	}
	if o.Timeout < 0 {
		errs = append(errs, fmt.Errorf("llm.timeout cannot be negative"))
	}

	return errs
}

// Validate validates the generation options.
func (o *GenerationOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.Temperature < 0 {
		errs = append(errs, fmt.Errorf("temperature cannot be negative"))
	}
	if o.TopP <= 0 || o.TopP > 1 {
		errs = append(errs, fmt.Errorf("top-p must be in (0, 1]"))
	}
	if o.NumCtx <= 0 {
		errs = append(errs, fmt.Errorf("num-ctx must be positive"))
	}

	return errs
}

// Complete completes the LLM provider options with defaults.
func (o *ProviderOptions) Complete() error {
	return nil
}
