// Package advisory requests a narrative financial-health summary from the
// Gemini text-generation endpoint. Failures are mapped to user-facing
// strings; nothing here ever mutates ledger state.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"familyledger/internal/core"
)

// DefaultModel is the text model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// PlaceholderAPIKey marks a credential that was never filled in by the
// deployment; it counts as unconfigured, not as rejected-by-provider.
const PlaceholderAPIKey = "YOUR_API_KEY_PLACEHOLDER"

// ErrNotConfigured is returned when no usable credential is present.
var ErrNotConfigured = errors.New("advisory credential not configured")

// User-facing report strings. The HTTP caller only ever sees strings, never
// errors; MessageFor picks the one matching a failure cause.
const (
	msgNotConfigured = "⚠️ 缺少 API Key！\n\n【配置方法】：\n1. 在部署环境设置变量 GEMINI_API_KEY\n2. 重启服务后重新发起分析。"
	msgForbidden     = "分析失败：API Key 无效或权限受限，请检查密钥配置。"
	msgRateLimited   = "请求过于频繁：AI 服务已限流，请稍后再试。"
	msgGeneric       = "分析失败：请检查 API Key 是否有效或网络是否畅通。"
	msgModelBusy     = "AI 忙碌中，请稍后再试。"
)

// Client performs one-shot advisory requests. Each call opens its own genai
// client; there is no retry, backoff or request de-duplication.
type Client struct {
	apiKey string
	model  string
}

func New(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{apiKey: apiKey, model: model}
}

// Configured reports whether a real credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiKey != PlaceholderAPIKey
}

// Analyze sends the transaction summary to the model and returns the
// advisory text. An empty model response is reported as the busy fallback
// string rather than an error.
func (c *Client) Analyze(ctx context.Context, txs []core.Transaction) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
		// API version v1 is what the docs use for current Gemini models.
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: BuildPrompt(txs)},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		slog.WarnContext(ctx, "Advisory model returned empty text", "model", c.model)
		return msgModelBusy, nil
	}
	return text, nil
}

// MessageFor converts an Analyze failure into the user-facing report string.
// Authorization and rate-limit rejections get distinct messages; everything
// else collapses into the generic transport failure text.
func MessageFor(err error) string {
	if errors.Is(err, ErrNotConfigured) {
		return msgNotConfigured
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusForbidden:
			return msgForbidden
		case http.StatusTooManyRequests:
			return msgRateLimited
		}
	}
	return msgGeneric
}
