package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/ainotes/internal/models"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1/"
	DefaultReferer = "http://localhost:3002"
	DefaultTitle   = "AI Notes"

	maxTokens   = 2000
	temperature = 0.7
)

// EmptyReply is returned in place of a completion that carried no content
const EmptyReply = "抱歉，没有收到回复。"

// ErrServiceUnavailable is returned when the request could not be sent or the
// response could not be read. The cause is logged.
var ErrServiceUnavailable = errors.New("AI服务调用失败，请检查网络连接和API密钥。")

// ErrRequestFailed matches any RequestFailedError
var ErrRequestFailed = errors.New("ai request failed")

// RequestFailedError is returned when the API answers with a non-2xx status
type RequestFailedError struct {
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("API调用失败: %d", e.StatusCode)
}

func (e *RequestFailedError) Is(target error) bool { return target == ErrRequestFailed }

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL    string
	Model      string
	Referer    string
	Title      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     log.FieldLogger
	Now        func() time.Time
}

// Client sends single-shot chat completion requests
type Client struct {
	api   openai.Client
	model string
	now   func() time.Time
	log   log.FieldLogger
}

// New builds a Client for an OpenAI-compatible endpoint
func New(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	referer := opts.Referer
	if referer == "" {
		referer = DefaultReferer
	}
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	reqOpts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithHeader("HTTP-Referer", referer),
		option.WithHeader("X-Title", title),
		// set by openai-go from OPENAI_ORG_ID and OPENAI_PROJECT_ID
		option.WithHeaderDel("OpenAI-Organization"),
		option.WithHeaderDel("OpenAI-Project"),
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	c := &Client{
		api:   openai.NewClient(reqOpts...),
		model: opts.Model,
		now:   opts.Now,
		log:   opts.Logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = log.StandardLogger()
	}
	return c
}

// Complete sends messages, preceded by a system message with the current
// date and time, and returns the first choice's content. An empty model uses
// the client's default.
func (c *Client) Complete(ctx context.Context, messages []models.ChatMessage, apiKey, model string) (string, error) {
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    c.buildMessages(messages),
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	}

	logger := c.log.WithField("model", model)
	resp, err := c.api.Chat.Completions.New(ctx, params, option.WithAPIKey(apiKey))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			logger.WithField("status", apiErr.StatusCode).Warn("chat completion rejected")
			return "", &RequestFailedError{StatusCode: apiErr.StatusCode}
		}
		logger.WithError(err).Error("chat completion failed")
		return "", ErrServiceUnavailable
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		logger.Debug("chat completion returned no content")
		return EmptyReply, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) buildMessages(messages []models.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	out = append(out, openai.SystemMessage(SystemPrompt(c.now())))
	for _, m := range messages {
		switch m.Role {
		case models.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

var weekdays = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// FormatDateTime renders t as 2006/01/02 星期一 15:04:05
func FormatDateTime(t time.Time) string {
	return t.Format("2006/01/02") + " " + weekdays[t.Weekday()] + " " + t.Format("15:04:05")
}

// SystemPrompt tells the model what the current date and time is
func SystemPrompt(now time.Time) string {
	return fmt.Sprintf("当前日期时间：%s。请在回答时使用准确的当前日期时间信息。", FormatDateTime(now))
}
