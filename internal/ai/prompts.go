package ai

import (
	"context"
	"strings"

	"github.com/tgienger/ainotes/internal/models"
)

const (
	polishPrompt = "请帮我润色以下文本，使其更加通顺和专业，但保持原意不变：\n\n"
	tagsPrompt   = "请为以下文本生成3-5个合适的标签，用逗号分隔：\n\n"
)

// Polish asks the model to rewrite text more fluently. The reply is returned verbatim.
func (c *Client) Polish(ctx context.Context, text, apiKey, model string) (string, error) {
	return c.Complete(ctx, []models.ChatMessage{
		{Role: models.RoleUser, Content: polishPrompt + text},
	}, apiKey, model)
}

// SuggestTags asks the model for comma separated tags describing text
func (c *Client) SuggestTags(ctx context.Context, text, apiKey, model string) ([]string, error) {
	reply, err := c.Complete(ctx, []models.ChatMessage{
		{Role: models.RoleUser, Content: tagsPrompt + text},
	}, apiKey, model)
	if err != nil {
		return nil, err
	}
	return ParseTags(reply), nil
}

// ParseTags splits a comma separated list, trimming entries and dropping
// empty ones. Tags that themselves contain commas cannot be represented.
func ParseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
