package ai

// Model is a selectable chat model
type Model struct {
	ID          string
	Name        string
	Description string
}

// DefaultModel is used when no model is chosen
const DefaultModel = "deepseek/deepseek-chat"

// Models lists the models offered for chat, default first
var Models = []Model{
	{ID: "deepseek/deepseek-chat", Name: "DeepSeek Chat", Description: "高性能中文对话模型"},
	{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini", Description: "OpenAI最新小型模型"},
	{ID: "openai/gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "OpenAI经典模型"},
	{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Description: "Anthropic快速模型"},
	{ID: "google/gemini-flash-1.5", Name: "Gemini Flash 1.5", Description: "Google高速模型"},
	{ID: "google/gemini-2.0-flash-exp", Name: "Gemini 2.0 Flash", Description: "Google最新实验性模型"},
}

// LookupModel returns the model with the given id
func LookupModel(id string) (Model, bool) {
	for _, m := range Models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}
