package narrative

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
	openAITimeout        = 2 * time.Minute
	openAIMaxRetries     = 2
)

// OpenAIGenerator sends the prompt and dashboard JSON to an OpenAI-compatible
// chat completions endpoint.
type OpenAIGenerator struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	MaxRetries int
}

func (g *OpenAIGenerator) Name() string {
	return "openai:" + g.model()
}

func (g *OpenAIGenerator) model() string {
	if m := strings.TrimSpace(g.Model); m != "" {
		return m
	}
	return DefaultOpenAIModel
}

func (g *OpenAIGenerator) Generate(ctx context.Context, dashboardJSON []byte, prompt string) (string, error) {
	if strings.TrimSpace(g.APIKey) == "" {
		return "", fmt.Errorf("openai: api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(g.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	httpClient := g.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: openAITimeout}
	}
	retries := g.MaxRetries
	if retries < 0 {
		retries = 0
	} else if retries == 0 {
		retries = openAIMaxRetries
	}

	client := openaigo.NewClient(
		option.WithBaseURL(baseURL+"/"),
		option.WithAPIKey(strings.TrimSpace(g.APIKey)),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(retries),
		option.WithRequestTimeout(openAITimeout),
	)

	resp, err := client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(g.model()),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(prompt),
			openaigo.UserMessage(string(dashboardJSON)),
		},
		Temperature: param.NewOpt(0.4),
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content) + "\n", nil
}
