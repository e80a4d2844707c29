package explain

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaGenerator calls a local Ollama server.
type OllamaGenerator struct {
	client *api.Client
	model  string
}

func NewOllamaGenerator(baseURL, model string, timeout time.Duration) (*OllamaGenerator, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid URL %q: %w", baseURL, err)
	}

	httpClient := &http.Client{
		Timeout: timeout,
	}

	return &OllamaGenerator{
		client: api.NewClient(base, httpClient),
		model:  model,
	}, nil
}

func (o *OllamaGenerator) Name() string { return "ollama/" + o.model }

func (o *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: &stream,
	}

	var sb strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama: generate: %w", err)
	}
	return sb.String(), nil
}
