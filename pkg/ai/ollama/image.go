package ollama

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/lumina-kb/backend/pkg/ai"
)

// GenerateImageDescription sends a vision chat request with a base64 image
// and returns the model's textual description.
func (c *DocOllamaClient) GenerateImageDescription(
	ctx context.Context,
	prompt string,
	image ai.ImageData,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model:     c.descriptionModel,
		MaxTokens: 1000,
	}
	for _, o := range opts {
		o(&options)
	}

	raw, err := base64.StdEncoding.DecodeString(image.Base64)
	if err != nil {
		return "", err
	}

	stream := false
	req := &api.ChatRequest{
		Model: options.Model,
		Messages: []api.Message{
			{Role: "system", Content: prompt},
			{
				Role:   "user",
				Images: []api.ImageData{raw},
			},
		},
		Stream:  &stream,
		Options: map[string]any{"num_predict": int(options.MaxTokens)},
	}

	rCtx, cancel := context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
	defer cancel()

	if err := c.reqLock.Acquire(rCtx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(rCtx, req, func(cr api.ChatResponse) error {
		final = cr
		return nil
	}); err != nil {
		return "", err
	}

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	return final.Message.Content, nil
}
