package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"

	"github.com/lumina-kb/backend/pkg/ai"
)

// GenerateImageDescription sends a vision request with a base64-encoded image
// and returns the model's textual description. Output length defaults to a
// 1000-token bound.
func (c *DocOpenAIClient) GenerateImageDescription(
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

	url := fmt.Sprintf("%s%s", image.FileType, image.Base64)
	body := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(options.Model),
		MaxCompletionTokens: openai.Int(options.MaxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: url,
				}),
			}),
		},
	}

	rCtx, cancel := context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
	defer cancel()

	if err := c.reqLock.Acquire(rCtx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	start := time.Now()
	response, err := c.ImageClient.Chat.Completions.New(rCtx, body)
	if err != nil {
		return "", err
	}

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  int(response.Usage.PromptTokens),
		OutputTokens: int(response.Usage.CompletionTokens),
		TotalTokens:  int(response.Usage.TotalTokens),
		DurationMs:   time.Since(start).Milliseconds(),
	})

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from model")
	}
	return response.Choices[0].Message.Content, nil
}
