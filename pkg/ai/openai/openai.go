package openai

import (
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"

	"github.com/lumina-kb/backend/pkg/ai"
)

const defaultTimeoutMin = 10

// DocOpenAIClient implements ai.DocAIClient against OpenAI-compatible APIs.
// Embeddings, extraction completions and vision requests may target separate
// endpoints with separate credentials.
type DocOpenAIClient struct {
	embeddingModel   string
	extractionModel  string
	descriptionModel string

	timeoutMin int64
	reqLock    *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
	ImageClient     *openai.Client
}

// NewDocOpenAIClientParams configures a DocOpenAIClient.
//
// EmbeddingModel embeds chunk text, ExtractionModel answers the structured
// graph-extraction request, DescriptionModel describes images. Each concern
// has its own URL/key pair; empty URLs fall back to the provider default.
type NewDocOpenAIClientParams struct {
	EmbeddingModel   string
	ExtractionModel  string
	DescriptionModel string

	EmbeddingURL string
	EmbeddingKey string
	ChatURL      string
	ChatKey      string
	ImageURL     string
	ImageKey     string

	MaxConcurrentRequests int64
	TimeoutMin            int64
}

// NewDocOpenAIClient creates a client for the configured endpoints and models.
func NewDocOpenAIClient(params NewDocOpenAIClientParams) *DocOpenAIClient {
	maxRequests := params.MaxConcurrentRequests
	if maxRequests <= 0 {
		maxRequests = 8
	}
	timeoutMin := params.TimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = defaultTimeoutMin
	}

	return &DocOpenAIClient{
		embeddingModel:   params.EmbeddingModel,
		extractionModel:  params.ExtractionModel,
		descriptionModel: params.DescriptionModel,

		timeoutMin: timeoutMin,
		reqLock:    semaphore.NewWeighted(maxRequests),

		ChatClient:      newOpenaiClient(params.ChatURL, params.ChatKey),
		EmbeddingClient: newOpenaiClient(params.EmbeddingURL, params.EmbeddingKey),
		ImageClient:     newOpenaiClient(params.ImageURL, params.ImageKey),
	}
}

func newOpenaiClient(baseURL string, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}

	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)
	return &client
}
