package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"

	"github.com/lumina-kb/backend/pkg/ai"
)

const defaultTimeoutMin = 30

// DocOllamaClient implements ai.DocAIClient against a locally hosted Ollama
// server. Embeddings, structured extraction and vision all go through the
// same endpoint with per-concern models.
type DocOllamaClient struct {
	embeddingModel   string
	extractionModel  string
	descriptionModel string

	timeoutMin int64
	reqLock    *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *api.Client
}

// NewDocOllamaClientParams configures a DocOllamaClient.
type NewDocOllamaClientParams struct {
	EmbeddingModel   string
	ExtractionModel  string
	DescriptionModel string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
	TimeoutMin            int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so the original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewDocOllamaClient creates an Ollama-backed AI client. An empty BaseURL
// uses the Ollama default; the ApiKey is sent as a bearer token for proxied
// deployments.
func NewDocOllamaClient(params NewDocOllamaClientParams) (*DocOllamaClient, error) {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.ApiKey,
			},
			rt: http.DefaultTransport,
		},
	}

	maxRequests := params.MaxConcurrentRequests
	if maxRequests <= 0 {
		maxRequests = 1
	}
	timeoutMin := params.TimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = defaultTimeoutMin
	}

	return &DocOllamaClient{
		embeddingModel:   params.EmbeddingModel,
		extractionModel:  params.ExtractionModel,
		descriptionModel: params.DescriptionModel,

		timeoutMin: timeoutMin,
		reqLock:    semaphore.NewWeighted(maxRequests),

		Client: api.NewClient(u, httpClient),
	}, nil
}
