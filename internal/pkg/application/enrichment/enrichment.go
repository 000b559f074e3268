package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/tracing"
)

//go:generate moq -rm -out enricher_mock.go . Enricher

// Enricher asks an external text generation service to explain a reading.
// Callers must treat any error as "no explanation available".
type Enricher interface {
	Enrich(ctx context.Context, req Request) (Explanation, error)
}

type Explanation struct {
	Severity          string `json:"severity"`
	ShortMessage      string `json:"short_message"`
	Explanation       string `json:"explanation"`
	RecommendedAction string `json:"recommended_action"`
	Confidence        string `json:"confidence"`
}

type Request struct {
	DeviceID    string
	Timestamp   string
	MQ3         int
	MQ135       int
	TempC       *float64
	HumidityPct *float64
	Lat         *float64
	Lon         *float64
	History     []HistoryItem
}

// HistoryItem is one prior reading as it is embedded in the prompt.
type HistoryItem struct {
	DeviceID    string   `json:"device_id"`
	Timestamp   string   `json:"timestamp"`
	MQ3         int      `json:"mq3"`
	MQ135       int      `json:"mq135"`
	TempC       *float64 `json:"temp_c"`
	HumidityPct *float64 `json:"humidity_pct"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
}

var (
	ErrNotConfigured     = errors.New("enrichment service not configured")
	ErrEmptyResponse     = errors.New("enrichment service returned no choices")
	ErrMalformedResponse = errors.New("malformed enrichment response")
)

const (
	DefaultModel string = "gpt-3.5-turbo"
	maxTokens    int    = 300
)

const requestTimeout = 30 * time.Second

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

var tracer = otel.Tracer("iot-alerting/enrichment")

type openAIEnricher struct {
	client *openai.Client
	model  string
}

type disabledEnricher struct{}

func (disabledEnricher) Enrich(ctx context.Context, req Request) (Explanation, error) {
	return Explanation{}, ErrNotConfigured
}

// New returns an Enricher backed by an OpenAI compatible chat completion API.
// Without an api key every call fails with ErrNotConfigured.
func New(cfg Config) Enricher {
	if cfg.APIKey == "" {
		return disabledEnricher{}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   requestTimeout,
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &openAIEnricher{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (e *openAIEnricher) Enrich(ctx context.Context, req Request) (result Explanation, err error) {
	ctx, span := tracer.Start(ctx, "enrich")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	logger := logging.GetFromContext(ctx)

	systemPrompt, userPrompt, err := BuildPrompt(req)
	if err != nil {
		return Explanation{}, err
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		// a zero temperature is dropped from the request by omitempty
		Temperature: math.SmallestNonzeroFloat32,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return Explanation{}, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Explanation{}, ErrEmptyResponse
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	err = json.Unmarshal([]byte(content), &result)
	if err != nil {
		logger.Debug().Str("content", truncate(content, 200)).Msg("enrichment response is not valid json")
		return Explanation{}, fmt.Errorf("%w: %s", ErrMalformedResponse, err.Error())
	}

	if result.ShortMessage == "" {
		return Explanation{}, fmt.Errorf("%w: short_message is missing", ErrMalformedResponse)
	}

	return result, nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	if len(lines) <= 2 {
		return content
	}

	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
