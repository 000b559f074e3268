package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestEnrichParsesFencedResponse(t *testing.T) {
	is := is.New(t)

	content := "```json\n{\"severity\":\"WARNING\",\"short_message\":\"Vapor rising\",\"explanation\":\"Trend up.\",\"recommended_action\":\"Check area\",\"confidence\":\"high\"}\n```"

	var received map[string]any
	srv := newCompletionServer(t, content, &received)
	defer srv.Close()

	e := New(Config{APIKey: "secret", BaseURL: srv.URL + "/v1"})

	result, err := e.Enrich(context.Background(), testRequest())
	is.NoErr(err)
	is.Equal(result.ShortMessage, "Vapor rising")
	is.Equal(result.Confidence, "high")

	is.Equal(received["model"], DefaultModel)
	is.Equal(received["max_tokens"], float64(300))

	messages := received["messages"].([]any)
	is.Equal(len(messages), 2)
	is.Equal(messages[0].(map[string]any)["role"], "system")
}

func TestThatCompletionsAreRequestedWithNearZeroTemperature(t *testing.T) {
	is := is.New(t)

	var received map[string]any
	srv := newCompletionServer(t, `{"short_message":"ok"}`, &received)
	defer srv.Close()

	e := New(Config{APIKey: "secret", BaseURL: srv.URL + "/v1"})

	_, err := e.Enrich(context.Background(), testRequest())
	is.NoErr(err)

	temperature, ok := received["temperature"].(float64)
	is.True(ok) // temperature must be sent
	is.True(temperature > 0)
	is.True(temperature < 1e-6)
	is.Equal(received["max_tokens"], float64(maxTokens))
}

func TestEnrichFailsOnInvalidJSON(t *testing.T) {
	is := is.New(t)

	srv := newCompletionServer(t, "I am sorry, I cannot do that.", nil)
	defer srv.Close()

	e := New(Config{APIKey: "secret", BaseURL: srv.URL + "/v1"})

	_, err := e.Enrich(context.Background(), testRequest())
	is.True(errors.Is(err, ErrMalformedResponse))
}

func TestEnrichFailsWithoutShortMessage(t *testing.T) {
	is := is.New(t)

	srv := newCompletionServer(t, `{"severity":"HIGH"}`, nil)
	defer srv.Close()

	e := New(Config{APIKey: "secret", BaseURL: srv.URL + "/v1"})

	_, err := e.Enrich(context.Background(), testRequest())
	is.True(errors.Is(err, ErrMalformedResponse))
}

func TestEnrichFailsOnServerError(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := New(Config{APIKey: "secret", BaseURL: srv.URL + "/v1"})

	_, err := e.Enrich(context.Background(), testRequest())
	is.True(err != nil)
}

func TestThatMissingApiKeyDisablesEnrichment(t *testing.T) {
	is := is.New(t)

	_, err := New(Config{}).Enrich(context.Background(), testRequest())
	is.True(errors.Is(err, ErrNotConfigured))
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	is := is.New(t)

	system1, user1, err := BuildPrompt(testRequest())
	is.NoErr(err)
	system2, user2, err := BuildPrompt(testRequest())
	is.NoErr(err)

	is.Equal(system1, system2)
	is.Equal(user1, user2)

	is.True(strings.Contains(system1, "drug-related vapors"))
	is.True(strings.Contains(user1, "- device_id: device-01\n"))
	is.True(strings.Contains(user1, "- mq3: 600\n"))
	is.True(strings.Contains(user1, "- temp_c: 21.5\n"))
	is.True(strings.Contains(user1, "- humidity_pct: null\n"))
	is.True(strings.Contains(user1, `"timestamp":"2024-05-01T11:59:00Z","mq3":410`))
	is.True(strings.HasSuffix(user1, "6. Return JSON ONLY, no extra text."))
}

func TestBuildPromptWithoutHistory(t *testing.T) {
	is := is.New(t)

	req := testRequest()
	req.History = nil

	_, user, err := BuildPrompt(req)
	is.NoErr(err)
	is.True(strings.Contains(user, "- recent_history: []\n"))
}

func TestStripCodeFence(t *testing.T) {
	is := is.New(t)

	is.Equal(stripCodeFence("```json\n{}\n```"), "{}")
	is.Equal(stripCodeFence("  {\"a\":1}  "), `{"a":1}`)
	is.Equal(stripCodeFence("```{}```"), "```{}```")
}

func testRequest() Request {
	temp := 21.5

	return Request{
		DeviceID:  "device-01",
		Timestamp: "2024-05-01T12:00:00Z",
		MQ3:       600,
		MQ135:     210,
		TempC:     &temp,
		History: []HistoryItem{
			{DeviceID: "device-01", Timestamp: "2024-05-01T11:59:00Z", MQ3: 410, MQ135: 200},
		},
	}
}

func newCompletionServer(t *testing.T, content string, received *map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		body, _ := io.ReadAll(r.Body)
		if received != nil {
			_ = json.Unmarshal(body, received)
		}

		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1714564800,
			"model":   DefaultModel,
			"choices": []any{
				map[string]any{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": content,
					},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}))
}
