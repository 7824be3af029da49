package execution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardhq/blizzard/internal/agents"
	"github.com/blizzardhq/blizzard/internal/models"
)

func chatOK(content string) string {
	resp := map[string]any{
		"model": "gpt-4",
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func testAgent() agents.Agent {
	return agents.Agent{
		ID:           models.AgentWeather,
		Model:        "gpt-4",
		Instructions: "report the weather",
	}
}

func TestNewOpenAIEngineRequiresKey(t *testing.T) {
	_, err := NewOpenAIEngine(OpenAIConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestInvoke(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(chatOK("snow starting at 10pm")))
	}))
	defer srv.Close()

	engine, err := NewOpenAIEngine(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := engine.Invoke(context.Background(), &InvokeRequest{
		Agent: testAgent(),
		Transcript: []models.Message{
			{Speaker: models.SpeakerUser, Role: models.RoleUser, Content: "forecast data"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "snow starting at 10pm", resp.Content)
	assert.Equal(t, "gpt-4", resp.ModelID)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestInvokeRetriesOnRateLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("retry pacing sleeps for several seconds")
	}

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(chatOK("after backoff")))
	}))
	defer srv.Close()

	engine, err := NewOpenAIEngine(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := engine.Invoke(context.Background(), &InvokeRequest{Agent: testAgent()})
	require.NoError(t, err)
	assert.Equal(t, "after backoff", resp.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvokeClientErrorFailsFast(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error": {"message": "bad request"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	engine, err := NewOpenAIEngine(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = engine.Invoke(context.Background(), &InvokeRequest{Agent: testAgent()})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses other than 429 must not be retried")
}

func TestInvokeNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"model": "gpt-4", "choices": []}`))
	}))
	defer srv.Close()

	engine, err := NewOpenAIEngine(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = engine.Invoke(context.Background(), &InvokeRequest{Agent: testAgent()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestRenderChatPerspective(t *testing.T) {
	req := &InvokeRequest{
		Agent: agents.Agent{
			ID:           models.AgentLead,
			Model:        "gpt-4",
			Instructions: "analyze closures",
		},
		Transcript: []models.Message{
			{Speaker: models.SpeakerUser, Role: models.RoleUser, Content: "forecast data"},
			{Speaker: models.AgentWeather, Role: models.RoleAgent, Content: "snow tonight"},
			{Speaker: models.AgentLead, Role: models.RoleAgent, Content: "roads will be bad"},
		},
	}

	msgs := renderChat(req)
	require.Len(t, msgs, 4)

	assert.Equal(t, chatMessage{Role: "system", Content: "analyze closures"}, msgs[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "forecast data"}, msgs[1])
	assert.Equal(t, chatMessage{Role: "user", Content: "WeatherAgent: snow tonight"}, msgs[2])
	assert.Equal(t, chatMessage{Role: "assistant", Content: "roads will be bad"}, msgs[3])
}

func TestScriptedEngineExhaustion(t *testing.T) {
	engine := NewScriptedEngine(Script("only turn")...)

	_, err := engine.Invoke(context.Background(), &InvokeRequest{Agent: testAgent()})
	require.NoError(t, err)

	_, err = engine.Invoke(context.Background(), &InvokeRequest{Agent: testAgent()})
	assert.ErrorIs(t, err, ErrScriptExhausted)
	assert.Len(t, engine.Invocations, 2)
}
