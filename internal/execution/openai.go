package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/blizzardhq/blizzard/internal/models"
)

// DefaultBaseURL is the OpenAI-compatible chat completions endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Rate limiting and retry parameters, matching the pacing the upstream API
// tolerates: a minimum gap between requests, then capped exponential
// backoff on rate-limit responses.
const (
	minRequestInterval = 2 * time.Second
	maxBackoff         = 30 * time.Second
	maxAttempts        = 5
	defaultTimeout     = 30 * time.Second
)

// ErrMissingAPIKey is returned by NewOpenAIEngine when no key is configured.
var ErrMissingAPIKey = errors.New("openai api key is required")

// OpenAIConfig configures an OpenAIEngine.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string        // defaults to DefaultBaseURL
	Timeout time.Duration // per-request timeout, defaults to 30s
	Logger  *slog.Logger
}

// OpenAIEngine invokes agents through an OpenAI-compatible chat completions
// API. Requests are paced and rate-limit responses are retried with capped
// exponential backoff.
type OpenAIEngine struct {
	cfg    OpenAIConfig
	client *http.Client
	logger *slog.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// NewOpenAIEngine creates an engine for the given configuration.
func NewOpenAIEngine(cfg OpenAIConfig) (*OpenAIEngine, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &OpenAIEngine{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}, nil
}

// Initialize is a no-op; the HTTP client needs no setup.
func (e *OpenAIEngine) Initialize(_ context.Context) error { return nil }

// Shutdown is a no-op.
func (e *OpenAIEngine) Shutdown(_ context.Context) error { return nil }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Invoke renders the transcript into a chat completion request for the
// agent's model and returns the generated message.
func (e *OpenAIEngine) Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResponse, error) {
	start := time.Now()

	body := chatRequest{
		Model:    req.Agent.Model,
		Messages: renderChat(req),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	var parsed chatResponse
	backoff := retry.WithCappedDuration(maxBackoff,
		retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(minRequestInterval)))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		e.pace()
		return e.send(ctx, payload, &parsed)
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion for %s: %w", req.Agent.ID, err)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat completion for %s: response contained no choices", req.Agent.ID)
	}

	return &InvokeResponse{
		Content:    parsed.Choices[0].Message.Content,
		ModelID:    parsed.Model,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// pace enforces the minimum gap between successive requests.
func (e *OpenAIEngine) pace() {
	e.mu.Lock()
	wait := minRequestInterval - time.Since(e.lastRequest)
	if wait > 0 {
		time.Sleep(wait)
	}
	e.lastRequest = time.Now()
	e.mu.Unlock()
}

func (e *OpenAIEngine) send(ctx context.Context, payload []byte, out *chatResponse) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		e.logger.Info("rate limited or upstream error, backing off",
			"status", resp.StatusCode)
		return retry.RetryableError(fmt.Errorf("upstream returned %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding chat response: %w", err)
	}
	if out.Error != nil {
		return fmt.Errorf("upstream error (%s): %s", out.Error.Type, out.Error.Message)
	}
	return nil
}

// renderChat maps the transcript into chat messages from the speaking
// agent's point of view: its instructions become the system message, its own
// prior turns are assistant messages, and everything else arrives as user
// messages attributed to the original speaker.
func renderChat(req *InvokeRequest) []chatMessage {
	msgs := make([]chatMessage, 0, len(req.Transcript)+1)
	msgs = append(msgs, chatMessage{Role: "system", Content: req.Agent.Instructions})

	for _, m := range req.Transcript {
		switch {
		case m.Speaker == req.Agent.ID:
			msgs = append(msgs, chatMessage{Role: "assistant", Content: m.Content})
		case m.Role == models.RoleUser:
			msgs = append(msgs, chatMessage{Role: "user", Content: m.Content})
		default:
			msgs = append(msgs, chatMessage{
				Role:    "user",
				Content: fmt.Sprintf("%s: %s", m.Speaker, m.Content),
			})
		}
	}
	return msgs
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
