package mood

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultAITimeout     = 10 * time.Second

	completionsPath = "/v1/chat/completions"
)

// OpenAIConfig configures the external text-classification resolver.
type OpenAIConfig struct {
	// APIKey authenticates against the OpenAI API. Required.
	APIKey string
	// Model selects the completion model. Defaults to gpt-4o-mini.
	Model string
	// BaseURL overrides the API host (tests point it at a local server).
	BaseURL string
	// Timeout bounds each HTTP attempt. Defaults to 10s. The AI call is the
	// only component with potentially unbounded latency, so the bound is
	// mandatory; a timed-out call resolves as unresolved.
	Timeout time.Duration
	// MaxRetries caps additional attempts after the first (default 2).
	MaxRetries int
}

// OpenAIResolver resolves mood text by delegating to the OpenAI chat
// completions API with a prompt constrained to the canonical label set.
//
// Every failure mode (transport error, non-2xx status, malformed body, or a
// response outside the closed set) downgrades to an unresolved outcome; the
// resolver never propagates errors to its caller.
type OpenAIResolver struct {
	client     *resty.Client
	model      string
	maxRetries int
}

// NewOpenAIResolver builds a resolver from cfg, applying defaults for any
// zero-valued field except APIKey.
func NewOpenAIResolver(cfg OpenAIConfig) *OpenAIResolver {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &OpenAIResolver{
		client:     client,
		model:      model,
		maxRetries: maxRetries,
	}
}

// chatRequest is the subset of the chat completions request body we send.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat completions response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// classificationPrompt constrains the model to the canonical label set. The
// instruction to return the label verbatim (slashes and whitespace included)
// matters: labels are matched byte-for-byte afterwards.
func classificationPrompt(text string) string {
	return fmt.Sprintf(
		"The user described their mood as: %q.\n"+
			"Choose the single most fitting mood from this list only:\n%s.\n"+
			"Reply with only the mood text, return the exact mood from the list even if there is slash and whitespace, nothing else.",
		text, strings.Join(Canonical, ", "),
	)
}

// Resolve implements Resolver. It retries transient failures with bounded
// exponential backoff, then post-validates the returned string against the
// closed set. Anything the model returns that is not exactly a canonical
// label is treated as unresolved.
func (r *OpenAIResolver) Resolve(ctx context.Context, text string) (string, bool) {
	body := chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "user", Content: classificationPrompt(text)},
		},
		MaxTokens:   20,
		Temperature: 0,
	}

	var out chatResponse
	attempt := func() error {
		resp, err := r.client.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&out).
			Post(completionsPath)
		if err != nil {
			return err
		}
		if resp.StatusCode() != http.StatusOK {
			err := fmt.Errorf("openai: unexpected status %d", resp.StatusCode())
			// Client errors (auth, bad request) will not heal on retry.
			if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(r.maxRetries)), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		log.Warn().Err(err).Msg("mood classification call failed")
		return "", false
	}

	if len(out.Choices) == 0 {
		log.Warn().Msg("mood classification returned no choices")
		return "", false
	}
	label := strings.TrimSpace(out.Choices[0].Message.Content)
	if !IsCanonical(label) {
		log.Warn().Str("label", label).Msg("mood classification returned non-canonical label")
		return "", false
	}
	return label, true
}
