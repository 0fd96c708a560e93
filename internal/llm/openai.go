package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/profilelens/insight-engine/internal/core/domain"
	"github.com/profilelens/insight-engine/internal/core/errors"
	"github.com/profilelens/insight-engine/internal/observability"
)

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute
)

type openaiClient struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter

	// Circuit breaker state
	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex
}

// NewOpenAI builds the collaborator client. The rate limiter is owned by
// the caller and shared across whatever call sites the caller wires it to.
func NewOpenAI(apiKey, model string, timeout time.Duration, limiter *rate.Limiter, logger *zerolog.Logger) Client {
	return &openaiClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		timeout:     timeout,
		logger:      logger,
		rateLimiter: limiter,
	}
}

func (c *openaiClient) SummarizeLabels(ctx context.Context, kind string, labels []string, maxTags int) ([]domain.TagShare, error) {
	if err := c.checkCircuit(); err != nil {
		return nil, err
	}

	if !c.rateLimiter.Allow() {
		return nil, fmt.Errorf("%w: local limiter exhausted", errors.ErrRateLimited)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildSummarizePrompt(kind, labels, maxTags)

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})

	observability.LLMRequestDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())

	if err != nil {
		c.recordFailure()

		return nil, classifyAPIError(err)
	}

	c.recordSuccess()

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", errors.ErrMalformedResponse)
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug().Str("kind", kind).Str("content", content).Msg("LLM response")

	shares, err := parseTagShares(content, kind)
	if err != nil {
		return nil, err
	}

	if len(shares) > maxTags {
		shares = shares[:maxTags]
	}

	return shares, nil
}

func buildSummarizePrompt(kind string, labels []string, maxTags int) string {
	wrapperKey := "tags"
	if kind == KindVibes {
		wrapperKey = "vibes"
	}

	return fmt.Sprintf(summarizePromptTemplate, maxTags, kind, wrapperKey, domain.MiscLabel, strings.Join(labels, ", "))
}

// classifyAPIError maps transport failures onto the collaborator error
// taxonomy: rate_limited, service_unavailable, api_error.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", errors.ErrRateLimited, apiErr.Message)
		case apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %s", errors.ErrServiceUnavailable, apiErr.Message)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out", errors.ErrAPIError)
	}

	return fmt.Errorf("%w: %v", errors.ErrAPIError, err)
}

// parseTagShares tolerates preamble text and markdown fences around the
// JSON payload, and accepts either the requested wrapper key, a bare
// array, or any array-valued key in the object. Anything else is a
// malformed response.
func parseTagShares(content, kind string) ([]domain.TagShare, error) {
	payload := extractJSON(content)

	if shares := tryParseWrapper(payload, kind); len(shares) > 0 {
		return shares, nil
	}

	if shares := tryParseArray(payload); len(shares) > 0 {
		return shares, nil
	}

	if shares := tryFindArrayInJSON(payload); len(shares) > 0 {
		return shares, nil
	}

	if errMsg := tryParseErrorObject(payload); errMsg != "" {
		return nil, fmt.Errorf("%w: %s", errors.ErrAPIError, errMsg)
	}

	return nil, fmt.Errorf("%w: %s", errors.ErrMalformedResponse, content)
}

// tagShareWire tolerates both element shapes the collaborator emits:
// {tag, percentage} for categories and {vibe, percentage} for vibes.
type tagShareWire struct {
	Tag        string  `json:"tag"`
	Vibe       string  `json:"vibe"`
	Percentage float64 `json:"percentage"`
}

func (w tagShareWire) toDomain() domain.TagShare {
	label := w.Tag
	if label == "" {
		label = w.Vibe
	}

	return domain.TagShare{Label: label, Percentage: w.Percentage}
}

func wireToShares(wire []tagShareWire) []domain.TagShare {
	shares := make([]domain.TagShare, 0, len(wire))

	for _, w := range wire {
		share := w.toDomain()
		if share.Label == "" {
			continue
		}

		shares = append(shares, share)
	}

	return shares
}

func tryParseWrapper(payload, kind string) []domain.TagShare {
	var wrapper struct {
		Tags  []tagShareWire `json:"tags"`
		Vibes []tagShareWire `json:"vibes"`
	}

	if err := json.Unmarshal([]byte(payload), &wrapper); err != nil {
		return nil
	}

	if kind == KindVibes && len(wrapper.Vibes) > 0 {
		return wireToShares(wrapper.Vibes)
	}

	if len(wrapper.Tags) > 0 {
		return wireToShares(wrapper.Tags)
	}

	return wireToShares(wrapper.Vibes)
}

func tryParseArray(payload string) []domain.TagShare {
	var wire []tagShareWire

	if err := json.Unmarshal([]byte(payload), &wire); err == nil {
		return wireToShares(wire)
	}

	return nil
}

func tryFindArrayInJSON(payload string) []domain.TagShare {
	var raw map[string]interface{}

	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil
	}

	for _, v := range raw {
		arr, ok := v.([]interface{})
		if !ok || len(arr) == 0 {
			continue
		}

		arrBytes, _ := json.Marshal(v) //nolint:errchkjson // marshaling interface{} from parsed JSON, cannot fail

		var wire []tagShareWire
		if err := json.Unmarshal(arrBytes, &wire); err == nil {
			if shares := wireToShares(wire); len(shares) > 0 {
				return shares
			}
		}
	}

	return nil
}

func tryParseErrorObject(payload string) string {
	var errObj struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal([]byte(payload), &errObj); err != nil {
		return ""
	}

	if errObj.Error == "" {
		return ""
	}

	if errObj.Message != "" {
		return fmt.Sprintf("%s: %s", errObj.Error, errObj.Message)
	}

	return errObj.Error
}

// extractJSON tries to extract JSON from a response that might have extra text.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	start = strings.Index(text, "[")
	end = strings.LastIndex(text, "]")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

func (c *openaiClient) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.circuitOpenUntil) {
		return fmt.Errorf("%w until %v", errors.ErrCircuitBreakerOpen, c.circuitOpenUntil)
	}

	return nil
}

func (c *openaiClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures = 0
}

func (c *openaiClient) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures++
	if c.consecutiveFailures >= circuitBreakerThreshold {
		c.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		c.logger.Warn().
			Int("consecutive_failures", c.consecutiveFailures).
			Time("open_until", c.circuitOpenUntil).
			Msg("Circuit breaker opened")
	}
}
