// Package gemini implements llm.Client on top of the Google GenAI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/jobsai/internal/llm"
	"github.com/spigell/jobsai/internal/logger"
	"github.com/spigell/jobsai/internal/utils"
)

const (
	defaultModel       = "gemini-2.5-flash"
	defaultMaxRetries  = 3
	defaultMaxLogLen   = 500
	initialBackoff     = time.Second
	maxBackoff         = 30 * time.Second
	maxQuotaDelay      = 30 * time.Second
	defaultTemperature = float32(0.2)
)

var sleep = utils.WaitFor

var retryDelayPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

// models is the subset of *genai.Models the client calls.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configure a Client.
type Options struct {
	APIKey       string
	Model        string
	MaxRetries   int
	MaxLogLength int
}

// Client sends completions to Gemini with retry and exponential backoff.
type Client struct {
	models     models
	model      string
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

var _ llm.Client = (*Client)(nil)

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, opts Options, log *zap.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newClient(client.Models, opts, log), nil
}

func newClient(m models, opts Options, log *zap.Logger) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	retries := opts.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	logLen := opts.MaxLogLength
	if logLen <= 0 {
		logLen = defaultMaxLogLen
	}

	return &Client{
		models:     m,
		model:      model,
		maxRetries: retries,
		maxLogLen:  logLen,
		logger:     logger.WithCommonFields(log, "gemini", model),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// Complete implements llm.Client.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("gemini client is not initialized")
	}

	user = strings.TrimSpace(user)
	if user == "" {
		return "", errors.New("prompt must not be empty")
	}

	if maxTokens <= 0 {
		maxTokens = llm.DefaultMaxTokens
	}

	temperature := defaultTemperature
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     &temperature,
	}
	if system = strings.TrimSpace(system); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	c.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(user)),
		zap.String("prompt_preview", utils.TruncateForLog(user, c.maxLogLen)),
		zap.Int("max_tokens", maxTokens),
	)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		text, err := c.generate(ctx, user, config)
		if err == nil {
			c.logger.Debug("gemini generate content response",
				zap.Int("response_length", utf8.RuneCountInString(text)),
				zap.String("response_preview", utils.TruncateForLog(text, c.maxLogLen)),
			)
			return text, nil
		}
		lastErr = err

		wait, retry := backoff(err, attempt)
		if !retry || attempt == c.maxRetries-1 {
			break
		}

		c.logger.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", c.maxRetries),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		if err := sleep(ctx, wait); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func (c *Client) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// backoff reports whether err is worth another attempt and how long to wait.
func backoff(err error, attempt int) (time.Duration, bool) {
	wait := time.Duration(float64(initialBackoff) * math.Pow(2, float64(attempt)))
	if wait > maxBackoff {
		wait = maxBackoff
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			if delay, ok := quotaDelay(apiErr.Message); ok {
				if delay > maxQuotaDelay {
					return 0, false
				}
				if delay > wait {
					wait = delay
				}
			}
			return wait, true
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return wait, true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return wait, true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return wait, true
	}

	return 0, false
}

func quotaDelay(message string) (time.Duration, bool) {
	match := retryDelayPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}
