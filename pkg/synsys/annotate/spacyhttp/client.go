// Package spacyhttp talks to a spaCy sidecar over HTTP.
//
// The sidecar exposes two endpoints:
//
//	GET  /health -> 200 once the model is loaded
//	POST /tag    {"text": "...", "model": "pt_core_news_sm"} -> {"tokens": [...]}
//
// Each token carries the spaCy attributes text, lemma_, is_punct, is_space,
// is_stop, like_num and is_alpha under the JSON names of annotate.Token.
package spacyhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
)

// DefaultModel is the Portuguese pipeline the sidecar is expected to load.
const DefaultModel = "pt_core_news_sm"

// Config configures the sidecar client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Circuit breaker settings
	MaxRequests      uint32
	Interval         time.Duration
	OpenTimeout      time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultConfig returns a configuration for a sidecar at baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:          baseURL,
		Model:            DefaultModel,
		Timeout:          10 * time.Second,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		OpenTimeout:      60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Client implements annotate.Tagger against the sidecar.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

type tagRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type tagResponse struct {
	Tokens []annotate.Token `json:"tokens"`
}

// New creates a client. It does not contact the sidecar; use Ping for that.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: spacy url %q", internalerr.ErrInvalidConfig, cfg.BaseURL)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "spacy-sidecar",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
		logger:  logger,
	}, nil
}

// Ping checks that the sidecar is up and has its model loaded.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrTaggerUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health returned %d", internalerr.ErrTaggerUnavailable, resp.StatusCode)
	}
	return nil
}

// Tag sends text to the sidecar and returns its tokens.
func (c *Client) Tag(ctx context.Context, text string) ([]annotate.Token, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.tag(ctx, text)
	})
	if err != nil {
		return nil, fmt.Errorf("spacy tag: %w", err)
	}
	return out.([]annotate.Token), nil
}

func (c *Client) tag(ctx context.Context, text string) ([]annotate.Token, error) {
	body, err := json.Marshal(tagRequest{Text: text, Model: c.model})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tag", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sidecar returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded tagResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}

	c.logger.Debug("Tagged text",
		zap.Int("chars", len(text)),
		zap.Int("tokens", len(decoded.Tokens)),
		zap.Duration("duration", time.Since(start)),
	)
	return decoded.Tokens, nil
}
