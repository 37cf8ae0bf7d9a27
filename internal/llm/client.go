// Package llm is the client for the OpenRouter-compatible chat completion API
// that answers free-form advisor questions.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/pocket_ledger_app/internal/apperrors"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "google/gemma-3n-e2b-it:free"
	DefaultTimeout = 30 * time.Second

	maxTokens   = 500
	temperature = 0.7
	topP        = 0.9

	systemPrompt = "You are a knowledgeable financial assistant for a personal expense tracker. " +
		"Analyze spending patterns, give budgeting & saving tips, investment basics, and motivational advice. " +
		"Be friendly, concise, and occasionally use emojis."

	referer = "https://github.com/SscSPs/pocket_ledger_app"
	title   = "Pocket Ledger"
)

// FailureKind classifies why a completion could not be produced.
type FailureKind string

const (
	AuthMissing       FailureKind = "auth_missing"
	RateLimited       FailureKind = "rate_limited"
	Timeout           FailureKind = "timeout"
	ConnectionError   FailureKind = "connection_error"
	MalformedResponse FailureKind = "malformed_response"
)

// Failure is the typed error returned by Complete.
// It always wraps apperrors.ErrCollaboratorUnavailable.
type Failure struct {
	Kind   FailureKind
	Status int
	Err    error
}

func (f *Failure) Error() string {
	msg := "llm " + string(f.Kind)
	if f.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", f.Status)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{apperrors.ErrCollaboratorUnavailable}
	}
	return []error{apperrors.ErrCollaboratorUnavailable, f.Err}
}

// KindOf returns the failure kind of err, or "" when err is not a *Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Completer answers a question given a text summary of the user's finances.
type Completer interface {
	Complete(ctx context.Context, question, financialContext string) (string, error)
}

// Config configures Client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls {BaseURL}/chat/completions. There are no retries.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ Completer = (*Client)(nil)

// NewClient fills unset fields of cfg with the defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat completion request and returns the trimmed answer.
func (c *Client) Complete(ctx context.Context, question, financialContext string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &Failure{Kind: AuthMissing, Err: errors.New("api key not configured")}
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Question: %s\n\nUser's Financial Context: %s", strings.TrimSpace(question), financialContext)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &Failure{Kind: ConnectionError, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", referer)
	req.Header.Set("X-Title", title)

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &Failure{Kind: Timeout, Err: err}
		}
		return "", &Failure{Kind: ConnectionError, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &Failure{Kind: AuthMissing, Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &Failure{Kind: RateLimited, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 100))
		return "", &Failure{Kind: ConnectionError, Status: resp.StatusCode, Err: errors.New(string(snippet))}
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if isTimeout(err) {
			return "", &Failure{Kind: Timeout, Err: err}
		}
		return "", &Failure{Kind: MalformedResponse, Err: err}
	}
	if len(decoded.Choices) == 0 {
		return "", &Failure{Kind: MalformedResponse, Err: errors.New("response has no choices")}
	}
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
