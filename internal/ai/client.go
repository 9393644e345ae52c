// Package ai is the HTTP client for the external classification and
// summarization provider. The provider is treated as a black box that
// may be down at any time; unreachability is a degrade-gracefully
// signal (ErrUnavailable), never a fatal error.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable is returned when the provider cannot be reached or
// reports itself down. Callers degrade gracefully instead of failing.
var ErrUnavailable = errors.New("ai service unavailable")

// Client talks to the AI provider.
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates a new provider client. The timeout bounds every
// call; a slow provider surfaces as ErrUnavailable.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	Text           string  `json:"text"`
	ExistingGroups []Group `json:"existing_groups"`
	Lang           string  `json:"lang"`
}

// Classify sends a note to the provider along with the current
// taxonomy snapshot and returns its classification results.
func (c *Client) Classify(ctx context.Context, text string, taxonomy []Group, lang string) ([]Result, error) {
	if taxonomy == nil {
		taxonomy = []Group{}
	}
	payload := classifyRequest{Text: text, ExistingGroups: taxonomy, Lang: lang}

	raw, err := c.post(ctx, "/classify", payload)
	if err != nil {
		return nil, err
	}

	var results []Result
	if err := json.Unmarshal(raw, &results); err == nil {
		return results, nil
	}
	// Some provider versions return a single object instead of a list.
	var single Result
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("failed to decode classify response: %w", err)
	}
	return []Result{single}, nil
}

type summarizeRequest struct {
	Group    string   `json:"group"`
	Subgroup string   `json:"subgroup,omitempty"`
	Ideas    []string `json:"ideas"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize asks the provider for a narrative summary of a group's
// ideas. Subgroup may be empty for group-level summaries.
func (c *Client) Summarize(ctx context.Context, group, subgroup string, ideas []string) (string, error) {
	payload := summarizeRequest{Group: group, Subgroup: subgroup, Ideas: ideas}

	raw, err := c.post(ctx, "/summarize", payload)
	if err != nil {
		return "", err
	}

	var resp summarizeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("failed to decode summarize response: %w", err)
	}
	return resp.Summary, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Connection refused, DNS failure, timeout: the provider is down.
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return raw, nil
}
