// Package ollama is the client for the local Ollama text-completion service.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Failure kinds reported on backend errors.
const (
	KindUnavailable = "unavailable"
	KindTimeout     = "timeout"
	KindMalformed   = "malformed"
)

// BackendError classifies a failed round trip to the backend.
type BackendError struct {
	Kind string
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("ollama backend %s: %v", e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Options are the sampling parameters for one generation call.
type Options struct {
	Temperature   float64
	NumPredict    int
	TopP          float64
	RepeatPenalty float64
}

// HealthStatus reports backend reachability and model availability.
type HealthStatus struct {
	Healthy        bool     `json:"healthy"`
	ModelAvailable bool     `json:"model_available"`
	Models         []string `json:"models,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Client talks to a single Ollama instance over HTTP. Calls are blocking
// round trips bounded by the client timeout.
type Client struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// NewClient creates a client for the given base URL and model.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		Model:   model,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	System  string           `json:"system,omitempty"`
	Stream  bool             `json:"stream"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature   float64 `json:"temperature,omitempty"`
	NumPredict    int     `json:"num_predict,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate sends a prompt and optional system preamble to /api/generate and
// returns the generated text. Failures are always a *BackendError.
func (c *Client) Generate(ctx context.Context, prompt, system string, opts Options) (string, error) {
	payload := generateRequest{
		Model:  c.Model,
		Prompt: prompt,
		System: system,
		Stream: false,
		Options: &generateOptions{
			Temperature:   opts.Temperature,
			NumPredict:    opts.NumPredict,
			TopP:          opts.TopP,
			RepeatPenalty: opts.RepeatPenalty,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &BackendError{Kind: KindMalformed, Err: err}
	}

	url := c.BaseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Kind: KindUnavailable, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &BackendError{Kind: classifyTransportError(err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Kind: classifyTransportError(err), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &BackendError{
			Kind: KindUnavailable,
			Err:  fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var generated generateResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		return "", &BackendError{Kind: KindMalformed, Err: err}
	}

	return strings.TrimSpace(generated.Response), nil
}

// Health checks /api/tags and reports whether the configured model is loaded.
func (c *Client) Health(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/tags", nil)
	if err != nil {
		return HealthStatus{Healthy: false, Error: err.Error()}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return HealthStatus{Healthy: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return HealthStatus{Healthy: false, Error: "Service unavailable"}
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return HealthStatus{Healthy: false, Error: err.Error()}
	}

	status := HealthStatus{Healthy: true}
	for _, model := range tags.Models {
		status.Models = append(status.Models, model.Name)
		if strings.HasPrefix(model.Name, c.Model) {
			status.ModelAvailable = true
		}
	}
	return status
}

// classifyTransportError separates timeouts from connection failures.
func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindUnavailable
}
