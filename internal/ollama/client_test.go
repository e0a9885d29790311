package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(generateResponse{
			Model:    "llama3",
			Response: "  Here is the generated reply.  ",
			Done:     true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", 5*time.Second)

	text, err := client.Generate(context.Background(), "the prompt", "the system", Options{
		Temperature:   0.7,
		NumPredict:    800,
		TopP:          0.9,
		RepeatPenalty: 1.1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Here is the generated reply.", text, "response is trimmed")

	assert.Equal(t, "llama3", captured.Model)
	assert.Equal(t, "the prompt", captured.Prompt)
	assert.Equal(t, "the system", captured.System)
	assert.False(t, captured.Stream)
	require.NotNil(t, captured.Options)
	assert.Equal(t, 0.7, captured.Options.Temperature)
	assert.Equal(t, 800, captured.Options.NumPredict)
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", 5*time.Second)

	_, err := client.Generate(context.Background(), "prompt", "", Options{})
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, KindUnavailable, backendErr.Kind)
	assert.Contains(t, backendErr.Error(), "status 500")
}

func TestGenerate_ConnectionRefused(t *testing.T) {
	// Point at a server that is already closed
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "llama3", 5*time.Second)

	_, err := client.Generate(context.Background(), "prompt", "", Options{})
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, KindUnavailable, backendErr.Kind)
}

func TestGenerate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "prompt", "", Options{})
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, KindTimeout, backendErr.Kind)
}

func TestGenerate_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not valid json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", 5*time.Second)

	_, err := client.Generate(context.Background(), "prompt", "", Options{})
	require.Error(t, err)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, KindMalformed, backendErr.Kind)
}

func TestHealth_ModelAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:latest"},{"name":"mistral:7b"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", 5*time.Second)

	status := client.Health(context.Background())
	assert.True(t, status.Healthy)
	assert.True(t, status.ModelAvailable, "tag variants of the configured model count as available")
	assert.Equal(t, []string{"llama3:latest", "mistral:7b"}, status.Models)
	assert.Empty(t, status.Error)
}

func TestHealth_ModelMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"mistral:7b"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", 5*time.Second)

	status := client.Health(context.Background())
	assert.True(t, status.Healthy)
	assert.False(t, status.ModelAvailable)
}

func TestHealth_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "llama3", 5*time.Second)

	status := client.Health(context.Background())
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.Error)
}

func TestHealth_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "llama3", 5*time.Second)

	status := client.Health(context.Background())
	assert.False(t, status.Healthy)
	assert.Equal(t, "Service unavailable", status.Error)
}
