package libre

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	tr := New(Config{})

	assert.Equal(t, DefaultBaseURL, tr.api.BaseURL())
	assert.Equal(t, "libre", tr.Name())
	assert.InDelta(t, DefaultRequestsPerSecond, float64(tr.limiter.Limit()), 1e-9)
}

func TestTranslate(t *testing.T) {
	var got translateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(translateResponse{TranslatedText: "नमस्ते"})
	}))
	defer server.Close()

	tr := New(Config{BaseURL: server.URL + "/", APIKey: "secret", RequestsPerSecond: -1})
	out, err := tr.Translate(context.Background(), "Hello", "en", "hi")

	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", out)
	assert.Equal(t, translateRequest{Q: "Hello", Source: "en", Target: "hi", Format: "text", APIKey: "secret"}, got)
}

func TestTranslate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"mr is not supported"}`))
	}))
	defer server.Close()

	tr := New(Config{BaseURL: server.URL, RequestsPerSecond: -1})
	_, err := tr.Translate(context.Background(), "Hello", "en", "mr")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mr is not supported")
	assert.Contains(t, err.Error(), "status 400")
}

func TestTranslate_NonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	tr := New(Config{BaseURL: server.URL, RequestsPerSecond: -1, Retries: -1})
	_, err := tr.Translate(context.Background(), "Hello", "en", "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestTranslate_RateLimited(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(translateResponse{TranslatedText: "ok"})
	}))
	defer server.Close()

	tr := New(Config{BaseURL: server.URL, RequestsPerSecond: 0.5})

	_, err := tr.Translate(context.Background(), "one", "en", "hi")
	require.NoError(t, err)

	// The burst is spent; the next call must wait about two seconds.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = tr.Translate(ctx, "two", "en", "hi")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/languages" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	assert.NoError(t, New(Config{BaseURL: server.URL}).Ping(context.Background()))
}
