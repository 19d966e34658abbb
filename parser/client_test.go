package parser

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Parse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/parse", r.URL.Path)

		var req parseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "report.txt", req.Filename)
		assert.Equal(t, "text/plain", req.MimeType)
		assert.Equal(t, []byte("raw bytes"), req.Data)

		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"content":  "设备异常。检测完成。",
			"metadata": map[string]any{"word_count": 2},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL})

	result, err := client.Parse(context.Background(), []byte("raw bytes"), "report.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "设备异常。检测完成。", result.Content)
	assert.Equal(t, 2, result.WordCount)
}

func TestHTTPClient_Parse_ServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "unsupported encoding",
		})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL})

	_, err := client.Parse(context.Background(), []byte("x"), "broken.pdf", "application/pdf")
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "unsupported encoding", parseErr.Reason)
}

func TestHTTPClient_Parse_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(Config{BaseURL: server.URL})

	_, err := client.Parse(context.Background(), []byte("x"), "report.txt", "text/plain")
	require.Error(t, err)

	var parseErr *ParseError
	assert.False(t, errors.As(err, &parseErr), "transport errors are not ParseErrors")
}

func TestHTTPClient_Parse_Unreachable(t *testing.T) {
	client := NewHTTPClient(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := client.Parse(context.Background(), []byte("x"), "report.txt", "text/plain")
	assert.Error(t, err)
}
