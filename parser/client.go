package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// HTTPClient is a REST client to the document parsing service.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ Client = (*HTTPClient)(nil)

// Config holds connection details for the parsing service.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPClient creates a parser client for the given service.
func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  slog.Default().With("component", "parser-client"),
	}
}

type parseRequest struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"` // base64 on the wire
}

type parseResponse struct {
	Success  bool   `json:"success"`
	Content  string `json:"content,omitempty"`
	Error    string `json:"error,omitempty"`
	Metadata *struct {
		WordCount int `json:"word_count"`
	} `json:"metadata,omitempty"`
}

// Parse sends the file to the parsing service and returns the extracted text.
func (c *HTTPClient) Parse(ctx context.Context, data []byte, filename, mimeType string) (*Result, error) {
	c.logger.Debug("parsing document", "filename", filename, "bytes", len(data))

	body, err := json.Marshal(parseRequest{Filename: filename, MimeType: mimeType, Data: data})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parser service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("parser service returned %s", resp.Status)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("invalid parser response: %w", err)
	}

	if !parsed.Success {
		reason := parsed.Error
		if reason == "" {
			reason = "unknown parser error"
		}
		return nil, &ParseError{Reason: reason}
	}

	result := &Result{Content: parsed.Content}
	if parsed.Metadata != nil {
		result.WordCount = parsed.Metadata.WordCount
	}

	return result, nil
}
