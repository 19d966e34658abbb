// Package qdrant implements vectorstore.Store against a Qdrant-compatible
// REST API.
//
// Qdrant only accepts unsigned integers or UUIDs as point ids, so logical
// chunk ids are mapped to deterministic version-5 UUIDs on the wire. The
// logical id travels in the payload as point_id, which lets deletes resolve
// the same UUID from the same logical id.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/poiesic/docflow/vectorstore"
)

// DefaultDimension matches the embeddinggemma output size.
const DefaultDimension = 768

// Config holds connection settings for the Qdrant client.
type Config struct {
	URL       string
	APIKey    string
	Dimension int
	Timeout   time.Duration
}

// Store is a minimal REST client to Qdrant. Collections are created with
// cosine distance.
type Store struct {
	url       string
	apiKey    string
	dimension int
	client    *http.Client
	logger    *slog.Logger
}

// NewStore creates a Qdrant client from the given config. Zero values fall
// back to a 15 second timeout and DefaultDimension.
func NewStore(cfg Config, logger *slog.Logger) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	dimension := cfg.Dimension
	if dimension == 0 {
		dimension = DefaultDimension
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		url:       cfg.URL,
		apiKey:    cfg.APIKey,
		dimension: dimension,
		client:    &http.Client{Timeout: timeout},
		logger:    logger.With("component", "qdrant"),
	}
}

// WireID converts a logical point id to the UUID Qdrant accepts on the wire.
// The mapping is deterministic, so re-upserting the same logical id
// overwrites the existing point.
func WireID(logicalID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(logicalID)).String()
}

func (s *Store) ListCollections(ctx context.Context) ([]vectorstore.CollectionInfo, error) {
	var listResp struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := s.getJSON(ctx, fmt.Sprintf("%s/collections", s.url), &listResp); err != nil {
		return nil, err
	}

	infos := make([]vectorstore.CollectionInfo, 0, len(listResp.Result.Collections))
	for _, c := range listResp.Result.Collections {
		var infoResp struct {
			Result struct {
				PointsCount int64 `json:"points_count"`
			} `json:"result"`
		}
		if err := s.getJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, c.Name), &infoResp); err != nil {
			return nil, err
		}
		infos = append(infos, vectorstore.CollectionInfo{
			Name:        c.Name,
			PointsCount: infoResp.Result.PointsCount,
		})
	}
	return infos, nil
}

func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	var existsResp struct {
		Result struct {
			Exists bool `json:"exists"`
		} `json:"result"`
	}
	if err := s.getJSON(ctx, fmt.Sprintf("%s/collections/%s/exists", s.url, name), &existsResp); err != nil {
		return err
	}
	if existsResp.Result.Exists {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": "Cosine",
		},
	}
	if err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, name), body); err != nil {
		return err
	}

	s.logger.Info("created collection", "name", name, "dimension", s.dimension)
	return nil
}

func (s *Store) UpsertPoint(ctx context.Context, collection string, point *vectorstore.Point) error {
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":     WireID(point.ID),
				"vector": point.Vector,
				"payload": map[string]any{
					"point_id":   point.ID,
					"title":      point.Payload.Title,
					"content":    point.Payload.Content,
					"category":   point.Payload.Category,
					"tags":       point.Payload.Tags,
					"source":     point.Payload.Source,
					"created_at": point.Payload.CreatedAt.Format(time.RFC3339),
					"updated_at": point.Payload.UpdatedAt.Format(time.RFC3339),
				},
			},
		},
	}
	err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, collection), body)
	if err != nil {
		s.logger.Error("upsert failed", "collection", collection, "point_id", point.ID, "error", err)
		return fmt.Errorf("%w: %v", vectorstore.ErrStoreWrite, err)
	}
	return nil
}

func (s *Store) DeletePoint(ctx context.Context, collection string, id string) error {
	body := map[string]any{
		"points": []string{WireID(id)},
	}
	err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, collection), body, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrStoreWrite, err)
	}
	return nil
}

func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, name), nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant DELETE collection %s failed: %s", name, resp.Status)
	}
	return nil
}

func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}

func (s *Store) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant GET %s failed: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
