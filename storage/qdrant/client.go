// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/bookrag/core"
	"github.com/poiesic/bookrag/storage"
)

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept for messages.
const maxErrorBody = 4096

// Config configures a Client.
type Config struct {
	URL        string        // Base URL, e.g. "http://localhost:6333"
	APIKey     string        // Sent as the api-key header when non-empty
	Timeout    time.Duration // Per-request timeout
	HTTPClient *http.Client  // Optional, overrides Timeout
}

// Client is a storage.Index backed by the Qdrant REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

var _ storage.Index = (*Client)(nil)

// New creates a Qdrant client.
//
// Returns storage.Index interface to enforce abstraction.
func New(cfg Config) (storage.Index, error) {
	return newClient(cfg)
}

func newClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("qdrant: URL is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("qdrant: invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("qdrant: URL scheme must be http or https, got %q", u.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		http:    httpClient,
		logger:  slog.Default().With("component", "qdrant-client"),
	}, nil
}

func (c *Client) collectionURL(name string, parts ...string) string {
	u := c.baseURL + "/collections/" + url.PathEscape(name)
	for _, p := range parts {
		u += "/" + p
	}
	return u
}

// do sends a request and decodes the response envelope into out.
// Non-2xx responses and transport failures become *core.IndexError.
func (c *Client) do(ctx context.Context, op, collection, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("qdrant %s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &core.IndexError{Op: op, Collection: collection, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	c.logger.Debug("sending request", "op", op, "method", method, "url", target)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Error("request failed", "op", op, "err", err)
		return &core.IndexError{Op: op, Collection: collection, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(resp.Body)
		c.logger.Error("request rejected", "op", op, "status", resp.StatusCode, "detail", msg)
		return &core.IndexError{Op: op, Collection: collection, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %w", core.ErrMalformedResponse, op, err)
	}
	return nil
}

// errorMessage extracts status.error from a Qdrant error body, falling
// back to the raw text.
func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var env struct {
		Status struct {
			Error string `json:"error"`
		} `json:"status"`
	}
	if json.Unmarshal(data, &env) == nil && env.Status.Error != "" {
		return env.Status.Error
	}
	if msg := strings.TrimSpace(string(data)); msg != "" {
		return msg
	}
	return "empty response body"
}

// ListCollections returns the names of all collections.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var resp listCollectionsResponse
	if err := c.do(ctx, "list", "", http.MethodGet, c.baseURL+"/collections", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: list: missing result", core.ErrMalformedResponse)
	}
	names := make([]string, 0, len(resp.Result.Collections))
	for _, col := range resp.Result.Collections {
		if col.Name == "" {
			return nil, fmt.Errorf("%w: list: collection without name", core.ErrMalformedResponse)
		}
		names = append(names, col.Name)
	}
	return names, nil
}

// CreateCollection creates a collection with a single unnamed vector.
func (c *Client) CreateCollection(ctx context.Context, spec core.CollectionSpec) error {
	if err := core.ValidateCollectionSpec(spec); err != nil {
		return &core.IndexError{Op: "create", Collection: spec.Name, Status: http.StatusBadRequest, Err: err}
	}
	body := createCollectionRequest{
		Vectors: vectorParams{Size: spec.Dimension, Distance: string(spec.Distance)},
	}
	var resp boolResponse
	if err := c.do(ctx, "create", spec.Name, http.MethodPut, c.collectionURL(spec.Name), body, &resp); err != nil {
		return err
	}
	if resp.Result == nil {
		return fmt.Errorf("%w: create: missing result", core.ErrMalformedResponse)
	}
	c.logger.Info("created collection", "collection", spec.Name, "dimension", spec.Dimension)
	return nil
}

// CollectionInfo returns the declared vector configuration of a collection.
func (c *Client) CollectionInfo(ctx context.Context, name string) (*storage.CollectionInfo, error) {
	var resp collectionInfoResponse
	if err := c.do(ctx, "info", name, http.MethodGet, c.collectionURL(name), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: info: missing result", core.ErrMalformedResponse)
	}

	var params vectorParams
	if err := json.Unmarshal(resp.Result.Config.Params.Vectors, &params); err != nil || params.Size <= 0 {
		return nil, fmt.Errorf("%w: info: collection %q has no single vector configuration", core.ErrMalformedResponse, name)
	}

	info := &storage.CollectionInfo{
		Name:      name,
		Dimension: params.Size,
		Distance:  core.Distance(params.Distance),
	}
	if resp.Result.PointsCount != nil {
		info.PointsCount = *resp.Result.PointsCount
	}
	return info, nil
}

// Upsert writes points and waits for the operation to be applied.
func (c *Client) Upsert(ctx context.Context, collection string, points []core.Point) error {
	body := upsertRequest{Points: make([]pointStruct, len(points))}
	for i, p := range points {
		body.Points[i] = pointStruct{
			ID:      p.ID,
			Vector:  p.Vector,
			Payload: p.Payload,
		}
	}

	var resp updateResponse
	target := c.collectionURL(collection, "points") + "?wait=true"
	if err := c.do(ctx, "upsert", collection, http.MethodPut, target, body, &resp); err != nil {
		return err
	}
	if resp.Result == nil {
		return fmt.Errorf("%w: upsert: missing result", core.ErrMalformedResponse)
	}
	c.logger.Debug("upserted points", "collection", collection, "count", len(points), "status", resp.Result.Status)
	return nil
}

// Search returns the nearest points to vector. limit is passed through
// unvalidated; Qdrant rejects non-positive values with a 4xx status.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int, withPayload bool) ([]core.ScoredPoint, error) {
	body := searchRequest{Vector: vector, Limit: limit, WithPayload: withPayload}

	var resp searchResponse
	target := c.collectionURL(collection, "points", "search")
	if err := c.do(ctx, "search", collection, http.MethodPost, target, body, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("%w: search: missing result", core.ErrMalformedResponse)
	}

	hits := make([]core.ScoredPoint, 0, len(*resp.Result))
	for i, r := range *resp.Result {
		if r.Score == nil {
			return nil, fmt.Errorf("%w: search: hit %d has no score", core.ErrMalformedResponse, i)
		}
		id, err := r.ID.String()
		if err != nil {
			return nil, fmt.Errorf("%w: search: hit %d: %w", core.ErrMalformedResponse, i, err)
		}
		hits = append(hits, core.ScoredPoint{
			ID:      id,
			Score:   *r.Score,
			Payload: r.Payload.toPayload(),
		})
	}
	return hits, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
