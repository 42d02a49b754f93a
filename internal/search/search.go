package search

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

// Client talks to an OpenSearch cluster over its JSON REST API.
type Client struct {
	BaseURL  string
	Username string
	Password string
	HTTP     *http.Client
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Name() string { return "opensearch" }

// Document is one indexed chunk: the rendered text, its entity tags and
// the embedding stored under vector_field.
type Document struct {
	ID       string
	Text     string
	Entities []string
	Vector   []float32
}

// MultiSearch is an ordered batch of per-index searches. Order is
// preserved on the wire and in the response.
type MultiSearch struct {
	Items []Item
}

// Item is one header+body pair of an _msearch request.
type Item struct {
	Header map[string]any
	Body   map[string]any
}

type MultiResponse struct {
	Responses []IndexResponse `json:"responses"`
}

type IndexResponse struct {
	Status int     `json:"status"`
	Hits   HitList `json:"hits"`
}

type HitList struct {
	Hits []Hit `json:"hits"`
}

type Hit struct {
	Index  string  `json:"_index"`
	Score  float64 `json:"_score"`
	Source Source  `json:"_source"`
}

type Source struct {
	Text     string `json:"text"`
	Metadata struct {
		Entities []string `json:"entities"`
	} `json:"metadata"`
}

func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("opensearch ping failed: status %d", resp.StatusCode)
	}
	return nil
}

// IndexExists reports whether the named index is present.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodHead, "/"+name, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// EnsureIndex creates a kNN-enabled index with an inner-product
// vector_field of the given dimension. Existing indexes are left alone.
func (c *Client) EnsureIndex(ctx context.Context, name string, dim int) error {
	exists, err := c.IndexExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	body := map[string]any{
		"settings": map[string]any{
			"index": map[string]any{"knn": true},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"vector_field": map[string]any{
					"type":      "knn_vector",
					"dimension": dim,
				},
				"text": map[string]any{"type": "text"},
				"metadata": map[string]any{
					"properties": map[string]any{
						"entities": map[string]any{"type": "text"},
					},
				},
			},
		},
	}
	payload, _ := json.Marshal(body)
	req, err := c.newRequest(ctx, http.MethodPut, "/"+name, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("opensearch index create failed: status %d", resp.StatusCode)
	}
	return nil
}

// BulkIndex writes documents through the _bulk endpoint.
func (c *Client) BulkIndex(ctx context.Context, index string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		action := map[string]any{"index": map[string]any{"_index": index, "_id": doc.ID}}
		if err := enc.Encode(action); err != nil {
			return err
		}
		source := map[string]any{
			"text":         doc.Text,
			"metadata":     map[string]any{"entities": doc.Entities},
			"vector_field": doc.Vector,
		}
		if err := enc.Encode(source); err != nil {
			return err
		}
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/_bulk", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("opensearch bulk index failed: status %d", resp.StatusCode)
	}
	var decoded struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return err
	}
	if decoded.Errors {
		return errors.New("opensearch bulk index reported item errors")
	}
	return nil
}

// Msearch runs the batch and returns per-item results in request order.
func (c *Client) Msearch(ctx context.Context, batch MultiSearch) (MultiResponse, error) {
	var out MultiResponse
	if len(batch.Items) == 0 {
		return out, errors.New("empty msearch batch")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, item := range batch.Items {
		if err := enc.Encode(item.Header); err != nil {
			return out, err
		}
		if err := enc.Encode(item.Body); err != nil {
			return out, err
		}
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/_msearch", &buf)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, fmt.Errorf("opensearch msearch failed: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, errors.New("opensearch url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
	return req, nil
}
