// Package granola is the client for the Granola API, the source of folders
// and meeting documents.
package granola

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/granola-sync/internal/models"
)

// DefaultBaseURL is the production Granola API endpoint.
const DefaultBaseURL = "https://api.granola.ai/v0"

// Client is an HTTP client for the Granola API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a new API client authenticated with the given bearer
// token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Folders lists all folders with their document id references.
func (c *Client) Folders(ctx context.Context) ([]models.Folder, error) {
	body, err := c.doRequest(ctx, "/folders", nil)
	if err != nil {
		return nil, fmt.Errorf("folders request failed: %w", err)
	}
	var folders []models.Folder
	if err := decodeList(body, "folders", &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders response: %w", err)
	}
	return folders, nil
}

// Documents lists recent documents, newest first, up to limit.
func (c *Client) Documents(ctx context.Context, limit int) ([]models.Document, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	body, err := c.doRequest(ctx, "/documents", query)
	if err != nil {
		return nil, fmt.Errorf("documents request failed: %w", err)
	}
	var documents []models.Document
	if err := decodeList(body, "documents", &documents); err != nil {
		return nil, fmt.Errorf("failed to decode documents response: %w", err)
	}
	return documents, nil
}

// Document fetches a single document with full details.
func (c *Client) Document(ctx context.Context, docID string) (*models.Document, error) {
	body, err := c.doRequest(ctx, "/documents/"+docID, nil)
	if err != nil {
		return nil, fmt.Errorf("document request failed: %w", err)
	}
	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document response: %w", err)
	}
	return &doc, nil
}

// Transcript fetches the transcript segments for a document.
func (c *Client) Transcript(ctx context.Context, docID string) ([]models.TranscriptSegment, error) {
	body, err := c.doRequest(ctx, "/documents/"+docID+"/transcript", nil)
	if err != nil {
		return nil, fmt.Errorf("transcript request failed: %w", err)
	}
	var segments []models.TranscriptSegment
	if err := decodeList(body, "transcript", &segments); err != nil {
		return nil, fmt.Errorf("failed to decode transcript response: %w", err)
	}
	return segments, nil
}

// doRequest performs a GET against the API and returns the raw body.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

// decodeList decodes a list response that may arrive either bare or
// wrapped in an envelope object under key.
func decodeList(data []byte, key string, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		raw, ok := envelope[key]
		if !ok {
			return fmt.Errorf("response missing %q field", key)
		}
		return json.Unmarshal(raw, out)
	}
	return json.Unmarshal(trimmed, out)
}
