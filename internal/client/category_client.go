// Package client provides an HTTP client for the category API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fintrack/internal/models"
)

// APIError is returned when the API answers with a non-success status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// CategoryInput is the body accepted by create and update.
type CategoryInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ColorCode   string  `json:"color_code,omitempty"`
	IconName    string  `json:"icon_name,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"`
}

// CategoryClient talks to the /api/v1/categories endpoints with a bearer token.
type CategoryClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewCategoryClient creates a new category API client.
func NewCategoryClient(baseURL, token string, httpClient *http.Client) *CategoryClient {
	return &CategoryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// ListRoots fetches the active root categories.
func (c *CategoryClient) ListRoots(ctx context.Context) ([]models.Category, error) {
	var result struct {
		Categories []models.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories/roots", nil, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("listing root categories: %w", err)
	}
	return result.Categories, nil
}

// ListChildren fetches the active children of a category.
func (c *CategoryClient) ListChildren(ctx context.Context, parentID string) ([]models.Category, error) {
	var result struct {
		Categories []models.Category `json:"categories"`
	}
	path := "/api/v1/categories/" + url.PathEscape(parentID) + "/children"
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return nil, fmt.Errorf("listing children of %s: %w", parentID, err)
	}
	return result.Categories, nil
}

// Create creates a category and returns the stored record.
func (c *CategoryClient) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	var result struct {
		Category models.Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/categories", in, http.StatusCreated, &result); err != nil {
		return nil, fmt.Errorf("creating category %q: %w", in.Name, err)
	}
	return &result.Category, nil
}

func (c *CategoryClient) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
