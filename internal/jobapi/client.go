package jobapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/suleigolden/sulber-core/internal/entity"
)

// Client talks to a remote sulber job/profile backend over REST. It
// implements both Service and ProfileService.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		httpClient: httpClient,
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return mapAPIError(resp.StatusCode, payload)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapAPIError(status int, payload []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	}

	var parsed errorResponse
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Message != "" {
		return fmt.Errorf("job api error (%d): %s", status, parsed.Message)
	}
	msg := strings.TrimSpace(string(payload))
	if msg == "" {
		return fmt.Errorf("job api error (%d)", status)
	}
	return fmt.Errorf("job api error (%d): %s", status, msg)
}

func (c *Client) List(ctx context.Context, status entity.JobStatus) ([]entity.Job, error) {
	path := "/jobs"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var jobs []entity.Job
	if err := c.do(ctx, http.MethodGet, path, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) Get(ctx context.Context, id string) (*entity.Job, error) {
	var job entity.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) Create(ctx context.Context, p CreateJobParams) (*entity.Job, error) {
	var job entity.Job
	if err := c.do(ctx, http.MethodPost, "/jobs", p, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) Update(ctx context.Context, id string, upd JobUpdate) (*entity.Job, error) {
	var job entity.Job
	if err := c.do(ctx, http.MethodPatch, "/jobs/"+url.PathEscape(id), upd, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) FindByCustomerID(ctx context.Context, customerID string) ([]entity.Job, error) {
	var jobs []entity.Job
	path := "/jobs?customerId=" + url.QueryEscape(customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) FindByProviderID(ctx context.Context, providerID string) ([]entity.Job, error) {
	var jobs []entity.Job
	path := "/jobs?providerId=" + url.QueryEscape(providerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) Profile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
