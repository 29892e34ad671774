// Package client is a Go client for the campaignsync HTTP API.
//
//	c := client.NewClient("http://localhost:8080")
//	id, err := c.SaveDraft(ctx, owner, &models.FormData{Title: &title}, 1, nil)
//	if err != nil {
//		return err
//	}
//	views, err := c.ListCampaigns(ctx, owner, client.ListOptions{Status: "draft"})
//
// Every failed call returns an *APIError carrying the HTTP status and the
// server's error message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/orangecat/campaignsync/pkg/models"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080", with a 30-second request timeout.
func NewClient(baseURL string) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: 30 * time.Second})
}

// NewClientWithHTTP creates a client that sends requests through hc.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status=%d, message=%s", e.StatusCode, e.Message)
}

// ListOptions filters ListCampaigns. Zero values are omitted.
type ListOptions struct {
	Status string
	Limit  int
	Offset int
}

func (o ListOptions) query() string {
	q := url.Values{}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// doRequest performs an HTTP request with proper headers
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON response into target, or turns an error
// status into an *APIError.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 32<<10))
		var payload struct {
			Error string `json:"error"`
		}
		message := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			message = payload.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, body, target any) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decodeResponse(resp, target)
}

func ownerPath(owner models.OwnerID, suffix string) string {
	return "/api/owners/" + url.PathEscape(owner.String()) + suffix
}

func campaignPath(owner models.OwnerID, id models.CampaignID, suffix string) string {
	return ownerPath(owner, "/campaigns/"+url.PathEscape(id.String())+suffix)
}

// Health checks the health status of the server
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	if err := c.call(ctx, http.MethodGet, "/health", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCampaigns returns the owner's reconciled campaign list.
func (c *Client) ListCampaigns(ctx context.Context, owner models.OwnerID, opts ListOptions) ([]models.CampaignView, error) {
	var views []models.CampaignView
	if err := c.call(ctx, http.MethodGet, ownerPath(owner, "/campaigns")+opts.query(), nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

// GetDraft returns the owner's local draft, or nil when there is none.
func (c *Client) GetDraft(ctx context.Context, owner models.OwnerID) (*models.LocalDraft, error) {
	var draft models.LocalDraft
	err := c.call(ctx, http.MethodGet, ownerPath(owner, "/draft"), nil, &draft)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// SaveDraft saves the form and returns the durable campaign id. Pass the
// returned id as linked on later saves to update the same campaign.
func (c *Client) SaveDraft(ctx context.Context, owner models.OwnerID, form *models.FormData, currentStep int, linked *models.CampaignID) (models.CampaignID, error) {
	body := struct {
		FormData       *models.FormData   `json:"form_data"`
		CurrentStep    int                `json:"current_step"`
		LinkedRemoteID *models.CampaignID `json:"linked_remote_id,omitempty"`
	}{form, currentStep, linked}

	var result struct {
		ID models.CampaignID `json:"id"`
	}
	if err := c.call(ctx, http.MethodPut, ownerPath(owner, "/draft"), body, &result); err != nil {
		return models.CampaignID{}, err
	}
	return result.ID, nil
}

// DiscardDraft empties the owner's draft slot.
func (c *Client) DiscardDraft(ctx context.Context, owner models.OwnerID) error {
	return c.call(ctx, http.MethodDelete, ownerPath(owner, "/draft"), nil, nil)
}

// PublishCampaign makes the campaign active and public with the given form.
func (c *Client) PublishCampaign(ctx context.Context, owner models.OwnerID, id models.CampaignID, form *models.FormData) (*models.Campaign, error) {
	body := struct {
		FormData *models.FormData `json:"form_data"`
	}{form}

	var result models.Campaign
	if err := c.call(ctx, http.MethodPost, campaignPath(owner, id, "/publish"), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PauseCampaign stops a published campaign from accepting contributions.
func (c *Client) PauseCampaign(ctx context.Context, owner models.OwnerID, id models.CampaignID) (*models.Campaign, error) {
	var result models.Campaign
	if err := c.call(ctx, http.MethodPost, campaignPath(owner, id, "/pause"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResumeCampaign makes a paused campaign active again.
func (c *Client) ResumeCampaign(ctx context.Context, owner models.OwnerID, id models.CampaignID) (*models.Campaign, error) {
	var result models.Campaign
	if err := c.call(ctx, http.MethodPost, campaignPath(owner, id, "/resume"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteCampaign deletes one of the owner's campaigns.
func (c *Client) DeleteCampaign(ctx context.Context, owner models.OwnerID, id models.CampaignID) error {
	return c.call(ctx, http.MethodDelete, campaignPath(owner, id, ""), nil, nil)
}
