// Package supabase stores campaign records behind a Supabase (PostgREST)
// REST endpoint.
//
// Filters use PostgREST operators: owner scoping is owner_id=eq.<owner> on
// every request, and writes ask for return=representation so that a PATCH
// or DELETE matching no row comes back as an empty array, which is reported
// as [store.ErrNotFound]. Outbound requests are throttled with a token
// bucket so a burst of saves cannot exhaust the project's request quota.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/orangecat/campaignsync/pkg/models"
	"github.com/orangecat/campaignsync/pkg/store"
)

const (
	maxResponseBytes  = 8 << 20
	maxErrorBodyBytes = 32 << 10
)

// Config holds the endpoint and credentials.
type Config struct {
	URL string
	// APIKey is sent both as apikey and as the bearer token.
	APIKey  string
	Timeout time.Duration
	// RateLimit is the sustained requests per second; zero disables
	// throttling.
	RateLimit float64
	Burst     int
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

// APIError is a non-2xx answer from PostgREST.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase API error %d: %s", e.StatusCode, e.Message)
}

// Store implements store.CampaignStore over the PostgREST API.
type Store struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

var _ store.CampaignStore = (*Store)(nil)

// New validates cfg and builds a Store. It does not contact the server.
func New(cfg Config) (*Store, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("supabase url %q must be an absolute URL", cfg.URL)
	}
	if parsed.User != nil {
		return nil, fmt.Errorf("supabase url must not include user info")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase api key is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Store{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: client,
		limiter:    limiter,
		now:        time.Now,
	}, nil
}

// Migrate is a no-op: the table is owned by the Supabase project's own
// migrations.
func (s *Store) Migrate(ctx context.Context) error { return nil }

func (s *Store) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *Store) ListCampaigns(ctx context.Context, owner models.OwnerID) ([]*models.Campaign, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("owner_id", "eq."+owner.String())
	q.Set("order", "updated_at.desc,id.asc")

	campaigns, err := s.request(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *Store) CreateCampaign(ctx context.Context, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	c := payload.NewCampaign(owner, s.now().UTC())
	campaigns, err := s.request(ctx, http.MethodPost, nil, c)
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	if len(campaigns) == 0 {
		return nil, fmt.Errorf("create campaign %s: no record returned", c.ID)
	}
	return campaigns[0], nil
}

func (s *Store) UpdateCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	return s.patch(ctx, id, owner, payload.Fields())
}

func (s *Store) UpdateCampaignFlags(ctx context.Context, id models.CampaignID, owner models.OwnerID, flags models.CampaignFlags) (*models.Campaign, error) {
	return s.patch(ctx, id, owner, map[string]any{
		"is_active": flags.IsActive,
		"is_public": flags.IsPublic,
	})
}

func (s *Store) patch(ctx context.Context, id models.CampaignID, owner models.OwnerID, fields map[string]any) (*models.Campaign, error) {
	fields["updated_at"] = s.now().UTC()
	campaigns, err := s.request(ctx, http.MethodPatch, scope(id, owner), fields)
	if err != nil {
		return nil, fmt.Errorf("update campaign %s: %w", id, err)
	}
	if len(campaigns) == 0 {
		return nil, store.ErrNotFound
	}
	return campaigns[0], nil
}

func (s *Store) DeleteCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID) error {
	campaigns, err := s.request(ctx, http.MethodDelete, scope(id, owner), nil)
	if err != nil {
		return fmt.Errorf("delete campaign %s: %w", id, err)
	}
	if len(campaigns) == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scope(id models.CampaignID, owner models.OwnerID) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+id.String())
	q.Set("owner_id", "eq."+owner.String())
	return q
}

// request calls the campaigns table endpoint and decodes the returned rows.
func (s *Store) request(ctx context.Context, method string, query url.Values, body any) ([]*models.Campaign, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	endpoint := s.baseURL + "/rest/v1/" + models.CampaignsTable
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	campaigns := make([]*models.Campaign, 0)
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&campaigns); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	for _, c := range campaigns {
		c.Normalize()
	}
	return campaigns, nil
}
