// Package memory provides in-process implementations of
// [github.com/orangecat/campaignsync/pkg/store.CampaignStore] and
// [github.com/orangecat/campaignsync/pkg/store.DraftStore].
//
// They back the default development configuration and the service tests.
// Values are copied on the way in and out so callers never share state with
// the store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/orangecat/campaignsync/pkg/models"
	"github.com/orangecat/campaignsync/pkg/store"
)

// CampaignStore keeps campaign records in a map.
type CampaignStore struct {
	mu        sync.RWMutex
	campaigns map[models.CampaignID]*models.Campaign
	now       func() time.Time
}

var _ store.CampaignStore = (*CampaignStore)(nil)

// Option configures a memory store.
type Option func(*CampaignStore)

// WithClock replaces time.Now, mostly so tests control update ordering.
func WithClock(now func() time.Time) Option {
	return func(s *CampaignStore) { s.now = now }
}

func NewCampaignStore(opts ...Option) *CampaignStore {
	s := &CampaignStore{
		campaigns: make(map[models.CampaignID]*models.Campaign),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a full record as is. It exists to seed fixtures with funding
// totals, which no service operation writes.
func (s *CampaignStore) Put(c *models.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = clone(c)
}

func (s *CampaignStore) ListCampaigns(ctx context.Context, owner models.OwnerID) ([]*models.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Campaign, 0)
	for _, c := range s.campaigns {
		if c.OwnerID == owner {
			out = append(out, clone(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *CampaignStore) CreateCampaign(ctx context.Context, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := payload.NewCampaign(owner, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = c
	return clone(c), nil
}

func (s *CampaignStore) UpdateCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	return s.update(ctx, id, owner, func(c *models.Campaign, now time.Time) {
		c.Apply(payload, now)
	})
}

func (s *CampaignStore) UpdateCampaignFlags(ctx context.Context, id models.CampaignID, owner models.OwnerID, flags models.CampaignFlags) (*models.Campaign, error) {
	return s.update(ctx, id, owner, func(c *models.Campaign, now time.Time) {
		c.ApplyFlags(flags, now)
	})
}

func (s *CampaignStore) update(ctx context.Context, id models.CampaignID, owner models.OwnerID, apply func(*models.Campaign, time.Time)) (*models.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok || c.OwnerID != owner {
		return nil, store.ErrNotFound
	}
	apply(c, s.now())
	return clone(c), nil
}

func (s *CampaignStore) DeleteCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok || c.OwnerID != owner {
		return store.ErrNotFound
	}
	delete(s.campaigns, id)
	return nil
}

func (s *CampaignStore) Migrate(ctx context.Context) error { return nil }

func (s *CampaignStore) Close() error { return nil }

func clone(c *models.Campaign) *models.Campaign {
	cp := *c
	cp.PaymentDestinations = append(cp.PaymentDestinations[:0:0], c.PaymentDestinations...)
	cp.Categories = append(cp.Categories[:0:0], c.Categories...)
	if c.GoalAmount != nil {
		goal := *c.GoalAmount
		cp.GoalAmount = &goal
	}
	return &cp
}

// DraftStore is a mutex-guarded map of byte values.
type DraftStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ store.DraftStore = (*DraftStore)(nil)

func NewDraftStore() *DraftStore {
	return &DraftStore{values: make(map[string][]byte)}
}

func (s *DraftStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *DraftStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *DraftStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Len returns the number of stored keys.
func (s *DraftStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *DraftStore) Close() error { return nil }
