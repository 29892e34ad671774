// Package surrealdb stores campaign records in SurrealDB using SurrealQL.
//
// Campaigns live in the campaigns table. Their ids and owner references
// marshal to SurrealDB record ids through the typed IDs in
// [github.com/orangecat/campaignsync/pkg/models], so every query is
// parameterised with the typed values themselves and never built with
// string formatting.
//
// Owner scoping is part of each write statement: an UPDATE or DELETE
// carries WHERE owner_id = $owner and an empty result is reported as
// [store.ErrNotFound].
//
// # Usage Example
//
//	campaigns, err := surrealdb.NewSurrealStore(ctx,
//		"ws://localhost:8000/rpc",
//		"campaignsync", "campaignsync", "root", "root",
//	)
//	if err != nil {
//		return err
//	}
//	defer campaigns.Close()
package surrealdb

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/orangecat/campaignsync/pkg/models"
	"github.com/orangecat/campaignsync/pkg/store"
)

const (
	listQuery   = "SELECT * FROM campaigns WHERE owner_id = $owner ORDER BY updated_at DESC, id ASC"
	createQuery = "CREATE $id CONTENT $data RETURN AFTER"
	updateQuery = "UPDATE $id MERGE $data WHERE owner_id = $owner RETURN AFTER"
	deleteQuery = "DELETE $id WHERE owner_id = $owner RETURN BEFORE"

	migrateQuery = `DEFINE TABLE IF NOT EXISTS campaigns SCHEMALESS;
DEFINE INDEX IF NOT EXISTS campaigns_owner_updated ON campaigns FIELDS owner_id, updated_at;`
)

// SurrealStore implements store.CampaignStore on SurrealDB.
type SurrealStore struct {
	db       *surrealdb.DB
	ns       string
	database string
	now      func() time.Time
}

var _ store.CampaignStore = (*SurrealStore)(nil)

// Option configures a SurrealStore.
type Option func(*SurrealStore)

// WithClock replaces time.Now for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *SurrealStore) { s.now = now }
}

// NewSurrealStore connects over WebSocket with the surrealcbor codec, signs
// in when credentials are given and selects the namespace and database.
func NewSurrealStore(ctx context.Context, wsURL, namespace, database, username, password string, opts ...Option) (*SurrealStore, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	conf := connection.NewConfig(u)

	// surrealcbor encodes time.Time as a SurrealDB datetime.
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if username != "" && password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": username,
			"pass": password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, namespace, database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return NewFromDB(db, namespace, database, opts...), nil
}

// NewFromDB wraps an already connected and authenticated client.
func NewFromDB(db *surrealdb.DB, namespace, database string, opts ...Option) *SurrealStore {
	s := &SurrealStore{
		db:       db,
		ns:       namespace,
		database: database,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate defines the campaigns table and the index backing the owner
// listing. Both statements are idempotent.
func (s *SurrealStore) Migrate(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, s.db, migrateQuery, nil); err != nil {
		return fmt.Errorf("failed to define campaigns schema in %s/%s: %w", s.ns, s.database, err)
	}
	return nil
}

func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}

func (s *SurrealStore) ListCampaigns(ctx context.Context, owner models.OwnerID) ([]*models.Campaign, error) {
	params := map[string]any{
		"owner": owner,
	}
	campaigns, err := s.query(ctx, listQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *SurrealStore) CreateCampaign(ctx context.Context, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	c := payload.NewCampaign(owner, s.now().UTC())
	params := map[string]any{
		"id":   c.ID,
		"data": c,
	}
	campaigns, err := s.query(ctx, createQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	if len(campaigns) == 0 {
		return nil, fmt.Errorf("failed to create campaign %s: no record returned", c.ID)
	}
	return campaigns[0], nil
}

func (s *SurrealStore) UpdateCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	return s.merge(ctx, id, owner, payload.Fields())
}

func (s *SurrealStore) UpdateCampaignFlags(ctx context.Context, id models.CampaignID, owner models.OwnerID, flags models.CampaignFlags) (*models.Campaign, error) {
	return s.merge(ctx, id, owner, map[string]any{
		"is_active": flags.IsActive,
		"is_public": flags.IsPublic,
	})
}

func (s *SurrealStore) merge(ctx context.Context, id models.CampaignID, owner models.OwnerID, fields map[string]any) (*models.Campaign, error) {
	fields["updated_at"] = s.now().UTC()
	params := map[string]any{
		"id":    id,
		"owner": owner,
		"data":  fields,
	}
	campaigns, err := s.query(ctx, updateQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update campaign %s: %w", id, err)
	}
	if len(campaigns) == 0 {
		return nil, store.ErrNotFound
	}
	return campaigns[0], nil
}

func (s *SurrealStore) DeleteCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID) error {
	params := map[string]any{
		"id":    id,
		"owner": owner,
	}
	campaigns, err := s.query(ctx, deleteQuery, params)
	if err != nil {
		return fmt.Errorf("failed to delete campaign %s: %w", id, err)
	}
	if len(campaigns) == 0 {
		return store.ErrNotFound
	}
	return nil
}

// query runs a single statement and returns its records.
func (s *SurrealStore) query(ctx context.Context, sql string, params map[string]any) ([]*models.Campaign, error) {
	result, err := surrealdb.Query[[]*models.Campaign](ctx, s.db, sql, params)
	if err != nil {
		return nil, err
	}

	campaigns := make([]*models.Campaign, 0)
	if result != nil && len(*result) > 0 {
		for _, c := range (*result)[0].Result {
			if c != nil {
				c.Normalize()
				campaigns = append(campaigns, c)
			}
		}
	}
	return campaigns, nil
}
