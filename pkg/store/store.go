// Package store defines the storage contracts used by the campaign service.
//
// Two independent stores back the service:
//
//   - [CampaignStore] is the durable, owner-scoped table of campaign records.
//     It is the single shared source of truth across sessions and devices.
//     Implementations live in the memory, postgres, surrealdb and supabase
//     subpackages.
//   - [DraftStore] is a small key/value store for the owner's in-progress
//     draft. It is local to a deployment and never synchronized anywhere.
//     Implementations live in the memory, bolt and redis subpackages.
//
// # Ownership Scoping
//
// Every write on a [CampaignStore] is scoped to both the record id and the
// owner id. A write that matches no row returns [ErrNotFound]; callers cannot
// tell a missing record from one owned by somebody else, and should not try.
//
// # Concurrency
//
// Implementations must be safe for concurrent use. No implementation offers
// compare-and-swap semantics: concurrent writes to one record resolve as
// last write wins.
package store

import (
	"context"
	"errors"

	"github.com/orangecat/campaignsync/pkg/models"
)

var (
	// ErrNotFound is returned when a key or an owner-scoped record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly is returned for writes while the store is in maintenance mode.
	ErrReadOnly = errors.New("operation denied: store is in read-only mode")
)

// CampaignStore is the durable campaign table.
type CampaignStore interface {
	// ListCampaigns returns all records owned by owner, most recently
	// updated first. An owner without campaigns gets an empty slice.
	ListCampaigns(ctx context.Context, owner models.OwnerID) ([]*models.Campaign, error)

	// CreateCampaign inserts a new record and returns it with its assigned id.
	// A payload without flags creates a draft.
	CreateCampaign(ctx context.Context, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error)

	// UpdateCampaign overwrites the mutable fields of the record matching both
	// id and owner, and returns the updated row. Flags are changed only when
	// payload.Flags is set.
	UpdateCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error)

	// UpdateCampaignFlags sets only the lifecycle flags of the record matching
	// both id and owner.
	UpdateCampaignFlags(ctx context.Context, id models.CampaignID, owner models.OwnerID, flags models.CampaignFlags) (*models.Campaign, error)

	// DeleteCampaign removes the record matching both id and owner.
	DeleteCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID) error

	// Migrate prepares the schema. It is safe to call repeatedly.
	Migrate(ctx context.Context) error

	Close() error
}

// DraftStore is a byte-oriented key/value store. Put overwrites the whole
// value; there is no partial update.
type DraftStore interface {
	// Get returns ErrNotFound when the key has no value.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete succeeds when the key is already absent.
	Delete(ctx context.Context, key string) error
	Close() error
}
