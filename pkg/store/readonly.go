package store

import (
	"context"

	"github.com/orangecat/campaignsync/pkg/models"
)

// ReadOnlyStore wraps a CampaignStore and rejects writes while maintenance
// mode is on.
//
// The state is read through the isReadOnly function on every write, so the
// application can toggle maintenance mode at runtime without rebuilding the
// store. Reads always pass through. Rejected writes return ErrReadOnly, which
// the service reports as a failed remote write: the owner's local draft is
// kept and the save can be retried once maintenance is over.
type ReadOnlyStore struct {
	CampaignStore
	isReadOnly func() bool
}

// NewReadOnlyStore creates a read-only wrapper for a store
func NewReadOnlyStore(store CampaignStore, isReadOnly func() bool) *ReadOnlyStore {
	return &ReadOnlyStore{
		CampaignStore: store,
		isReadOnly:    isReadOnly,
	}
}

// Unwrap returns the underlying store
func (r *ReadOnlyStore) Unwrap() CampaignStore {
	return r.CampaignStore
}

func (r *ReadOnlyStore) checkReadOnly() error {
	if r.isReadOnly() {
		return ErrReadOnly
	}
	return nil
}

func (r *ReadOnlyStore) CreateCampaign(ctx context.Context, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, err
	}
	return r.CampaignStore.CreateCampaign(ctx, owner, payload)
}

func (r *ReadOnlyStore) UpdateCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, err
	}
	return r.CampaignStore.UpdateCampaign(ctx, id, owner, payload)
}

func (r *ReadOnlyStore) UpdateCampaignFlags(ctx context.Context, id models.CampaignID, owner models.OwnerID, flags models.CampaignFlags) (*models.Campaign, error) {
	if err := r.checkReadOnly(); err != nil {
		return nil, err
	}
	return r.CampaignStore.UpdateCampaignFlags(ctx, id, owner, flags)
}

func (r *ReadOnlyStore) DeleteCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.CampaignStore.DeleteCampaign(ctx, id, owner)
}

// Migrate is a schema write and is rejected in read-only mode as well.
func (r *ReadOnlyStore) Migrate(ctx context.Context) error {
	if err := r.checkReadOnly(); err != nil {
		return err
	}
	return r.CampaignStore.Migrate(ctx)
}
