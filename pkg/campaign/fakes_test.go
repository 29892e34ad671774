package campaign_test

import (
	"context"
	"errors"
	"sync"

	"github.com/orangecat/campaignsync/pkg/models"
	"github.com/orangecat/campaignsync/pkg/store"
)

var (
	errDisk    = errors.New("disk full")
	errNetwork = errors.New("connection reset by peer")
)

// faultyDrafts wraps a draft store and fails the selected operations.
type faultyDrafts struct {
	store.DraftStore

	mu        sync.Mutex
	getErr    error
	putErr    error
	deleteErr error
	puts      int
}

func (f *faultyDrafts) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	err := f.getErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.DraftStore.Get(ctx, key)
}

func (f *faultyDrafts) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.puts++
	err := f.putErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.DraftStore.Put(ctx, key, value)
}

func (f *faultyDrafts) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	err := f.deleteErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.DraftStore.Delete(ctx, key)
}

// faultyCampaigns wraps a campaign store, fails the selected operations and
// records the contexts writes were issued with, plus their state at call time.
type faultyCampaigns struct {
	store.CampaignStore

	mu       sync.Mutex
	listErr  error
	writeErr error
	creates  int
	updates  int
	writeCtx []context.Context
	ctxErrs  []error
}

func (f *faultyCampaigns) fail(ctx context.Context, create bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCtx = append(f.writeCtx, ctx)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if create {
		f.creates++
	} else {
		f.updates++
	}
	return f.writeErr
}

func (f *faultyCampaigns) ListCampaigns(ctx context.Context, owner models.OwnerID) ([]*models.Campaign, error) {
	f.mu.Lock()
	err := f.listErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.CampaignStore.ListCampaigns(ctx, owner)
}

func (f *faultyCampaigns) CreateCampaign(ctx context.Context, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	if err := f.fail(ctx, true); err != nil {
		return nil, err
	}
	return f.CampaignStore.CreateCampaign(ctx, owner, payload)
}

func (f *faultyCampaigns) UpdateCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID, payload models.CampaignPayload) (*models.Campaign, error) {
	if err := f.fail(ctx, false); err != nil {
		return nil, err
	}
	return f.CampaignStore.UpdateCampaign(ctx, id, owner, payload)
}

func (f *faultyCampaigns) UpdateCampaignFlags(ctx context.Context, id models.CampaignID, owner models.OwnerID, flags models.CampaignFlags) (*models.Campaign, error) {
	if err := f.fail(ctx, false); err != nil {
		return nil, err
	}
	return f.CampaignStore.UpdateCampaignFlags(ctx, id, owner, flags)
}

func (f *faultyCampaigns) DeleteCampaign(ctx context.Context, id models.CampaignID, owner models.OwnerID) error {
	if err := f.fail(ctx, false); err != nil {
		return err
	}
	return f.CampaignStore.DeleteCampaign(ctx, id, owner)
}

func (f *faultyCampaigns) setListErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

func (f *faultyCampaigns) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}
