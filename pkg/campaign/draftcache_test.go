package campaign_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangecat/campaignsync/pkg/campaign"
	"github.com/orangecat/campaignsync/pkg/models"
	"github.com/orangecat/campaignsync/pkg/store/memory"
)

func TestDraftKey(t *testing.T) {
	owner := models.NewOwnerID()
	assert.Equal(t, "campaign_draft:"+owner.String(), campaign.DraftKey(owner))
}

func TestDraftCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewDraftStore()
	cache := campaign.NewDraftCache(kv, zerolog.Nop())
	owner := models.NewOwnerID()

	assert.Nil(t, cache.Load(ctx, owner))

	draft := localDraft(owner, "Bike Fund", nil)
	require.NoError(t, cache.Save(ctx, draft))

	got := cache.Load(ctx, owner)
	require.NotNil(t, got)
	assert.Equal(t, draft.Title, got.Title)
	assert.Equal(t, draft.CurrentStep, got.CurrentStep)
	assert.True(t, draft.SavedAt.Equal(got.SavedAt))
	assert.Equal(t, *draft.FormData.Description, *got.FormData.Description)

	// Single slot: a second save replaces the first.
	linked := models.NewCampaignID()
	require.NoError(t, cache.Save(ctx, localDraft(owner, "Renamed", &linked)))
	got = cache.Load(ctx, owner)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.IsLinkedTo(linked))
	assert.Equal(t, 1, kv.Len())

	require.NoError(t, cache.Clear(ctx, owner))
	assert.Nil(t, cache.Load(ctx, owner))
	assert.Equal(t, 0, kv.Len())
}

func TestDraftCacheTreatsBadSlotsAsAbsent(t *testing.T) {
	ctx := context.Background()
	owner := models.NewOwnerID()

	var logs bytes.Buffer
	log := zerolog.New(&logs)

	t.Run("corrupt", func(t *testing.T) {
		kv := memory.NewDraftStore()
		require.NoError(t, kv.Put(ctx, campaign.DraftKey(owner), []byte("{not cbor")))
		assert.Nil(t, campaign.NewDraftCache(kv, log).Load(ctx, owner))
		assert.Contains(t, logs.String(), "corrupt")
	})

	t.Run("other owner", func(t *testing.T) {
		kv := memory.NewDraftStore()
		cache := campaign.NewDraftCache(kv, log)
		foreignOwner := models.NewOwnerID()
		require.NoError(t, cache.Save(ctx, localDraft(foreignOwner, "theirs", nil)))

		// Copy the other owner's value under this owner's key.
		foreign, err := kv.Get(ctx, campaign.DraftKey(foreignOwner))
		require.NoError(t, err)
		require.NoError(t, kv.Put(ctx, campaign.DraftKey(owner), foreign))

		assert.Nil(t, cache.Load(ctx, owner))
		assert.Contains(t, logs.String(), "another owner")
	})

	t.Run("empty title", func(t *testing.T) {
		kv := memory.NewDraftStore()
		cache := campaign.NewDraftCache(kv, log)
		require.NoError(t, cache.Save(ctx, localDraft(owner, "  ", nil)))
		assert.Nil(t, cache.Load(ctx, owner))
	})

	t.Run("read failure", func(t *testing.T) {
		kv := &faultyDrafts{DraftStore: memory.NewDraftStore(), getErr: errDisk}
		assert.Nil(t, campaign.NewDraftCache(kv, log).Load(ctx, owner))
		assert.Contains(t, logs.String(), errDisk.Error())
	})
}
