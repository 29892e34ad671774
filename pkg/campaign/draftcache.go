package campaign

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"

	"github.com/orangecat/campaignsync/pkg/models"
	"github.com/orangecat/campaignsync/pkg/store"
)

const draftKeyPrefix = "campaign_draft:"

// DraftKey returns the store key of the owner's draft slot.
func DraftKey(owner models.OwnerID) string {
	return draftKeyPrefix + owner.String()
}

// DraftCache is a single-slot cache of each owner's in-progress draft on top
// of a store.DraftStore.
//
// Eviction is wholesale: Save replaces the slot, Clear empties it, and there
// is never more than one draft per owner. Values are CBOR encoded.
//
// Load never fails. A missing, unreadable or undecodable slot, a slot holding
// another owner's draft, and a draft without a working title all read as
// "no draft".
type DraftCache struct {
	store store.DraftStore
	enc   cbor.EncMode
	log   zerolog.Logger
}

func NewDraftCache(s store.DraftStore, log zerolog.Logger) *DraftCache {
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		// Static options; only a programming error gets here.
		panic(fmt.Sprintf("draft cache: invalid CBOR options: %v", err))
	}
	return &DraftCache{store: s, enc: enc, log: log}
}

// Load returns the owner's draft, or nil when there is none.
func (c *DraftCache) Load(ctx context.Context, owner models.OwnerID) *models.LocalDraft {
	data, err := c.store.Get(ctx, DraftKey(owner))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.log.Warn().Err(err).Str("owner", owner.String()).Msg("local draft read failed, treating as absent")
		}
		return nil
	}

	var draft models.LocalDraft
	if err := cbor.Unmarshal(data, &draft); err != nil {
		c.log.Warn().Err(err).Str("owner", owner.String()).Msg("local draft is corrupt, treating as absent")
		return nil
	}
	if draft.OwnerID != owner {
		c.log.Warn().Str("owner", owner.String()).Str("draft_owner", draft.OwnerID.String()).
			Msg("local draft belongs to another owner, treating as absent")
		return nil
	}
	if draft.IsEmpty() {
		return nil
	}
	return &draft
}

// Save replaces the owner's slot with draft.
func (c *DraftCache) Save(ctx context.Context, draft *models.LocalDraft) error {
	data, err := c.enc.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := c.store.Put(ctx, DraftKey(draft.OwnerID), data); err != nil {
		return fmt.Errorf("put draft: %w", err)
	}
	return nil
}

// Clear empties the owner's slot.
func (c *DraftCache) Clear(ctx context.Context, owner models.OwnerID) error {
	if err := c.store.Delete(ctx, DraftKey(owner)); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
