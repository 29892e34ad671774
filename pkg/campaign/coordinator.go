package campaign

import (
	"context"
	"time"

	"github.com/orangecat/campaignsync/pkg/models"
)

// SaveDraft records the owner's in-progress edit.
//
// The local slot is written first and always replaced, whatever happens
// next; a local failure is logged and does not stop the durable write. The
// form is then mapped to a complete payload and written durably: as an
// owner-scoped update when linked is set, otherwise as an insert of a new
// draft record. After an insert the slot is rewritten with the new id, so
// the next save updates instead of inserting a duplicate.
//
// On a durable failure the local draft is kept and the error is
// ErrNotFoundOrForbidden when the update matched nothing, or a
// *RemoteWriteError otherwise.
//
// Both writes run to completion even if ctx is cancelled. Overlapping saves
// for one owner are not ordered: the last write to land wins in each store.
func (s *Service) SaveDraft(ctx context.Context, owner models.OwnerID, form *models.FormData, currentStep int, linked *models.CampaignID) (models.CampaignID, error) {
	switch {
	case owner.IsZero():
		return models.CampaignID{}, invalidInput("owner id is required")
	case form == nil:
		return models.CampaignID{}, invalidInput("form data is required")
	case currentStep < 0:
		return models.CampaignID{}, invalidInput("current step must not be negative, got %d", currentStep)
	case linked != nil && (linked.IsZero() || linked.IsLocal()):
		return models.CampaignID{}, invalidInput("linked id %q is not a durable campaign id", linked)
	}

	ctx, cancel := s.detach(ctx)
	defer cancel()

	draft := &models.LocalDraft{
		OwnerID:        owner,
		Title:          form.WorkingTitle(),
		FormData:       *form,
		CurrentStep:    currentStep,
		LinkedRemoteID: linked,
		SavedAt:        s.now(),
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		s.draftFailure("save", owner, err)
	}

	payload := form.Payload()
	var (
		rec *models.Campaign
		err error
		op  string
	)
	start := time.Now()
	if linked != nil {
		op = "update"
		rec, err = s.campaigns.UpdateCampaign(ctx, *linked, owner, payload)
	} else {
		op = "insert"
		rec, err = s.campaigns.CreateCampaign(ctx, owner, payload)
	}
	s.observe(op, start, err)
	if err != nil {
		s.log.Error().Err(err).Str("owner", owner.String()).Str("op", op).Msg("draft remote write failed, local draft kept")
		return models.CampaignID{}, writeError(op, err)
	}

	if linked == nil {
		id := rec.ID
		draft.LinkedRemoteID = &id
		if err := s.drafts.Save(ctx, draft); err != nil {
			s.draftFailure("link", owner, err)
		}
	}

	s.log.Debug().Str("owner", owner.String()).Str("campaign", rec.ID.String()).Str("op", op).Msg("draft saved")
	return rec.ID, nil
}

// PublishCampaign writes the form to the record id as an active, public
// campaign. The owner's draft slot is cleared only after the durable update
// succeeds; on failure it is left exactly as it was so the owner can retry.
func (s *Service) PublishCampaign(ctx context.Context, owner models.OwnerID, id models.CampaignID, form *models.FormData) (*models.Campaign, error) {
	switch {
	case owner.IsZero():
		return nil, invalidInput("owner id is required")
	case id.IsZero() || id.IsLocal():
		return nil, invalidInput("a durable campaign id is required to publish")
	case form == nil:
		return nil, invalidInput("form data is required")
	}

	ctx, cancel := s.detach(ctx)
	defer cancel()

	flags := models.FlagsActive
	payload := form.Payload()
	payload.Flags = &flags

	start := time.Now()
	rec, err := s.campaigns.UpdateCampaign(ctx, id, owner, payload)
	s.observe("publish", start, err)
	if err != nil {
		s.log.Error().Err(err).Str("owner", owner.String()).Str("campaign", id.String()).Msg("publish failed, local draft kept")
		return nil, writeError("publish", err)
	}

	if err := s.drafts.Clear(ctx, owner); err != nil {
		s.draftFailure("clear", owner, err)
	}

	s.log.Info().Str("owner", owner.String()).Str("campaign", id.String()).Msg("campaign published")
	rec.Normalize()
	return rec, nil
}

// GetDraft returns the owner's local draft, or nil when there is none.
func (s *Service) GetDraft(ctx context.Context, owner models.OwnerID) (*models.LocalDraft, error) {
	if owner.IsZero() {
		return nil, invalidInput("owner id is required")
	}
	return s.drafts.Load(ctx, owner), nil
}

// DiscardDraft empties the owner's draft slot. Durable records are not
// touched. Local failures are logged, never returned.
func (s *Service) DiscardDraft(ctx context.Context, owner models.OwnerID) error {
	if owner.IsZero() {
		return invalidInput("owner id is required")
	}
	if err := s.drafts.Clear(ctx, owner); err != nil {
		s.draftFailure("discard", owner, err)
	}
	return nil
}

// PauseCampaign stops a published campaign without unlisting it:
// is_active=false, is_public=true.
func (s *Service) PauseCampaign(ctx context.Context, owner models.OwnerID, id models.CampaignID) (*models.Campaign, error) {
	return s.setFlags(ctx, "pause", owner, id, models.FlagsPaused)
}

// ResumeCampaign makes a paused campaign active again.
func (s *Service) ResumeCampaign(ctx context.Context, owner models.OwnerID, id models.CampaignID) (*models.Campaign, error) {
	return s.setFlags(ctx, "resume", owner, id, models.FlagsActive)
}

func (s *Service) setFlags(ctx context.Context, op string, owner models.OwnerID, id models.CampaignID, flags models.CampaignFlags) (*models.Campaign, error) {
	switch {
	case owner.IsZero():
		return nil, invalidInput("owner id is required")
	case id.IsZero() || id.IsLocal():
		return nil, invalidInput("a durable campaign id is required to %s", op)
	}

	ctx, cancel := s.detach(ctx)
	defer cancel()

	start := time.Now()
	rec, err := s.campaigns.UpdateCampaignFlags(ctx, id, owner, flags)
	s.observe(op, start, err)
	if err != nil {
		return nil, writeError(op, err)
	}
	rec.Normalize()
	return rec, nil
}

// DeleteCampaign removes a durable record. When the owner's draft is linked
// to it, the draft goes too, so it cannot resurface as a synthetic entry.
func (s *Service) DeleteCampaign(ctx context.Context, owner models.OwnerID, id models.CampaignID) error {
	switch {
	case owner.IsZero():
		return invalidInput("owner id is required")
	case id.IsZero() || id.IsLocal():
		return invalidInput("a durable campaign id is required to delete")
	}

	ctx, cancel := s.detach(ctx)
	defer cancel()

	start := time.Now()
	err := s.campaigns.DeleteCampaign(ctx, id, owner)
	s.observe("delete", start, err)
	if err != nil {
		return writeError("delete", err)
	}

	if draft := s.drafts.Load(ctx, owner); draft.IsLinkedTo(id) {
		if err := s.drafts.Clear(ctx, owner); err != nil {
			s.draftFailure("clear", owner, err)
		}
	}
	s.log.Info().Str("owner", owner.String()).Str("campaign", id.String()).Msg("campaign deleted")
	return nil
}
