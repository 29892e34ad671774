package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/orangecat/campaignsync/pkg/models"
)

// GetAllCampaigns returns the owner's campaigns with the local draft merged
// in. Durable records come first in store order (most recently updated
// first); an unlinked draft is prepended as a synthetic entry.
//
// A failed durable read fails the whole call with ErrRemoteUnavailable: a
// list without the published campaigns would be worse than no list. A
// failed local read just means there is no draft.
func (s *Service) GetAllCampaigns(ctx context.Context, owner models.OwnerID) ([]models.CampaignView, error) {
	if owner.IsZero() {
		return nil, invalidInput("owner id is required")
	}

	start := time.Now()
	records, err := s.campaigns.ListCampaigns(ctx, owner)
	s.observe("list", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
	}

	draft := s.drafts.Load(ctx, owner)
	views := Reconcile(owner, records, draft)

	if s.metrics != nil {
		var local int
		for i := range views {
			if views[i].Source == models.SourceLocal {
				local++
			}
		}
		s.metrics.ObserveViews(string(models.SourceLocal), local)
		s.metrics.ObserveViews(string(models.SourceDatabase), len(views)-local)
	}
	return views, nil
}

// Reconcile merges the owner's durable records with the local draft.
//
// Without a draft every record is returned as is. A draft linked to one of
// the records replaces that record's title, description, payment
// destinations, goal and categories in place; the id, creation time, funding
// totals and flags stay durable. Any other draft becomes a synthetic draft
// entry at the front of the list. Reconcile performs no I/O.
func Reconcile(owner models.OwnerID, records []*models.Campaign, draft *models.LocalDraft) []models.CampaignView {
	if draft.IsEmpty() {
		draft = nil
	}

	views := make([]models.CampaignView, 0, len(records)+1)
	linked := false
	for _, rec := range records {
		if draft != nil && draft.IsLinkedTo(rec.ID) {
			views = append(views, overlay(rec, draft))
			linked = true
			continue
		}
		views = append(views, databaseView(rec))
	}

	if draft != nil && !linked {
		views = append([]models.CampaignView{syntheticView(owner, draft)}, views...)
	}
	return views
}

func databaseView(rec *models.Campaign) models.CampaignView {
	v := models.CampaignView{Campaign: *rec, Source: models.SourceDatabase}
	v.Normalize()
	v.Lifecycle = Classify(&v.Campaign)
	v.IsDraft = v.Lifecycle == models.LifecycleDraft
	v.Progress = progress(&v.Campaign)
	return v
}

func overlay(rec *models.Campaign, draft *models.LocalDraft) models.CampaignView {
	v := databaseView(rec)
	applyDraft(&v.Campaign, draft)
	v.Source = models.SourceLocal
	v.IsDraft = true
	v.Progress = progress(&v.Campaign)
	return v
}

func syntheticView(owner models.OwnerID, draft *models.LocalDraft) models.CampaignView {
	c := models.Campaign{
		ID:        models.LocalCampaignID(owner),
		OwnerID:   owner,
		CreatedAt: draft.SavedAt,
		UpdatedAt: draft.SavedAt,
	}
	applyDraft(&c, draft)
	return models.CampaignView{
		Campaign:  c,
		Source:    models.SourceLocal,
		IsDraft:   true,
		Lifecycle: models.LifecycleDraft,
	}
}

// applyDraft copies the draft's content fields onto c.
func applyDraft(c *models.Campaign, draft *models.LocalDraft) {
	p := draft.FormData.Payload()
	c.Title = draft.Title
	c.Description = p.Description
	c.PaymentDestinations = pq.StringArray(p.PaymentDestinations)
	c.GoalAmount = p.GoalAmount
	c.Categories = pq.StringArray(p.Categories)
}

func progress(c *models.Campaign) *float64 {
	if c.GoalAmount == nil || *c.GoalAmount <= 0 {
		return nil
	}
	p := c.RaisedAmount / *c.GoalAmount
	return &p
}
