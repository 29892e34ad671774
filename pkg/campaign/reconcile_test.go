package campaign_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangecat/campaignsync/pkg/campaign"
	"github.com/orangecat/campaignsync/pkg/models"
)

var now = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

func durable(owner models.OwnerID, title string, flags models.CampaignFlags, updated time.Time) *models.Campaign {
	goal := 500.0
	c := models.CampaignPayload{
		Title:               title,
		Description:         "durable " + title,
		PaymentDestinations: []string{"bc1qdurable"},
		GoalAmount:          &goal,
		Categories:          []string{"durable"},
		Flags:               &flags,
	}.NewCampaign(owner, updated.Add(-time.Hour))
	c.UpdatedAt = updated
	c.RaisedAmount = 125
	c.ContributorCount = 4
	return c
}

func localDraft(owner models.OwnerID, title string, linked *models.CampaignID) *models.LocalDraft {
	description := "local " + title
	return &models.LocalDraft{
		OwnerID: owner,
		Title:   title,
		FormData: models.FormData{
			Title:               &title,
			Description:         &description,
			PaymentDestinations: []string{"lnurl1local"},
			GoalAmount:          models.NumberFromString("1000"),
			Categories:          []string{"local"},
		},
		CurrentStep:    2,
		LinkedRemoteID: linked,
		SavedAt:        now,
	}
}

func TestReconcileWithoutDraft(t *testing.T) {
	owner := models.NewOwnerID()
	records := []*models.Campaign{
		durable(owner, "b", models.FlagsActive, now),
		durable(owner, "a", models.FlagsDraft, now.Add(-time.Minute)),
	}

	views := campaign.Reconcile(owner, records, nil)
	require.Len(t, views, 2)
	assert.Equal(t, []string{"b", "a"}, titles(views))
	for _, v := range views {
		assert.Equal(t, models.SourceDatabase, v.Source)
	}
	assert.False(t, views[0].IsDraft)
	assert.Equal(t, models.LifecycleActive, views[0].Lifecycle)
	assert.True(t, views[1].IsDraft)
	assert.Equal(t, models.LifecycleDraft, views[1].Lifecycle)

	require.NotNil(t, views[0].Progress)
	assert.InDelta(t, 0.25, *views[0].Progress, 1e-9)
}

func TestReconcileLinkedDraftOverridesInPlace(t *testing.T) {
	owner := models.NewOwnerID()
	first := durable(owner, "first", models.FlagsActive, now)
	target := durable(owner, "target", models.FlagsDraft, now.Add(-time.Minute))
	last := durable(owner, "last", models.FlagsPaused, now.Add(-2*time.Minute))

	id := target.ID
	views := campaign.Reconcile(owner, []*models.Campaign{first, target, last}, localDraft(owner, "edited", &id))

	require.Len(t, views, 3, "a linked draft never adds an entry")
	assert.Equal(t, []string{"first", "edited", "last"}, titles(views))

	got := views[1]
	assert.Equal(t, target.ID, got.ID)
	assert.Equal(t, models.SourceLocal, got.Source)
	assert.True(t, got.IsDraft)

	// From the draft.
	assert.Equal(t, "local edited", got.Description)
	assert.Equal(t, []string{"lnurl1local"}, []string(got.PaymentDestinations))
	assert.Equal(t, []string{"local"}, []string(got.Categories))
	require.NotNil(t, got.GoalAmount)
	assert.Equal(t, 1000.0, *got.GoalAmount)

	// Durable only.
	assert.Equal(t, target.CreatedAt, got.CreatedAt)
	assert.Equal(t, 125.0, got.RaisedAmount)
	assert.Equal(t, 4, got.ContributorCount)
	require.NotNil(t, got.Progress)
	assert.InDelta(t, 0.125, *got.Progress, 1e-9)

	assert.Equal(t, models.SourceDatabase, views[0].Source)
	assert.Equal(t, models.SourceDatabase, views[2].Source)
}

func TestReconcileOverlayOfPublishedRecordKeepsFlags(t *testing.T) {
	owner := models.NewOwnerID()
	rec := durable(owner, "live", models.FlagsActive, now)
	id := rec.ID

	views := campaign.Reconcile(owner, []*models.Campaign{rec}, localDraft(owner, "live edit", &id))
	require.Len(t, views, 1)
	assert.True(t, views[0].IsActive)
	assert.True(t, views[0].IsPublic)
	assert.Equal(t, models.LifecycleActive, views[0].Lifecycle)
	assert.True(t, views[0].IsDraft)
	assert.Equal(t, models.SourceLocal, views[0].Source)
}

func TestReconcileUnlinkedDraftIsPrepended(t *testing.T) {
	owner := models.NewOwnerID()
	records := []*models.Campaign{
		durable(owner, "a", models.FlagsActive, now),
		durable(owner, "b", models.FlagsPaused, now.Add(-time.Minute)),
	}

	stale := models.NewCampaignID()
	for name, draft := range map[string]*models.LocalDraft{
		"no link":    localDraft(owner, "fresh", nil),
		"stale link": localDraft(owner, "fresh", &stale),
	} {
		t.Run(name, func(t *testing.T) {
			views := campaign.Reconcile(owner, records, draft)
			require.Len(t, views, len(records)+1)

			first := views[0]
			assert.Equal(t, models.LocalCampaignID(owner), first.ID)
			assert.True(t, first.ID.IsLocal())
			assert.Equal(t, owner, first.OwnerID)
			assert.Equal(t, "fresh", first.Title)
			assert.False(t, first.IsActive)
			assert.False(t, first.IsPublic)
			assert.Equal(t, models.SourceLocal, first.Source)
			assert.True(t, first.IsDraft)
			assert.Equal(t, models.LifecycleDraft, first.Lifecycle)
			assert.Equal(t, now, first.UpdatedAt)
			assert.Zero(t, first.RaisedAmount)

			assert.Equal(t, []string{"fresh", "a", "b"}, titles(views))
		})
	}
}

func TestReconcileIgnoresDraftWithoutTitle(t *testing.T) {
	owner := models.NewOwnerID()
	records := []*models.Campaign{durable(owner, "a", models.FlagsDraft, now)}
	id := records[0].ID

	for _, title := range []string{"", "   "} {
		views := campaign.Reconcile(owner, records, localDraft(owner, title, nil))
		assert.Equal(t, []string{"a"}, titles(views))

		views = campaign.Reconcile(owner, records, localDraft(owner, title, &id))
		assert.Equal(t, []string{"a"}, titles(views))
		assert.Equal(t, models.SourceDatabase, views[0].Source)
	}
}

func TestReconcileIsDeterministic(t *testing.T) {
	owner := models.NewOwnerID()
	records := []*models.Campaign{
		durable(owner, "a", models.FlagsActive, now),
		durable(owner, "b", models.FlagsDraft, now.Add(-time.Minute)),
	}
	draft := localDraft(owner, "fresh", nil)

	assert.Equal(t, campaign.Reconcile(owner, records, draft), campaign.Reconcile(owner, records, draft))
	assert.Equal(t, "a", records[0].Title, "input records are not modified")
}

func TestReconcileEmpty(t *testing.T) {
	views := campaign.Reconcile(models.NewOwnerID(), nil, nil)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}
