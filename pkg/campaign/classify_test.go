package campaign_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangecat/campaignsync/pkg/campaign"
	"github.com/orangecat/campaignsync/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		active, public bool
		want           models.Lifecycle
	}{
		{false, false, models.LifecycleDraft},
		{true, true, models.LifecycleActive},
		{false, true, models.LifecyclePaused},
		{true, false, models.LifecycleUnknown},
	}
	for _, tt := range tests {
		c := &models.Campaign{IsActive: tt.active, IsPublic: tt.public}
		assert.Equal(t, tt.want, campaign.Classify(c), "is_active=%v is_public=%v", tt.active, tt.public)
	}
}

func view(title string, flags models.CampaignFlags) models.CampaignView {
	c := models.CampaignPayload{Title: title, Flags: &flags}.NewCampaign(models.NewOwnerID(), now)
	return models.CampaignView{Campaign: *c, Source: models.SourceDatabase, Lifecycle: campaign.Classify(c)}
}

func titles(list []models.CampaignView) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, v.Title)
	}
	return out
}

func TestFilterCampaigns(t *testing.T) {
	owner := models.NewOwnerID()
	synthetic := models.CampaignView{
		Campaign: models.Campaign{ID: models.LocalCampaignID(owner), OwnerID: owner, Title: "local"},
		Source:   models.SourceLocal,
		IsDraft:  true,
	}
	list := []models.CampaignView{
		synthetic,
		view("d1", models.FlagsDraft),
		view("a1", models.FlagsActive),
		view("p1", models.FlagsPaused),
		view("a2", models.FlagsActive),
		view("odd", models.CampaignFlags{IsActive: true}),
		view("d2", models.FlagsDraft),
	}

	tests := []struct {
		name string
		opts campaign.FilterOptions
		want []string
	}{
		{name: "all", opts: campaign.FilterOptions{}, want: []string{"local", "d1", "a1", "p1", "a2", "odd", "d2"}},
		{name: "explicit all", opts: campaign.FilterOptions{Status: campaign.StatusAll}, want: []string{"local", "d1", "a1", "p1", "a2", "odd", "d2"}},
		{name: "drafts include synthetic", opts: campaign.FilterOptions{Status: campaign.StatusDraft}, want: []string{"local", "d1", "d2"}},
		{name: "active", opts: campaign.FilterOptions{Status: campaign.StatusActive}, want: []string{"a1", "a2"}},
		{name: "paused", opts: campaign.FilterOptions{Status: campaign.StatusPaused}, want: []string{"p1"}},
		{name: "limit", opts: campaign.FilterOptions{Limit: 2}, want: []string{"local", "d1"}},
		{name: "offset", opts: campaign.FilterOptions{Offset: 5}, want: []string{"odd", "d2"}},
		{name: "status then page", opts: campaign.FilterOptions{Status: campaign.StatusDraft, Offset: 1, Limit: 1}, want: []string{"d1"}},
		{name: "offset past end", opts: campaign.FilterOptions{Offset: 50}, want: []string{}},
		{name: "negative bounds", opts: campaign.FilterOptions{Offset: -3, Limit: -1}, want: []string{"local", "d1", "a1", "p1", "a2", "odd", "d2"}},
		{name: "unknown status", opts: campaign.FilterOptions{Status: "archived"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := campaign.FilterCampaigns(list, tt.opts)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestFilterCampaignsDoesNotModifyInput(t *testing.T) {
	list := []models.CampaignView{view("a", models.FlagsActive), view("b", models.FlagsDraft)}
	_ = campaign.FilterCampaigns(list, campaign.FilterOptions{Status: campaign.StatusDraft})
	assert.Equal(t, []string{"a", "b"}, titles(list))
}

func TestParseFilterOptions(t *testing.T) {
	opts, err := campaign.ParseFilterOptions("", "", "")
	require.NoError(t, err)
	assert.Equal(t, campaign.FilterOptions{}, opts)

	opts, err = campaign.ParseFilterOptions(" Paused ", "10", "20")
	require.NoError(t, err)
	assert.Equal(t, campaign.FilterOptions{Status: campaign.StatusPaused, Limit: 10, Offset: 20}, opts)

	for _, bad := range [][3]string{
		{"archived", "", ""},
		{"", "-1", ""},
		{"", "", "x"},
	} {
		_, err := campaign.ParseFilterOptions(bad[0], bad[1], bad[2])
		assert.ErrorIs(t, err, campaign.ErrInvalidInput, "%v", bad)
	}
}
