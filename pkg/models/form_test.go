package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangecat/campaignsync/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestNumberJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
		isSet bool
	}{
		{name: "number", input: `{"goal_amount": 1500.5}`, want: ptr(1500.5), isSet: true},
		{name: "numeric string", input: `{"goal_amount": " 250 "}`, want: ptr(250), isSet: true},
		{name: "garbage string", input: `{"goal_amount": "lots"}`, isSet: true},
		{name: "NaN string", input: `{"goal_amount": "NaN"}`, isSet: true},
		{name: "infinity string", input: `{"goal_amount": "+Inf"}`, isSet: true},
		{name: "boolean", input: `{"goal_amount": true}`, isSet: true},
		{name: "null", input: `{"goal_amount": null}`},
		{name: "missing", input: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form models.FormData
			require.NoError(t, json.Unmarshal([]byte(tt.input), &form))
			assert.Equal(t, tt.isSet, form.GoalAmount.IsSet())
			assert.Equal(t, tt.want, form.GoalAmount.Ptr())
		})
	}
}

func TestFormPayloadDefaults(t *testing.T) {
	payload := models.FormData{}.Payload()

	assert.Equal(t, models.PlaceholderTitle, payload.Title)
	assert.Equal(t, "", payload.Description)
	assert.NotNil(t, payload.PaymentDestinations)
	assert.Empty(t, payload.PaymentDestinations)
	assert.NotNil(t, payload.Categories)
	assert.Empty(t, payload.Categories)
	assert.Nil(t, payload.GoalAmount)
	assert.Nil(t, payload.Flags)
}

func TestFormPayloadCopiesFields(t *testing.T) {
	form := models.FormData{
		Title:               strPtr("  Bike Fund "),
		Description:         strPtr("New wheels"),
		PaymentDestinations: []string{"bc1qexample", " ", "lnurl1example"},
		GoalAmount:          models.NumberFromString("0.25"),
		Categories:          []string{"transport"},
	}

	payload := form.Payload()
	assert.Equal(t, "Bike Fund", payload.Title)
	assert.Equal(t, "New wheels", payload.Description)
	assert.Equal(t, []string{"bc1qexample", "lnurl1example"}, payload.PaymentDestinations)
	require.NotNil(t, payload.GoalAmount)
	assert.InDelta(t, 0.25, *payload.GoalAmount, 1e-9)
	assert.Equal(t, []string{"transport"}, payload.Categories)
}

func TestWhitespaceTitleUsesPlaceholder(t *testing.T) {
	payload := models.FormData{Title: strPtr("   ")}.Payload()
	assert.Equal(t, models.PlaceholderTitle, payload.Title)
}

func TestLocalDraftCBOR(t *testing.T) {
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	require.NoError(t, err)

	linked := models.NewCampaignID()
	draft := models.LocalDraft{
		OwnerID: models.NewOwnerID(),
		Title:   "Bike Fund",
		FormData: models.FormData{
			Title:      strPtr("Bike Fund"),
			GoalAmount: models.NumberFromString("abc"),
		},
		CurrentStep:    2,
		LinkedRemoteID: &linked,
		SavedAt:        time.Date(2026, 3, 1, 12, 30, 0, 123, time.UTC),
	}

	data, err := enc.Marshal(draft)
	require.NoError(t, err)

	var decoded models.LocalDraft
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.Equal(t, draft.OwnerID, decoded.OwnerID)
	assert.Equal(t, draft.Title, decoded.Title)
	assert.Equal(t, draft.CurrentStep, decoded.CurrentStep)
	require.NotNil(t, decoded.LinkedRemoteID)
	assert.Equal(t, linked, *decoded.LinkedRemoteID)
	assert.True(t, draft.SavedAt.Equal(decoded.SavedAt))
	assert.True(t, decoded.FormData.GoalAmount.IsSet())
	assert.Nil(t, decoded.FormData.GoalAmount.Ptr())
}

func TestLocalDraftIsEmpty(t *testing.T) {
	var missing *models.LocalDraft
	assert.True(t, missing.IsEmpty())
	assert.True(t, (&models.LocalDraft{Title: "  "}).IsEmpty())
	assert.False(t, (&models.LocalDraft{Title: "Bike Fund"}).IsEmpty())
}

func TestCampaignApplyKeepsDurableFields(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := models.CampaignPayload{Title: "Old"}.NewCampaign(models.NewOwnerID(), created)
	c.RaisedAmount = 12
	c.ContributorCount = 3
	id := c.ID

	now := created.Add(time.Hour)
	c.Apply(models.CampaignPayload{Title: "New", Flags: &models.FlagsActive}, now)

	assert.Equal(t, id, c.ID)
	assert.Equal(t, "New", c.Title)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, now, c.UpdatedAt)
	assert.Equal(t, 12.0, c.RaisedAmount)
	assert.Equal(t, 3, c.ContributorCount)
	assert.True(t, c.IsActive)
	assert.True(t, c.IsPublic)
}

func ptr(f float64) *float64 { return &f }
