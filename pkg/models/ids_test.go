package models_test

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangecat/campaignsync/pkg/models"
)

func TestParseCampaignID(t *testing.T) {
	u := uuid.New()

	id, err := models.ParseCampaignID(u.String())
	require.NoError(t, err)
	assert.False(t, id.IsLocal())
	assert.Equal(t, u, id.UUID())
	assert.Equal(t, u.String(), id.String())

	local, err := models.ParseCampaignID("local-draft-" + u.String())
	require.NoError(t, err)
	assert.True(t, local.IsLocal())
	assert.Equal(t, u, local.UUID())
	assert.NotEqual(t, id, local)

	_, err = models.ParseCampaignID("not-a-uuid")
	require.Error(t, err)
}

func TestLocalCampaignIDIsDerivedFromOwner(t *testing.T) {
	owner := models.NewOwnerID()

	a := models.LocalCampaignID(owner)
	b := models.LocalCampaignID(owner)
	assert.Equal(t, a, b)
	assert.Equal(t, "local-draft-"+owner.String(), a.String())

	_, err := a.Value()
	require.Error(t, err)
	_, err = a.MarshalCBOR()
	require.Error(t, err)
}

func TestCampaignIDJSON(t *testing.T) {
	owner := models.NewOwnerID()
	for _, id := range []models.CampaignID{models.NewCampaignID(), models.LocalCampaignID(owner)} {
		data, err := json.Marshal(id)
		require.NoError(t, err)
		assert.Equal(t, `"`+id.String()+`"`, string(data))

		var decoded models.CampaignID
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, id, decoded)
	}
}

func TestCampaignIDCBORRecordID(t *testing.T) {
	id := models.NewCampaignID()

	data, err := cbor.Marshal(id)
	require.NoError(t, err)

	var tag cbor.Tag
	require.NoError(t, cbor.Unmarshal(data, &tag))
	assert.Equal(t, uint64(8), tag.Number)
	assert.Equal(t, []any{"campaigns", id.String()}, tag.Content)

	var decoded models.CampaignID
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)

	var owner models.OwnerID
	require.Error(t, cbor.Unmarshal(data, &owner), "campaign record id must not decode as an owner")
}

func TestOwnerIDScanAndValue(t *testing.T) {
	owner := models.NewOwnerID()

	v, err := owner.Value()
	require.NoError(t, err)
	assert.Equal(t, owner.String(), v)

	var scanned models.OwnerID
	require.NoError(t, scanned.Scan(owner.String()))
	assert.Equal(t, owner, scanned)

	require.NoError(t, scanned.Scan([]byte(owner.String())))
	assert.Equal(t, owner, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	require.Error(t, scanned.Scan(42))

	zero, err := models.OwnerID{}.Value()
	require.NoError(t, err)
	assert.Nil(t, zero)
}
