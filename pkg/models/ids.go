package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

const (
	// CampaignsTable is the table name campaign records live in, for both
	// SQL backends and SurrealDB record ids.
	CampaignsTable = "campaigns"

	// OwnersTable is the record id table used for owner references.
	OwnersTable = "owners"

	localDraftPrefix = "local-draft-"

	// surrealRecordIDTag is the CBOR tag SurrealDB uses for record ids.
	surrealRecordIDTag = 8
)

// OwnerID is a typed ID for the account owning campaigns
type OwnerID struct {
	uuid uuid.UUID
}

func NewOwnerID() OwnerID {
	return OwnerID{uuid: uuid.New()}
}

func NewOwnerIDFromUUID(id uuid.UUID) OwnerID {
	return OwnerID{uuid: id}
}

func ParseOwnerID(s string) (OwnerID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return OwnerID{}, fmt.Errorf("invalid owner ID: %w", err)
	}
	return OwnerID{uuid: id}, nil
}

func (o OwnerID) UUID() uuid.UUID { return o.uuid }
func (o OwnerID) String() string  { return o.uuid.String() }
func (o OwnerID) IsZero() bool    { return o.uuid == uuid.Nil }

func (o OwnerID) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.uuid.String())
}

func (o *OwnerID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	o.uuid = id
	return nil
}

func (o OwnerID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  surrealRecordIDTag,
		Content: []any{OwnersTable, o.uuid.String()},
	})
}

func (o *OwnerID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, OwnersTable, &o.uuid)
}

func (o OwnerID) Value() (driver.Value, error) {
	if o.IsZero() {
		return nil, nil
	}
	return o.uuid.String(), nil
}

func (o *OwnerID) Scan(value any) error {
	return scanUUID(value, &o.uuid)
}

func (OwnerID) GormDataType() string { return "uuid" }

// CampaignID identifies a campaign. Durable records carry a UUID assigned on
// first insert. A local ID marks the synthetic view entry built from an
// unlinked draft; it is derived from the owner and never written to a
// durable store.
type CampaignID struct {
	uuid  uuid.UUID
	local bool
}

func NewCampaignID() CampaignID {
	return CampaignID{uuid: uuid.New()}
}

func NewCampaignIDFromUUID(id uuid.UUID) CampaignID {
	return CampaignID{uuid: id}
}

// LocalCampaignID returns the synthetic ID for the owner's unlinked draft.
func LocalCampaignID(owner OwnerID) CampaignID {
	return CampaignID{uuid: owner.uuid, local: true}
}

// ParseCampaignID accepts both durable UUIDs and synthetic local IDs.
func ParseCampaignID(s string) (CampaignID, error) {
	s = strings.TrimSpace(s)
	local := strings.HasPrefix(s, localDraftPrefix)
	id, err := uuid.Parse(strings.TrimPrefix(s, localDraftPrefix))
	if err != nil {
		return CampaignID{}, fmt.Errorf("invalid campaign ID: %w", err)
	}
	return CampaignID{uuid: id, local: local}, nil
}

func (c CampaignID) UUID() uuid.UUID { return c.uuid }
func (c CampaignID) IsZero() bool    { return c.uuid == uuid.Nil }
func (c CampaignID) IsLocal() bool   { return c.local }

func (c CampaignID) String() string {
	if c.local {
		return localDraftPrefix + c.uuid.String()
	}
	return c.uuid.String()
}

func (c CampaignID) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *CampaignID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := ParseCampaignID(s)
	if err != nil {
		return err
	}
	*c = id
	return nil
}

func (c CampaignID) MarshalCBOR() ([]byte, error) {
	if c.local {
		return nil, fmt.Errorf("local campaign ID %s has no record ID", c)
	}
	return cbor.Marshal(cbor.Tag{
		Number:  surrealRecordIDTag,
		Content: []any{CampaignsTable, c.uuid.String()},
	})
}

func (c *CampaignID) UnmarshalCBOR(data []byte) error {
	c.local = false
	return unmarshalCBORID(data, CampaignsTable, &c.uuid)
}

func (c CampaignID) Value() (driver.Value, error) {
	if c.local {
		return nil, fmt.Errorf("local campaign ID %s cannot be stored", c)
	}
	if c.IsZero() {
		return nil, nil
	}
	return c.uuid.String(), nil
}

func (c *CampaignID) Scan(value any) error {
	c.local = false
	return scanUUID(value, &c.uuid)
}

func (CampaignID) GormDataType() string { return "uuid" }

func scanUUID(value any, target *uuid.UUID) error {
	if value == nil {
		*target = uuid.Nil
		return nil
	}

	switch v := value.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return err
		}
		*target = id
	case []byte:
		id, err := uuid.ParseBytes(v)
		if err != nil {
			return err
		}
		*target = id
	default:
		return fmt.Errorf("cannot scan type %T into UUID", value)
	}
	return nil
}

// unmarshalCBORID decodes a SurrealDB record id, encoded as tag 8 around a
// [table, id] pair, into target.
func unmarshalCBORID(data []byte, expectedTable string, target *uuid.UUID) error {
	if len(data) == 0 {
		return fmt.Errorf("empty CBOR data")
	}

	var tag cbor.Tag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("failed to unmarshal CBOR tag: %w", err)
	}
	if tag.Number != surrealRecordIDTag {
		return fmt.Errorf("expected RecordID tag (%d), got %d", surrealRecordIDTag, tag.Number)
	}

	arr, ok := tag.Content.([]any)
	if !ok || len(arr) != 2 {
		return fmt.Errorf("invalid RecordID format: expected [table, id] array")
	}

	table, ok := arr[0].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: table name must be string")
	}
	if table != expectedTable {
		return fmt.Errorf("expected table %s, got %s", expectedTable, table)
	}

	idStr, ok := arr[1].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: ID must be string")
	}

	parsed, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid UUID in RecordID: %w", err)
	}
	*target = parsed
	return nil
}
