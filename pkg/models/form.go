package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Number is a loosely typed numeric form field. It accepts a JSON number or a
// string and keeps the raw text; Float64 reports it as absent unless the text
// parses to a finite number.
type Number struct {
	raw string
	set bool
}

// NumberOf returns a Number holding f.
func NumberOf(f float64) Number {
	return Number{raw: strconv.FormatFloat(f, 'f', -1, 64), set: true}
}

// NumberFromString returns a Number holding the raw text s.
func NumberFromString(s string) Number {
	return Number{raw: s, set: true}
}

// IsSet reports whether the field was supplied at all, parseable or not.
func (n Number) IsSet() bool { return n.set }

// Float64 returns the value when it is a finite number.
func (n Number) Float64() (float64, bool) {
	if !n.set {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(n.raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Ptr returns the value as a nullable float.
func (n Number) Ptr() *float64 {
	f, ok := n.Float64()
	if !ok {
		return nil
	}
	return &f
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	if f, ok := n.Float64(); ok {
		return json.Marshal(f)
	}
	return json.Marshal(n.raw)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = Number{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberFromString(s)
	default:
		// Anything else (numbers, booleans, objects) is kept verbatim and
		// only counts if it parses as a number.
		*n = NumberFromString(string(data))
	}
	return nil
}

func (n Number) MarshalCBOR() ([]byte, error) {
	if !n.set {
		return cbor.Marshal(nil)
	}
	return cbor.Marshal(n.raw)
}

func (n *Number) UnmarshalCBOR(data []byte) error {
	var v any
	if err := cbor.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number{}
	switch t := v.(type) {
	case nil:
	case string:
		*n = NumberFromString(t)
	case float64:
		*n = NumberOf(t)
	case uint64:
		*n = NumberOf(float64(t))
	case int64:
		*n = NumberOf(float64(t))
	default:
		*n = NumberFromString(fmt.Sprint(t))
	}
	return nil
}

// FormData is what the campaign editor submits. Every field is optional;
// partially filled forms are normal while the owner works through the steps.
type FormData struct {
	Title               *string  `json:"title,omitempty"`
	Description         *string  `json:"description,omitempty"`
	PaymentDestinations []string `json:"payment_destinations,omitempty"`
	GoalAmount          Number   `json:"goal_amount"`
	Categories          []string `json:"categories,omitempty"`
}

// WorkingTitle returns the trimmed title, or "" when none was entered.
func (f FormData) WorkingTitle() string {
	if f.Title == nil {
		return ""
	}
	return strings.TrimSpace(*f.Title)
}

// Payload maps the form onto a durable payload. The mapping is total:
// a missing title becomes PlaceholderTitle, missing text becomes "",
// missing lists become empty and a missing or non-numeric goal becomes nil.
func (f FormData) Payload() CampaignPayload {
	title := f.WorkingTitle()
	if title == "" {
		title = PlaceholderTitle
	}
	description := ""
	if f.Description != nil {
		description = strings.TrimSpace(*f.Description)
	}
	return CampaignPayload{
		Title:               title,
		Description:         description,
		PaymentDestinations: nonNil(f.PaymentDestinations),
		GoalAmount:          f.GoalAmount.Ptr(),
		Categories:          nonNil(f.Categories),
	}
}

// LocalDraft is the single in-progress edit cached for an owner.
type LocalDraft struct {
	OwnerID        OwnerID     `json:"owner_id"`
	Title          string      `json:"title"`
	FormData       FormData    `json:"form_data"`
	CurrentStep    int         `json:"current_step"`
	LinkedRemoteID *CampaignID `json:"linked_remote_id,omitempty"`
	SavedAt        time.Time   `json:"saved_at"`
}

// IsEmpty reports whether the draft has no working title. Such a draft is
// treated as if it did not exist.
func (d *LocalDraft) IsEmpty() bool {
	return d == nil || strings.TrimSpace(d.Title) == ""
}

// IsLinkedTo reports whether the draft claims the durable record id.
func (d *LocalDraft) IsLinkedTo(id CampaignID) bool {
	return d != nil && d.LinkedRemoteID != nil && *d.LinkedRemoteID == id
}
