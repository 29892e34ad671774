package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PlaceholderTitle is stored when a campaign is written without a title.
// The durable schema treats title as required, so it is never empty.
const PlaceholderTitle = "Untitled Campaign"

// Lifecycle is the presentation state derived from a campaign's two flags.
type Lifecycle string

const (
	LifecycleDraft   Lifecycle = "draft"
	LifecycleActive  Lifecycle = "active"
	LifecyclePaused  Lifecycle = "paused"
	LifecycleUnknown Lifecycle = "unknown"
)

// Source tells where the fields of a campaign view came from.
type Source string

const (
	SourceLocal    Source = "local"
	SourceDatabase Source = "database"
)

// Campaign is the durable record of a funding campaign.
//
// ID, OwnerID, CreatedAt and the funding totals are owned by the durable
// store. Everything else can be overridden by the owner's local draft when
// campaigns are listed.
type Campaign struct {
	ID                  CampaignID     `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID             OwnerID        `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title               string         `gorm:"not null" json:"title"`
	Description         string         `gorm:"type:text;not null;default:''" json:"description"`
	PaymentDestinations pq.StringArray `gorm:"type:text[]" json:"payment_destinations"`
	GoalAmount          *float64       `json:"goal_amount"`
	Categories          pq.StringArray `gorm:"type:text[]" json:"categories"`
	RaisedAmount        float64        `gorm:"not null;default:0" json:"raised_amount"`
	ContributorCount    int            `gorm:"not null;default:0" json:"contributor_count"`
	IsActive            bool           `gorm:"not null;default:false" json:"is_active"`
	IsPublic            bool           `gorm:"not null;default:false" json:"is_public"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`
}

func (Campaign) TableName() string { return CampaignsTable }

// BeforeCreate hook to generate ID if not set
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID.IsZero() {
		c.ID = NewCampaignID()
	}
	return nil
}

// Normalize replaces nil slices with empty ones so every campaign renders
// its list fields as arrays.
func (c *Campaign) Normalize() {
	if c.PaymentDestinations == nil {
		c.PaymentDestinations = pq.StringArray{}
	}
	if c.Categories == nil {
		c.Categories = pq.StringArray{}
	}
}

// CampaignFlags are the two independent booleans a lifecycle is derived from.
type CampaignFlags struct {
	IsActive bool `json:"is_active"`
	IsPublic bool `json:"is_public"`
}

var (
	FlagsDraft  = CampaignFlags{IsActive: false, IsPublic: false}
	FlagsActive = CampaignFlags{IsActive: true, IsPublic: true}
	FlagsPaused = CampaignFlags{IsActive: false, IsPublic: true}
)

// CampaignPayload is the complete set of mutable fields written to a durable
// store. Every content field is always present; Flags is nil when a write
// must leave the stored flags untouched.
type CampaignPayload struct {
	Title               string
	Description         string
	PaymentDestinations []string
	GoalAmount          *float64
	Categories          []string
	Flags               *CampaignFlags
}

// Fields returns the payload keyed by column name.
func (p CampaignPayload) Fields() map[string]any {
	fields := map[string]any{
		"title":                p.Title,
		"description":          p.Description,
		"payment_destinations": pq.StringArray(nonNil(p.PaymentDestinations)),
		"goal_amount":          p.GoalAmount,
		"categories":           pq.StringArray(nonNil(p.Categories)),
	}
	if p.Flags != nil {
		fields["is_active"] = p.Flags.IsActive
		fields["is_public"] = p.Flags.IsPublic
	}
	return fields
}

// NewCampaign builds a record ready for insertion. A payload without flags
// produces a draft.
func (p CampaignPayload) NewCampaign(owner OwnerID, now time.Time) *Campaign {
	flags := FlagsDraft
	if p.Flags != nil {
		flags = *p.Flags
	}
	return &Campaign{
		ID:                  NewCampaignID(),
		OwnerID:             owner,
		Title:               p.Title,
		Description:         p.Description,
		PaymentDestinations: pq.StringArray(nonNil(p.PaymentDestinations)),
		GoalAmount:          p.GoalAmount,
		Categories:          pq.StringArray(nonNil(p.Categories)),
		IsActive:            flags.IsActive,
		IsPublic:            flags.IsPublic,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Apply overwrites the mutable fields of c with the payload.
func (c *Campaign) Apply(p CampaignPayload, now time.Time) {
	c.Title = p.Title
	c.Description = p.Description
	c.PaymentDestinations = pq.StringArray(nonNil(p.PaymentDestinations))
	c.GoalAmount = p.GoalAmount
	c.Categories = pq.StringArray(nonNil(p.Categories))
	if p.Flags != nil {
		c.ApplyFlags(*p.Flags, now)
	}
	c.UpdatedAt = now
}

// ApplyFlags sets both lifecycle flags.
func (c *Campaign) ApplyFlags(f CampaignFlags, now time.Time) {
	c.IsActive = f.IsActive
	c.IsPublic = f.IsPublic
	c.UpdatedAt = now
}

// CampaignView is one entry of the merged campaign list shown to an owner.
type CampaignView struct {
	Campaign
	Source    Source    `json:"source"`
	IsDraft   bool      `json:"is_draft"`
	Lifecycle Lifecycle `json:"lifecycle"`
	// Progress is RaisedAmount / GoalAmount, absent when there is no goal.
	Progress *float64 `json:"progress,omitempty"`
}

func nonNil(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
