package campaign

import (
	"strconv"
	"strings"

	"github.com/orangecat/campaignsync/pkg/models"
)

// Classify derives the lifecycle of a record from its two flags.
//
//	is_active is_public
//	false     false     draft
//	true      true      active
//	false     true      paused
//	true      false     unknown
func Classify(c *models.Campaign) models.Lifecycle {
	switch {
	case !c.IsActive && !c.IsPublic:
		return models.LifecycleDraft
	case c.IsActive && c.IsPublic:
		return models.LifecycleActive
	case !c.IsActive && c.IsPublic:
		return models.LifecyclePaused
	default:
		return models.LifecycleUnknown
	}
}

// classifyView is Classify for list entries. The synthetic entry of an
// unlinked draft is always a draft.
func classifyView(v *models.CampaignView) models.Lifecycle {
	if v.ID.IsLocal() {
		return models.LifecycleDraft
	}
	return Classify(&v.Campaign)
}

// Status selects list entries by lifecycle. The zero value and StatusAll
// select everything, including entries with an unknown lifecycle.
type Status string

const (
	StatusAll    Status = "all"
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusPaused Status = "paused"
)

// FilterOptions selects a page of a campaign list.
type FilterOptions struct {
	Status Status
	// Limit caps the result size; zero means no limit.
	Limit  int
	Offset int
}

// ParseFilterOptions reads status, limit and offset as they arrive in a
// query string. Empty values take their defaults.
func ParseFilterOptions(status, limit, offset string) (FilterOptions, error) {
	var opts FilterOptions

	switch s := Status(strings.ToLower(strings.TrimSpace(status))); s {
	case "", StatusAll, StatusDraft, StatusActive, StatusPaused:
		opts.Status = s
	default:
		return opts, invalidInput("unknown status %q", status)
	}

	var err error
	if opts.Limit, err = parseNonNegative("limit", limit); err != nil {
		return opts, err
	}
	if opts.Offset, err = parseNonNegative("offset", offset); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseNonNegative(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, invalidInput("%s must be a non-negative integer, got %q", name, raw)
	}
	return n, nil
}

// FilterCampaigns keeps the entries matching opts.Status, in their original
// order, then applies Offset and Limit. It never fails: negative bounds are
// treated as zero and an offset past the end yields an empty list.
func FilterCampaigns(list []models.CampaignView, opts FilterOptions) []models.CampaignView {
	filtered := make([]models.CampaignView, 0, len(list))
	for i := range list {
		if matchesStatus(&list[i], opts.Status) {
			filtered = append(filtered, list[i])
		}
	}

	offset := max(opts.Offset, 0)
	if offset >= len(filtered) {
		return []models.CampaignView{}
	}
	filtered = filtered[offset:]

	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}
	return filtered
}

func matchesStatus(v *models.CampaignView, status Status) bool {
	switch status {
	case "", StatusAll:
		return true
	case StatusDraft, StatusActive, StatusPaused:
		return classifyView(v) == models.Lifecycle(status)
	default:
		return false
	}
}
