// Package campaign implements campaign/draft reconciliation.
//
// An owner edits a campaign through a multi-step form. Work in progress is
// held in two places: a single local draft slot per owner ([DraftCache]) and
// the durable campaign table ([github.com/orangecat/campaignsync/pkg/store.CampaignStore]).
// [Service] is the only component that reads both and the only one that
// writes either.
//
// # Reading
//
// [Service.GetAllCampaigns] lists the durable records and merges the local
// draft in with local-wins precedence (see [Reconcile]). [Classify] derives
// each entry's lifecycle from its two flags and [FilterCampaigns] selects a
// page of the result by lifecycle.
//
// # Writing
//
// [Service.SaveDraft] writes the local slot first, then the durable store.
// [Service.PublishCampaign] flips a record to active and public and clears
// the slot once the durable write has succeeded. Nothing is retried
// automatically.
//
// # Errors
//
// Failures are reported with [ErrInvalidInput], [ErrRemoteUnavailable],
// [ErrRemoteWriteFailed] (via [RemoteWriteError]) and
// [ErrNotFoundOrForbidden]; test them with errors.Is. Local store failures
// are logged and never returned.
package campaign
