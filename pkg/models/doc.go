// Package models defines the data types shared by the campaign service and
// its storage backends.
//
// # Durable and Local Data
//
// A [Campaign] is the durable record kept in the remote store. It is owned by
// exactly one [OwnerID] and identified by a [CampaignID] assigned on first
// insert. Two independent flags, IsActive and IsPublic, determine its
// [Lifecycle].
//
// A [LocalDraft] is the owner's single in-progress edit. It holds the raw
// [FormData] the editor submitted, the editor step and, once the draft has
// been written remotely at least once, the id of the record it belongs to.
//
// # Typed IDs
//
// [OwnerID] and [CampaignID] wrap UUIDs and marshal to the shape each backend
// expects:
//   - JSON: plain strings
//   - CBOR: SurrealDB record ids (tag 8 around [table, id])
//   - SQL: uuid columns through driver.Valuer and sql.Scanner
//
// A CampaignID may also be local, see [LocalCampaignID]. Local ids exist only
// in merged views and refuse to marshal to CBOR or SQL.
//
// # Form Mapping
//
// [FormData.Payload] is the single place where loosely filled forms become a
// complete [CampaignPayload]:
//
//	title := "Bike Fund"
//	payload := models.FormData{Title: &title}.Payload()
//	// payload.Description == ""
//	// payload.PaymentDestinations == []string{}
//	// payload.GoalAmount == nil
package models
