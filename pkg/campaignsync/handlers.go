package campaignsync

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/orangecat/campaignsync/pkg/campaign"
	"github.com/orangecat/campaignsync/pkg/models"
	"github.com/orangecat/campaignsync/pkg/store"
)

// maxBodyBytes bounds request bodies. A draft form is a few kilobytes.
const maxBodyBytes = 1 << 20

// saveDraftRequest is the body of PUT /api/owners/{owner}/draft.
type saveDraftRequest struct {
	FormData       *models.FormData   `json:"form_data"`
	CurrentStep    int                `json:"current_step"`
	LinkedRemoteID *models.CampaignID `json:"linked_remote_id,omitempty"`
}

type saveDraftResponse struct {
	ID models.CampaignID `json:"id"`
}

// publishRequest is the body of POST /api/owners/{owner}/campaigns/{id}/publish.
type publishRequest struct {
	FormData *models.FormData `json:"form_data"`
}

// handleHealth reports that the server is up, along with the configured
// backends and whether durable writes are currently rejected.
//
//	GET /health, /api/health
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":    "healthy",
		"backend":   a.config.Backend,
		"drafts":    a.config.Drafts,
		"read_only": a.IsReadOnly(),
		"time":      time.Now().Unix(),
	}
	respondJSON(w, http.StatusOK, response)
}

// handleListCampaigns returns the owner's reconciled campaign list, filtered
// by the status, limit and offset query parameters.
func (a *App) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerVar(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	opts, err := campaign.ParseFilterOptions(q.Get("status"), q.Get("limit"), q.Get("offset"))
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}

	views, err := a.service.GetAllCampaigns(r.Context(), owner)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, campaign.FilterCampaigns(views, opts))
}

func (a *App) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerVar(w, r)
	if !ok {
		return
	}
	draft, err := a.service.GetDraft(r.Context(), owner)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	if draft == nil {
		respondError(w, http.StatusNotFound, "no draft")
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// handleSaveDraft stores the form locally and durably. The response carries
// the durable id, which the client sends back as linked_remote_id on the
// next save so the same record is updated.
//
//	PUT /api/owners/{owner}/draft
//	{"form_data": {"title": "Bike Fund", "goal_amount": "500"}, "current_step": 2}
func (a *App) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerVar(w, r)
	if !ok {
		return
	}
	var req saveDraftRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := a.service.SaveDraft(r.Context(), owner, req.FormData, req.CurrentStep, req.LinkedRemoteID)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, saveDraftResponse{ID: id})
}

func (a *App) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerVar(w, r)
	if !ok {
		return
	}
	if err := a.service.DiscardDraft(r.Context(), owner); err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) handlePublish(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := campaignVars(w, r)
	if !ok {
		return
	}
	var req publishRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := a.service.PublishCampaign(r.Context(), owner, id, req.FormData)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (a *App) handlePause(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := campaignVars(w, r)
	if !ok {
		return
	}
	c, err := a.service.PauseCampaign(r.Context(), owner, id)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (a *App) handleResume(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := campaignVars(w, r)
	if !ok {
		return
	}
	c, err := a.service.ResumeCampaign(r.Context(), owner, id)
	if err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (a *App) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := campaignVars(w, r)
	if !ok {
		return
	}
	if err := a.service.DeleteCampaign(r.Context(), owner, id); err != nil {
		a.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ownerVar(w http.ResponseWriter, r *http.Request) (models.OwnerID, bool) {
	owner, err := models.ParseOwnerID(mux.Vars(r)["owner"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid owner ID")
		return models.OwnerID{}, false
	}
	return owner, true
}

func campaignVars(w http.ResponseWriter, r *http.Request) (models.OwnerID, models.CampaignID, bool) {
	owner, ok := ownerVar(w, r)
	if !ok {
		return models.OwnerID{}, models.CampaignID{}, false
	}
	id, err := models.ParseCampaignID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid campaign ID")
		return models.OwnerID{}, models.CampaignID{}, false
	}
	return owner, id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

// respondServiceError maps service errors onto status codes. Anything it
// does not recognise is a 500 and is logged.
func (a *App) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, campaign.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, campaign.ErrNotFoundOrForbidden):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrReadOnly):
		status = http.StatusServiceUnavailable
	case errors.Is(err, campaign.ErrRemoteUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, campaign.ErrRemoteWriteFailed):
		status = http.StatusBadGateway
	}

	event := a.log.Warn()
	if status == http.StatusInternalServerError {
		event = a.log.Error()
	}
	event.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("request failed")

	respondError(w, status, err.Error())
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondError writes {"error": message}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
