package campaignsync

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Router builds the HTTP routes.
//
//	GET    /api/health                                   service health
//	GET    /api/owners/{owner}/campaigns                 reconciled list (?status=&limit=&offset=)
//	GET    /api/owners/{owner}/draft                     the owner's local draft
//	PUT    /api/owners/{owner}/draft                     save the draft (local and durable)
//	DELETE /api/owners/{owner}/draft                     discard the local draft
//	POST   /api/owners/{owner}/campaigns/{id}/publish    publish a campaign
//	POST   /api/owners/{owner}/campaigns/{id}/pause      stop accepting contributions
//	POST   /api/owners/{owner}/campaigns/{id}/resume     accept contributions again
//	DELETE /api/owners/{owner}/campaigns/{id}            delete a campaign
//	GET    /metrics                                      Prometheus metrics
func (a *App) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(a.metrics.Middleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)

	owner := api.PathPrefix("/owners/{owner}").Subrouter()
	owner.HandleFunc("/campaigns", a.handleListCampaigns).Methods(http.MethodGet)
	owner.HandleFunc("/draft", a.handleGetDraft).Methods(http.MethodGet)
	owner.HandleFunc("/draft", a.handleSaveDraft).Methods(http.MethodPut)
	owner.HandleFunc("/draft", a.handleDiscardDraft).Methods(http.MethodDelete)
	owner.HandleFunc("/campaigns/{id}/publish", a.handlePublish).Methods(http.MethodPost)
	owner.HandleFunc("/campaigns/{id}/pause", a.handlePause).Methods(http.MethodPost)
	owner.HandleFunc("/campaigns/{id}/resume", a.handleResume).Methods(http.MethodPost)
	owner.HandleFunc("/campaigns/{id}", a.handleDeleteCampaign).Methods(http.MethodDelete)

	// Health check route (outside of /api prefix)
	router.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	return router
}

// Run serves the API until ctx is cancelled, then shuts the server down,
// giving in-flight requests up to the configured shutdown timeout.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	server := &http.Server{
		Addr:              net.JoinHostPort("", a.config.Server.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.log.Info().
		Str("addr", server.Addr).
		Str("backend", a.config.Backend).
		Str("drafts", a.config.Drafts).
		Msg("starting campaignsync server")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.config.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
