package api

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/services"
)

type reconcileHandler struct {
	responder  Responder
	reconciler *services.ReconcileService
}

func newReconcileHandler(reconciler *services.ReconcileService, webhookURL string) reconcileHandler {
	logger := log.With().Str("handlerName", "reconcileHandler").Logger()
	return reconcileHandler{responder: NewResponder(logger, webhookURL), reconciler: reconciler}
}

// reconcile removes published articles whose WordPress post no longer exists
// @Router /reconcile [post]
func (h reconcileHandler) reconcile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.reconciler.ReconcilePublishedArticles(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}
