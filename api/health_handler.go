package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/errs"
)

type healthHandler struct {
	responder Responder
	db        database.Database
}

func newHealthHandler(db database.Database, webhookURL string) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{responder: NewResponder(logger, webhookURL), db: db}
}

// @Router /health [get]
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusServiceUnavailable, "database unavailable"))
			return
		}
		h.responder.WriteJSON(w, map[string]string{"status": "ok"})
	}
}
