package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/services"
)

type connectHandler struct {
	responder Responder
	auth      *services.AuthService
}

func newConnectHandler(auth *services.AuthService, webhookURL string) connectHandler {
	logger := log.With().Str("handlerName", "connectHandler").Logger()
	return connectHandler{responder: NewResponder(logger, webhookURL), auth: auth}
}

type authenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authenticate connects the caller's WordPress account to a verified site
// @Summary Authenticate to site
// @Tags Connections
// @Success 200 {object} services.AuthenticateResult
// @Failure 401 {object} ErrorResponse
// @Failure 412 {object} ErrorResponse "Site not verified"
// @Router /sites/{siteID}/authenticate [post]
func (h connectHandler) authenticate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authenticateRequest
		if err := decodeJSON(w, r, maxBodyBytes, "authentication request", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.auth.AuthenticateUserToSite(r.Context(), ctxGetUserID(r.Context()), chi.URLParam(r, "siteID"), req.Username, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// @Router /sites/{siteID}/authenticate [delete]
func (h connectHandler) disconnect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.auth.DisconnectUserFromSite(r.Context(), ctxGetUserID(r.Context()), chi.URLParam(r, "siteID")); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Router /profiles [get]
func (h connectHandler) listProfiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profiles, err := h.auth.ListProfiles(r.Context(), ctxGetUserID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, profiles)
	}
}
