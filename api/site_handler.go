package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/services"
)

type siteHandler struct {
	responder Responder
	logger    zerolog.Logger
	sites     *services.SiteService
}

func newSiteHandler(sites *services.SiteService, webhookURL string) siteHandler {
	logger := log.With().Str("handlerName", "siteHandler").Logger()

	return siteHandler{
		responder: NewResponder(logger, webhookURL),
		logger:    logger,
		sites:     sites,
	}
}

type verifySiteRequest struct {
	AdminUsername string `json:"adminUsername"`
	AdminPassword string `json:"adminPassword"`
}

// createSite registers a WordPress site. The site starts disconnected.
// @Summary Create site
// @Tags Sites
// @Success 201 {object} models.Site
// @Failure 400 {object} ErrorResponse
// @Router /sites [post]
func (h siteHandler) createSite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CreateSiteInput
		if err := decodeJSON(w, r, maxBodyBytes, "site", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		site, err := h.sites.CreateSite(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("siteId", site.ID).Msg("Site created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, site)
	}
}

// @Router /sites [get]
func (h siteHandler) listSites() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sites, err := h.sites.ListSites(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sites)
	}
}

// @Router /sites/{siteID} [get]
func (h siteHandler) getSite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site, err := h.sites.GetSite(r.Context(), chi.URLParam(r, "siteID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site)
	}
}

// verifySite checks admin credentials against the site's REST API
// @Summary Verify site
// @Tags Sites
// @Success 200 {object} services.VerifySiteResult
// @Failure 401 {object} ErrorResponse "Authentication failed or invalid credentials"
// @Failure 503 {object} ErrorResponse "WordPress unreachable"
// @Router /sites/{siteID}/verify [post]
func (h siteHandler) verifySite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifySiteRequest
		if err := decodeJSON(w, r, maxBodyBytes, "verification request", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.sites.VerifySite(r.Context(), chi.URLParam(r, "siteID"), req.AdminUsername, req.AdminPassword)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}

// @Router /sites/{siteID}/admin-credentials [put]
func (h siteHandler) updateAdminCredentials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd services.AdminCredentialsUpdate
		if err := decodeJSON(w, r, maxBodyBytes, "admin credentials", &upd); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		site, err := h.sites.UpdateAdminCredentials(r.Context(), chi.URLParam(r, "siteID"), upd)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, site)
	}
}
