package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/services"
)

type publishHandler struct {
	responder Responder
	publisher *services.PublishService
}

func newPublishHandler(publisher *services.PublishService, webhookURL string) publishHandler {
	logger := log.With().Str("handlerName", "publishHandler").Logger()
	return publishHandler{responder: NewResponder(logger, webhookURL), publisher: publisher}
}

// publishArticle pushes an article to WordPress as the caller
// @Summary Publish article
// @Tags Publishing
// @Success 200 {object} services.PublishResult
// @Failure 403 {object} ErrorResponse "Not authenticated to the site"
// @Failure 409 {object} ErrorResponse "Publish already in progress"
// @Failure 502 {object} ErrorResponse "WordPress rejected the post"
// @Router /articles/{articleID}/publish [post]
func (h publishHandler) publishArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.PublishInput
		if err := decodeJSON(w, r, maxPublishBytes, "publish request", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		in.ArticleID = chi.URLParam(r, "articleID")
		in.UserID = ctxGetUserID(r.Context())

		result, err := h.publisher.PublishArticle(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}
