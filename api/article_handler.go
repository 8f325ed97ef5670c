package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/smgmdev/pressdeck/models"
	"github.com/smgmdev/pressdeck/services"
)

type articleHandler struct {
	responder Responder
	logger    zerolog.Logger
	articles  *services.ArticleService
}

func newArticleHandler(articles *services.ArticleService, webhookURL string) articleHandler {
	logger := log.With().Str("handlerName", "articleHandler").Logger()

	return articleHandler{
		responder: NewResponder(logger, webhookURL),
		logger:    logger,
		articles:  articles,
	}
}

// ArticleCollection is the caller's articles
type ArticleCollection struct {
	Articles []*models.Article `json:"articles"`
	Total    int               `json:"total"`
}

// @Summary Create article
// @Tags Articles
// @Success 201 {object} models.Article
// @Router /articles [post]
func (h articleHandler) createArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ArticleInput
		if err := decodeJSON(w, r, maxBodyBytes, "article", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		article, err := h.articles.Create(r.Context(), ctxGetUserID(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, article)
	}
}

// @Router /articles [get]
func (h articleHandler) listArticles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articles, err := h.articles.List(r.Context(), ctxGetUserID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ArticleCollection{Articles: articles, Total: len(articles)})
	}
}

// @Router /articles/{articleID} [get]
func (h articleHandler) getArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		article, err := h.articles.Get(r.Context(), ctxGetUserID(r.Context()), chi.URLParam(r, "articleID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, article)
	}
}

// updateArticle edits a draft; published articles answer 409
// @Router /articles/{articleID} [put]
func (h articleHandler) updateArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ArticleInput
		if err := decodeJSON(w, r, maxBodyBytes, "article", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		article, err := h.articles.Update(r.Context(), ctxGetUserID(r.Context()), chi.URLParam(r, "articleID"), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, article)
	}
}

// @Router /articles/{articleID} [delete]
func (h articleHandler) deleteArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		articleID := chi.URLParam(r, "articleID")
		if err := h.articles.Delete(r.Context(), ctxGetUserID(r.Context()), articleID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("articleId", articleID).Msg("Article deleted")
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Router /articles/{articleID}/publishings [get]
func (h articleHandler) listPublishings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.articles.Publishings(r.Context(), ctxGetUserID(r.Context()), chi.URLParam(r, "articleID"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, records)
	}
}
