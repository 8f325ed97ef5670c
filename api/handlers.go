package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smgmdev/pressdeck/database"
	"github.com/smgmdev/pressdeck/errs"
	"github.com/smgmdev/pressdeck/services"
)

const (
	maxBodyBytes    = 1 << 20  // 1MB
	maxPublishBytes = 20 << 20 // featured images arrive inline as data URLs
)

// Services bundles what the HTTP layer calls into
type Services struct {
	DB         database.Database
	Sites      *services.SiteService
	Auth       *services.AuthService
	Articles   *services.ArticleService
	Publisher  *services.PublishService
	Reconciler *services.ReconcileService
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc Services, webhookURL string) *routeHandlers {
	return &routeHandlers{
		healthHandler:    newHealthHandler(svc.DB, webhookURL),
		siteHandler:      newSiteHandler(svc.Sites, webhookURL),
		connectHandler:   newConnectHandler(svc.Auth, webhookURL),
		articleHandler:   newArticleHandler(svc.Articles, webhookURL),
		publishHandler:   newPublishHandler(svc.Publisher, webhookURL),
		reconcileHandler: newReconcileHandler(svc.Reconciler, webhookURL),
	}
}

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, payloadName string, dst any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewApiErr(http.StatusRequestEntityTooLarge, payloadName+" too large")
		}
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	return nil
}
