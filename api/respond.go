package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/smgmdev/pressdeck/errs"
)

type Responder struct {
	logger     zerolog.Logger
	webhookURL string
}

func NewResponder(logger zerolog.Logger, webhookURL string) Responder {
	return Responder{logger: logger, webhookURL: webhookURL}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// Marshal the data first to check size and handle errors
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large")

		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Response too large","status":"error"}`))
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// SendErrorNotification posts an unexpected error to the configured webhook
func (r Responder) SendErrorNotification(errMsg string) {
	if r.webhookURL == "" {
		return
	}

	jsonData, err := json.Marshal(map[string]string{
		"errorMessage": errMsg,
		"service":      "pressdeck",
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("Error marshaling error notification request")
		return
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(r.webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		r.logger.Error().Err(err).Msg("Error sending error notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Error().Msgf("Error notification webhook returned status: %d", resp.StatusCode)
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		go r.SendErrorNotification(err.Error())
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	response := ErrorResponse{
		Error:        apiErr.Message(),
		Status:       "error",
		Code:         apiErr.Code,
		Hint:         apiErr.Hint,
		RemoteStatus: apiErr.RemoteStatus,
		Field:        apiErr.Field,
		Details:      apiErr.Details,
	}
	if apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("code", apiErr.Code).Msg(apiErr.GetFullError())
		if apiErr.StatusCode == http.StatusInternalServerError {
			go r.SendErrorNotification(apiErr.GetFullError())
		}
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}
