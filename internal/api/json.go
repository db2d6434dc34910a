package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/visperhq/visper/internal/apperr"
	"github.com/visperhq/visper/internal/scraper"
	"github.com/visperhq/visper/internal/venice"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps domain errors to HTTP statuses. Unknown errors are
// logged and returned as an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	var oerrs validation.Errors
	var fetchErr *scraper.FetchError
	var apiErr *venice.APIError

	switch {
	case errors.As(err, &verr) || errors.As(err, &oerrs):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
	case errors.Is(err, apperr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.As(err, &fetchErr):
		writeJSON(w, http.StatusBadGateway, errorBody(fetchErr.Error()))
	case errors.As(err, &apiErr):
		writeJSON(w, http.StatusBadGateway, errorBody(apiErr.Message))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
