package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
)

type errorBody struct {
	Kind    domain.ErrorKind `json:"kind"`
	Message string           `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps the error taxonomy onto HTTP statuses. External and
// internal failures are surfaced as "try again later" with no detail;
// everything else carries enough message for the caller to correct and
// retry.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	var de *domain.Error
	msg := "unexpected error"
	if errors.As(err, &de) {
		msg = de.Msg
	}

	status := http.StatusInternalServerError
	switch kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindUnauthorized:
		status = http.StatusForbidden
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindStateConflict:
		status = http.StatusConflict
	case domain.KindInsufficientFunds:
		status = http.StatusUnprocessableEntity
	case domain.KindExternalDependency:
		status = http.StatusBadGateway
		msg = "upstream dependency unavailable, try again later"
		logger.ErrorContext(r.Context(), "external dependency failure", "path", r.URL.Path, "error", err)
	case domain.KindInternal:
		msg = "internal error, try again later"
		logger.ErrorContext(r.Context(), "internal error", "path", r.URL.Path, "error", err)
	}
	respondJSON(w, status, errorBody{Kind: kind, Message: msg})
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrValidation("malformed request body: %v", err)
	}
	return nil
}
