package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"butterfly-quiz-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidConfiguration),
		errors.Is(err, domain.ErrUnknownDifficulty),
		errors.Is(err, domain.ErrInvalidItem):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, domain.ErrNotEnoughItems):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRoundNotResolved),
		errors.Is(err, domain.ErrRoundInProgress),
		errors.Is(err, domain.ErrLoadInProgress),
		errors.Is(err, domain.ErrSessionFinished),
		errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
