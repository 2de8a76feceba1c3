package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/suleigolden/sulber-core/internal/entity"
	"github.com/suleigolden/sulber-core/internal/jobapi"
)

type apiError struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, apiError{Message: msg})
}

// writeServiceErr maps domain and collaborator errors onto status codes.
func writeServiceErr(w http.ResponseWriter, err error) {
	var transition *entity.InvalidTransitionError
	switch {
	case errors.As(err, &transition):
		writeErr(w, http.StatusConflict, transition.Error())
	case errors.Is(err, jobapi.ErrConflict):
		writeErr(w, http.StatusConflict, "job was updated by someone else")
	case errors.Is(err, jobapi.ErrNotFound):
		writeErr(w, http.StatusNotFound, "job not found")
	case errors.Is(err, jobapi.ErrUnauthorized):
		writeErr(w, http.StatusUnauthorized, "unauthorized")
	default:
		writeErr(w, http.StatusBadGateway, "job backend unavailable")
	}
}
