package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/DukeRupert/wrestaurant/internal/domain"
)

// writeError answers a request refused by middleware with the coded error's
// public message, as JSON when the client asked for it.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if isAPIRequest(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]map[string]string{
			"error": {
				"code":    domain.ErrorCode(err),
				"message": domain.ErrorMessage(err),
			},
		})
		return
	}
	http.Error(w, domain.ErrorMessage(err), status)
}
