// pkg/middleware/validation.go

package middleware

import (
	"net/http"
	"strings"

	"gymaccess/internal/api"
)

const maxBodySize = 1 << 20 // 1 MB

// ValidateRequest rejects POST/PUT requests that are not JSON or have no body.
func ValidateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			contentType := r.Header.Get("Content-Type")
			if contentType != "" && !strings.Contains(contentType, "application/json") {
				api.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{Message: "invalid Content-Type, expected application/json"})
				return
			}

			if r.ContentLength == 0 {
				api.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{Message: "request body cannot be empty"})
				return
			}
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		next.ServeHTTP(w, r)
	})
}
