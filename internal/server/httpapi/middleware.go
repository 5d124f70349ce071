package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/logit-team/logit/internal/server/auth"
)

// contextKey is unexported so only this package can read or write the
// owner id stored in a request context.
type contextKey string

const ownerIDKey contextKey = "ownerID"

// authMiddleware validates the bearer token and stores the resolved owner id
// in the request context. Requests without a valid token get 401.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		ownerID, err := auth.GetUserIDFromToken(token, s.secretKey)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ownerIDKey).(string)
	return id
}
