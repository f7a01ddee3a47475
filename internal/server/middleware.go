package server

import (
	"context"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const (
	ctxKeyPlayer ctxKey = iota
)

// validPlayerID matches generated uuids and seeded ids such as "demo". The
// id becomes part of a storage key.
var validPlayerID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// playerMiddleware validates the {playerID} path parameter and stores it in
// the request context.
func playerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "playerID")
		if !validPlayerID.MatchString(id) {
			writeError(w, http.StatusBadRequest, "invalid player id")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyPlayer, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playerID(r *http.Request) string {
	return r.Context().Value(ctxKeyPlayer).(string)
}
