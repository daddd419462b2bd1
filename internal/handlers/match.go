// internal/handlers/match.go
package handlers

import (
	"net/http"

	"github.com/frienderapp/friender/internal/middleware"
)

// PotentialFriendHandler returns the next eligible candidate within the
// authenticated user's friend radius, or {"user": null} when nobody
// qualifies. The path username is informational; matching always runs
// for the authenticated principal.
func (s *Server) PotentialFriendHandler(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r)

	candidate, err := s.matcher.FindCandidate(r.Context(), current)
	if err != nil {
		s.logger.WithError(err).Error("candidate lookup failed")
		writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	if candidate == nil {
		writeJSON(w, http.StatusOK, map[string]*userPayload{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]*userPayload{"user": publicUser(candidate)})
}
