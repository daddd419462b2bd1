// internal/handlers/friend.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frienderapp/friender/internal/database"
	"github.com/frienderapp/friender/internal/middleware"
	"github.com/frienderapp/friender/internal/relationship"
)

// RespondHandler records the authenticated user's accept/reject response
// toward the user named in the path.
//
// Request payload: { "response": true|false }
// Response payload: { "status": "pending" | "friends" | "not-friends" }
func (s *Server) RespondHandler(w http.ResponseWriter, r *http.Request) {
	current := middleware.CurrentUser(r)
	targetName := r.PathValue("username")

	var body struct {
		Response *bool `json:"response"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Response == nil {
		writeErrors(w, http.StatusBadRequest, "Response is required.")
		return
	}

	target, err := s.users.GetUserByUsername(r.Context(), targetName)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			writeErrors(w, http.StatusNotFound, "User not found.")
			return
		}
		s.logger.WithError(err).Error("failed to fetch target user")
		writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	status, err := s.resolver.Respond(r.Context(), current.ID, target.ID, *body.Response)
	if err != nil {
		switch {
		case errors.Is(err, relationship.ErrAlreadyFriends),
			errors.Is(err, relationship.ErrAlreadyNotFriends):
			writeErrors(w, http.StatusConflict, err.Error())
		case errors.Is(err, relationship.ErrSelfTarget):
			writeErrors(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, relationship.ErrTargetNotFound):
			writeErrors(w, http.StatusNotFound, "User not found.")
		case errors.Is(err, relationship.ErrInvalidState):
			writeErrors(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.WithError(err).Error("failed to resolve relationship")
			writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

type friendPayload struct {
	Username string  `json:"username"`
	Image    *string `json:"image"`
}

// ListFriendsHandler returns the friends of the user named in the path.
func (s *Server) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	targetName := r.PathValue("username")

	target, err := s.users.GetUserByUsername(r.Context(), targetName)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			writeErrors(w, http.StatusNotFound, "User not found.")
			return
		}
		s.logger.WithError(err).Error("failed to fetch target user")
		writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	friends, err := s.users.FriendsOf(r.Context(), target.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list friends")
		writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	payload := make([]friendPayload, 0, len(friends))
	for _, f := range friends {
		payload = append(payload, friendPayload{Username: f.Username, Image: f.ImageURL})
	}
	writeJSON(w, http.StatusOK, map[string][]friendPayload{"friends": payload})
}
