// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/frienderapp/friender/internal/geo"
	"github.com/frienderapp/friender/internal/middleware"
	"github.com/frienderapp/friender/internal/models"
	"github.com/frienderapp/friender/internal/storage"
)

// Directory is the user-store surface the handlers use.
type Directory interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (string, error)
	FriendsOf(ctx context.Context, userID uuid.UUID) ([]models.User, error)
}

// Matcher proposes the next potential friend for a user.
type Matcher interface {
	FindCandidate(ctx context.Context, current *models.User) (*models.User, error)
}

// Responder applies an accept/reject response between two users.
type Responder interface {
	Respond(ctx context.Context, actingID, targetID uuid.UUID, accept bool) (string, error)
}

// Server holds the collaborators for the HTTP surface. Everything is
// injected; tests swap in in-memory fakes.
type Server struct {
	logger   *logrus.Logger
	users    Directory
	matcher  Matcher
	resolver Responder
	geo      geo.Index
	uploader storage.Uploader
}

func NewServer(logger *logrus.Logger, users Directory, matcher Matcher, resolver Responder, geoIdx geo.Index, uploader storage.Uploader) *Server {
	return &Server{
		logger:   logger,
		users:    users,
		matcher:  matcher,
		resolver: resolver,
		geo:      geoIdx,
		uploader: uploader,
	}
}

// SetupRoutes registers the API on mux. Everything under /users requires
// an authenticated principal.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", s.RegisterHandler)
	mux.HandleFunc("POST /login", s.LoginHandler)

	authed := middleware.Authenticator(s.logger, s.users)
	mux.Handle("GET /users/{username}", authed(http.HandlerFunc(s.GetUserHandler)))
	mux.Handle("GET /users/{username}/potential-friend", authed(http.HandlerFunc(s.PotentialFriendHandler)))
	mux.Handle("POST /users/{username}/respond", authed(http.HandlerFunc(s.RespondHandler)))
	mux.Handle("GET /users/{username}/friends", authed(http.HandlerFunc(s.ListFriendsHandler)))
}

// userPayload is the public view of a user.
type userPayload struct {
	Username     string  `json:"username"`
	ZipCode      string  `json:"zip_code"`
	FriendRadius int     `json:"friend_radius"`
	Hobbies      string  `json:"hobbies"`
	Interests    string  `json:"interests"`
	Image        *string `json:"image"`
}

func publicUser(u *models.User) *userPayload {
	return &userPayload{
		Username:     u.Username,
		ZipCode:      u.ZipCode,
		FriendRadius: u.FriendRadius,
		Hobbies:      u.Hobbies,
		Interests:    u.Interests,
		Image:        u.ImageURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrors(w http.ResponseWriter, status int, errs ...string) {
	writeJSON(w, status, map[string][]string{"errors": errs})
}
