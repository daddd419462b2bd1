// internal/handlers/user.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/frienderapp/friender/internal/auth"
	"github.com/frienderapp/friender/internal/database"
	"github.com/frienderapp/friender/internal/models"
	"github.com/frienderapp/friender/internal/storage"
)

const maxRegisterFormSize = 10 << 20

// RegisterHandler validates registration form data, stores the avatar if
// one was sent, creates the user and returns a JWT.
//
// Expects multipart form fields: username, password, zip_code,
// friend_radius, hobbies, interests and an optional image file.
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRegisterFormSize); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	zipCode := r.FormValue("zip_code")
	radiusStr := r.FormValue("friend_radius")
	hobbies := r.FormValue("hobbies")
	interests := r.FormValue("interests")

	var errs []string
	if len(username) < 2 || len(username) > 30 {
		errs = append(errs, "Username must be between 2 and 30 characters.")
	}
	if len(password) < 6 || len(password) > 100 {
		errs = append(errs, "Password must be between 6 and 100 characters.")
	}
	if len(zipCode) < 2 || len(zipCode) > 10 {
		errs = append(errs, "Zip code must be between 2 and 10 characters.")
	}
	radius, err := strconv.Atoi(radiusStr)
	if err != nil || radius < 1 || radius > 9999 {
		errs = append(errs, "Friend radius must be between 1 and 9999.")
	}
	if hobbies == "" {
		errs = append(errs, "Hobbies is required.")
	}
	if interests == "" {
		errs = append(errs, "Interests is required.")
	}
	if len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs...)
		return
	}

	if ok, err := s.geo.ValidZip(r.Context(), zipCode); err != nil {
		s.logger.WithError(err).Error("zip validation failed")
		writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
		return
	} else if !ok {
		writeErrors(w, http.StatusBadRequest, "Invalid zip code.")
		return
	}

	var imageURL *string
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		url, err := s.uploader.Upload(r.Context(), file, header.Header.Get("Content-Type"))
		if err != nil {
			if errors.Is(err, storage.ErrNotImage) {
				writeErrors(w, http.StatusBadRequest, "Invalid image.")
				return
			}
			s.logger.WithError(err).Error("image upload failed")
			writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
			return
		}
		imageURL = &url
	}

	user := &models.User{
		Username:     username,
		Password:     password,
		ZipCode:      zipCode,
		FriendRadius: radius,
		Hobbies:      hobbies,
		Interests:    interests,
		ImageURL:     imageURL,
	}
	if err := s.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			writeErrors(w, http.StatusBadRequest, "Username already taken.")
			return
		}
		s.logger.WithError(err).Error("failed to create user")
		writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	token, err := auth.CreateJWT(user.ID.String())
	if err != nil {
		s.logger.WithError(err).Error("failed to create jwt")
		writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler authenticates a username/password pair and returns a JWT.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeErrors(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	token, err := s.users.AuthenticateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		writeErrors(w, http.StatusBadRequest, "Invalid username/password.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetUserHandler returns the public profile for a username.
func (s *Server) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user, err := s.users.GetUserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			writeErrors(w, http.StatusNotFound, "User not found.")
			return
		}
		s.logger.WithError(err).Error("failed to fetch user")
		writeErrors(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]*userPayload{"user": publicUser(user)})
}
