package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/frienderapp/friender/internal/auth"
	"github.com/frienderapp/friender/internal/models"
)

const userColumns = `id, username, password, zip_code, friend_radius, hobbies, interests, image_url`

// CreateUser hashes the password, assigns an id if missing and inserts the
// row. A username collision returns ErrUsernameTaken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}

	hash, err := auth.CreateHash(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	q := `INSERT INTO users (id, username, password, zip_code, friend_radius, hobbies, interests, image_url)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			user.ID, user.Username, user.Password, user.ZipCode,
			user.FriendRadius, user.Hobbies, user.Interests, user.ImageURL,
		)
		return execErr
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	q := `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	err := s.pool.QueryRow(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.Password, &u.ZipCode,
		&u.FriendRadius, &u.Hobbies, &u.Interests, &u.ImageURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&u.ID, &u.Username, &u.Password, &u.ZipCode,
		&u.FriendRadius, &u.Hobbies, &u.Interests, &u.ImageURL,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UsersInZips returns every user located in one of the given zip codes,
// excluding the given user. Rows come back ordered by id so a single call
// iterates candidates deterministically.
func (s *Store) UsersInZips(ctx context.Context, zips []string, excluding uuid.UUID) ([]models.User, error) {
	if len(zips) == 0 {
		return nil, nil
	}
	q := `
	SELECT ` + userColumns + `
	FROM users
	WHERE zip_code = ANY($1) AND id <> $2
	ORDER BY id
	`
	rows, err := s.pool.Query(ctx, q, zips, excluding)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Password, &u.ZipCode,
			&u.FriendRadius, &u.Hobbies, &u.Interests, &u.ImageURL,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AuthenticateUser checks the username/password pair and mints a JWT for
// the user on success.
func (s *Store) AuthenticateUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("user not found or db error: %w", err)
	}

	match, err := auth.ComparePasswordAndHash(password, user.Password)
	if err != nil || !match {
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := auth.CreateJWT(user.ID.String())
	if err != nil {
		return "", fmt.Errorf("failed to create jwt: %w", err)
	}

	return token, nil
}
