// internal/database/relationship.go

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/frienderapp/friender/internal/models"
)

// GetRelationship returns the directed edge owner->target, or (nil, nil)
// when no edge exists.
func (s *Store) GetRelationship(ctx context.Context, owner, target uuid.UUID) (*models.Relationship, error) {
	var rel models.Relationship
	q := `
	SELECT owner_id, target_id, status, updated_at
	FROM relationships
	WHERE owner_id=$1 AND target_id=$2
	`
	err := s.pool.QueryRow(ctx, q, owner, target).Scan(
		&rel.OwnerID, &rel.TargetID, &rel.Status, &rel.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// UpsertRelationship inserts the edge owner->target or overwrites its
// status in place, preserving one row per ordered pair.
func (s *Store) UpsertRelationship(ctx context.Context, owner, target uuid.UUID, status string) error {
	q := `
	INSERT INTO relationships (owner_id, target_id, status)
	VALUES ($1, $2, $3)
	ON CONFLICT (owner_id, target_id)
	DO UPDATE SET status=$3, updated_at=NOW()
	`
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, owner, target, status)
		return err
	})
}

// UpsertRelationshipPair writes both directed edges between a and b in a
// single transaction. A reader never observes only one side updated.
func (s *Store) UpsertRelationshipPair(ctx context.Context, a, b uuid.UUID, statusAB, statusBA string) error {
	q := `
	INSERT INTO relationships (owner_id, target_id, status)
	VALUES ($1, $2, $3)
	ON CONFLICT (owner_id, target_id)
	DO UPDATE SET status=$3, updated_at=NOW()
	`
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, q, a, b, statusAB); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, q, b, a, statusBA)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to commit relationship pair: %w", err)
	}
	return nil
}

// FriendsOf returns every user connected to userID by a "friends" edge in
// either direction, deduplicated and ordered by id.
func (s *Store) FriendsOf(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	q := `
	SELECT DISTINCT ` + userColumns + `
	FROM users u
	JOIN relationships r
	  ON (r.owner_id = u.id AND r.target_id = $1)
	  OR (r.target_id = u.id AND r.owner_id = $1)
	WHERE r.status = $2
	ORDER BY id
	`
	rows, err := s.pool.Query(ctx, q, userID, models.StatusFriends)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Password, &u.ZipCode,
			&u.FriendRadius, &u.Hobbies, &u.Interests, &u.ImageURL,
		); err != nil {
			return nil, err
		}
		friends = append(friends, u)
	}
	return friends, rows.Err()
}
