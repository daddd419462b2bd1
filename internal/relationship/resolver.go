// Package relationship applies a user's accept/reject response to the
// relationship ledger. A proposal starts as a single directed "pending"
// edge; the counterpart's answer promotes both edges to "friends" or
// closes both as "not-friends" in one atomic commit.
package relationship

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/frienderapp/friender/internal/database"
	"github.com/frienderapp/friender/internal/models"
)

// Users is the directory lookup needed to verify the target exists.
type Users interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Ledger is the write side of the relationship store. UpsertRelationshipPair
// must commit both edges atomically.
type Ledger interface {
	GetRelationship(ctx context.Context, owner, target uuid.UUID) (*models.Relationship, error)
	UpsertRelationship(ctx context.Context, owner, target uuid.UUID, status string) error
	UpsertRelationshipPair(ctx context.Context, a, b uuid.UUID, statusAB, statusBA string) error
}

// Resolver runs the relationship state machine. Responses on the same
// unordered user pair are serialized through an in-process pair lock,
// held from the first edge read to the final commit.
type Resolver struct {
	users  Users
	ledger Ledger
	locks  *pairLocks
	logger *logrus.Logger
}

func NewResolver(users Users, ledger Ledger, logger *logrus.Logger) *Resolver {
	return &Resolver{
		users:  users,
		ledger: ledger,
		locks:  newPairLocks(),
		logger: logger,
	}
}

// Respond records actingID's answer toward targetID and returns the
// resulting status of the acting user's edge.
//
// Transitions, with mine = edge(acting->target) and theirs = edge(target->acting):
//
//	theirs absent:            accept => mine pending, decline => mine not-friends
//	theirs pending:           accept => both friends, decline => both not-friends
//	theirs not-friends:       conflict, the counterpart closed the pair
//	both friends:             conflict
//	anything one-sided friends, or a terminal mine against a pending theirs,
//	is a corruption signal and fails with ErrInvalidState.
func (r *Resolver) Respond(ctx context.Context, actingID, targetID uuid.UUID, accept bool) (string, error) {
	if actingID == targetID {
		return "", ErrSelfTarget
	}
	if _, err := r.users.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return "", ErrTargetNotFound
		}
		return "", fmt.Errorf("target lookup: %w", err)
	}

	unlock := r.locks.Lock(actingID, targetID)
	defer unlock()

	mineRel, err := r.ledger.GetRelationship(ctx, actingID, targetID)
	if err != nil {
		return "", err
	}
	theirsRel, err := r.ledger.GetRelationship(ctx, targetID, actingID)
	if err != nil {
		return "", err
	}

	mine, theirs := status(mineRel), status(theirsRel)

	switch {
	case mine == models.StatusFriends || theirs == models.StatusFriends:
		if mine == models.StatusFriends && theirs == models.StatusFriends {
			return "", ErrAlreadyFriends
		}
		r.logCorrupt(actingID, targetID, mine, theirs)
		return "", ErrInvalidState

	case theirs == models.StatusNotFriends:
		return "", ErrAlreadyNotFriends

	case theirs == models.StatusPending:
		if mine == models.StatusNotFriends {
			r.logCorrupt(actingID, targetID, mine, theirs)
			return "", ErrInvalidState
		}
		result := models.StatusFriends
		if !accept {
			result = models.StatusNotFriends
		}
		if err := r.ledger.UpsertRelationshipPair(ctx, actingID, targetID, result, result); err != nil {
			return "", err
		}
		return result, nil

	default: // theirs absent: a new proposal, a re-proposal, or a unilateral decline
		result := models.StatusPending
		if !accept {
			result = models.StatusNotFriends
		}
		if err := r.ledger.UpsertRelationship(ctx, actingID, targetID, result); err != nil {
			return "", err
		}
		return result, nil
	}
}

func (r *Resolver) logCorrupt(actingID, targetID uuid.UUID, mine, theirs string) {
	r.logger.WithFields(logrus.Fields{
		"acting": actingID,
		"target": targetID,
		"mine":   mine,
		"theirs": theirs,
	}).Error("relationship ledger in undefined state")
}

// status maps an absent edge to the empty string.
func status(rel *models.Relationship) string {
	if rel == nil {
		return ""
	}
	return rel.Status
}
