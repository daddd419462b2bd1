// Package match finds the next potential friend for a user: someone inside
// the user's search radius whose relationship with the user is still open.
package match

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/frienderapp/friender/internal/geo"
	"github.com/frienderapp/friender/internal/models"
)

// Directory is the read-only user lookup the engine needs. The sequence
// returned by UsersInZips must be deterministic within a call.
type Directory interface {
	UsersInZips(ctx context.Context, zips []string, excluding uuid.UUID) ([]models.User, error)
}

// Ledger is the read side of the relationship store.
type Ledger interface {
	GetRelationship(ctx context.Context, owner, target uuid.UUID) (*models.Relationship, error)
}

// Engine proposes candidates. It never writes; a candidate that gets
// claimed by a concurrent accept simply surfaces as a conflict when the
// user responds.
type Engine struct {
	geo    geo.Index
	users  Directory
	ledger Ledger
}

func NewEngine(geoIdx geo.Index, users Directory, ledger Ledger) *Engine {
	return &Engine{geo: geoIdx, users: users, ledger: ledger}
}

// FindCandidate returns the first eligible user within current's friend
// radius, or nil when nobody qualifies. First match wins; there is no
// ranking beyond radius and eligibility.
func (e *Engine) FindCandidate(ctx context.Context, current *models.User) (*models.User, error) {
	zips, err := e.geo.ZipsInRadius(ctx, current.ZipCode, current.FriendRadius)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve radius zips: %w", err)
	}
	if len(zips) == 0 {
		return nil, nil
	}

	candidates, err := e.users.UsersInZips(ctx, zips, current.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	for i := range candidates {
		c := &candidates[i]

		theirs, err := e.ledger.GetRelationship(ctx, c.ID, current.ID)
		if err != nil {
			return nil, err
		}
		mine, err := e.ledger.GetRelationship(ctx, current.ID, c.ID)
		if err != nil {
			return nil, err
		}

		if eligible(mine, theirs) {
			return c, nil
		}
	}
	return nil, nil
}

// eligible reports whether a candidate may be offered, given my edge to
// them and their edge to me. A clean slate qualifies, as does an
// outstanding proposal from the candidate that I have not yet resolved.
func eligible(mine, theirs *models.Relationship) bool {
	if mine == nil && theirs == nil {
		return true
	}
	if theirs != nil && theirs.Status == models.StatusPending {
		return mine == nil || mine.Status == models.StatusPending
	}
	return false
}
