package models

import (
	"time"

	"github.com/google/uuid"
)

// Relationship statuses. A directed edge is created on first interaction
// and never deleted; a later response overwrites the status in place.
const (
	StatusPending    = "pending"
	StatusFriends    = "friends"
	StatusNotFriends = "not-friends"
)

// Relationship is a directed edge from Owner toward Target. The two edges
// between a pair of users are independent rows and may disagree while a
// proposal is outstanding.
type Relationship struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	TargetID  uuid.UUID `json:"target_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
