package relationship

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frienderapp/friender/internal/database"
	"github.com/frienderapp/friender/internal/models"
)

// fakeUsers knows a fixed set of user ids.
type fakeUsers struct {
	known map[uuid.UUID]bool
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if !f.known[id] {
		return nil, database.ErrUserNotFound
	}
	return &models.User{ID: id}, nil
}

// memLedger keeps directed edges in a map. UpsertRelationshipPair writes
// both edges under one mutex hold, mirroring the store's transaction.
type memLedger struct {
	mu    sync.Mutex
	edges map[[2]uuid.UUID]string
}

func newMemLedger() *memLedger {
	return &memLedger{edges: make(map[[2]uuid.UUID]string)}
}

func (m *memLedger) GetRelationship(ctx context.Context, owner, target uuid.UUID) (*models.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.edges[[2]uuid.UUID{owner, target}]
	if !ok {
		return nil, nil
	}
	return &models.Relationship{OwnerID: owner, TargetID: target, Status: status}, nil
}

func (m *memLedger) UpsertRelationship(ctx context.Context, owner, target uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[[2]uuid.UUID{owner, target}] = status
	return nil
}

func (m *memLedger) UpsertRelationshipPair(ctx context.Context, a, b uuid.UUID, statusAB, statusBA string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[[2]uuid.UUID{a, b}] = statusAB
	m.edges[[2]uuid.UUID{b, a}] = statusBA
	return nil
}

func (m *memLedger) set(owner, target uuid.UUID, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[[2]uuid.UUID{owner, target}] = status
}

func (m *memLedger) get(owner, target uuid.UUID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edges[[2]uuid.UUID{owner, target}]
}

func testResolver(ids ...uuid.UUID) (*Resolver, *memLedger) {
	known := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ledger := newMemLedger()
	return NewResolver(&fakeUsers{known: known}, ledger, logger), ledger
}

func TestProposeThenAccept(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)
	ctx := context.Background()

	status, err := r.Respond(ctx, a, b, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)
	assert.Equal(t, models.StatusPending, ledger.get(a, b))
	assert.Equal(t, "", ledger.get(b, a), "counterpart edge must stay absent")

	status, err = r.Respond(ctx, b, a, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFriends, status)
	assert.Equal(t, models.StatusFriends, ledger.get(a, b))
	assert.Equal(t, models.StatusFriends, ledger.get(b, a))
}

func TestProposeThenDecline(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)
	ctx := context.Background()

	_, err := r.Respond(ctx, a, b, true)
	require.NoError(t, err)

	status, err := r.Respond(ctx, b, a, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotFriends, status)
	assert.Equal(t, models.StatusNotFriends, ledger.get(a, b))
	assert.Equal(t, models.StatusNotFriends, ledger.get(b, a))
}

func TestUnilateralDecline(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)

	status, err := r.Respond(context.Background(), a, b, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotFriends, status)
	assert.Equal(t, models.StatusNotFriends, ledger.get(a, b))
	assert.Equal(t, "", ledger.get(b, a), "decline without prior contact is recorded on one side only")
}

func TestRepeatProposalStaysPending(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)
	ctx := context.Background()

	_, err := r.Respond(ctx, a, b, true)
	require.NoError(t, err)

	status, err := r.Respond(ctx, a, b, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)
	assert.Equal(t, models.StatusPending, ledger.get(a, b))
}

func TestReproposalAfterOwnDecline(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)
	ctx := context.Background()

	_, err := r.Respond(ctx, a, b, false)
	require.NoError(t, err)

	// a later re-proposal overwrites the closed edge in place
	status, err := r.Respond(ctx, a, b, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, status)
	assert.Equal(t, models.StatusPending, ledger.get(a, b))
}

func TestAlreadyFriendsConflict(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)
	ledger.set(a, b, models.StatusFriends)
	ledger.set(b, a, models.StatusFriends)

	for _, accept := range []bool{true, false} {
		_, err := r.Respond(context.Background(), a, b, accept)
		assert.ErrorIs(t, err, ErrAlreadyFriends)
	}
}

func TestAlreadyNotFriendsConflict(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)
	ledger.set(a, b, models.StatusNotFriends)
	ledger.set(b, a, models.StatusNotFriends)

	for _, accept := range []bool{true, false} {
		_, err := r.Respond(context.Background(), a, b, accept)
		assert.ErrorIs(t, err, ErrAlreadyNotFriends)
	}
}

func TestCounterpartClosedPair(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)
	ledger.set(b, a, models.StatusNotFriends)

	_, err := r.Respond(context.Background(), a, b, true)
	assert.ErrorIs(t, err, ErrAlreadyNotFriends)
}

func TestOneSidedFriendsIsInvalid(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)
	ledger.set(a, b, models.StatusFriends)
	ledger.set(b, a, models.StatusNotFriends)

	_, err := r.Respond(context.Background(), a, b, true)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestTerminalEdgeAgainstPendingIsInvalid(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r, ledger := testResolver(a, b)
	ledger.set(a, b, models.StatusNotFriends)
	ledger.set(b, a, models.StatusPending)

	_, err := r.Respond(context.Background(), a, b, true)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSelfTarget(t *testing.T) {
	a := uuid.New()
	r, _ := testResolver(a)

	_, err := r.Respond(context.Background(), a, a, true)
	assert.ErrorIs(t, err, ErrSelfTarget)
}

func TestTargetNotFound(t *testing.T) {
	a := uuid.New()
	r, _ := testResolver(a)

	_, err := r.Respond(context.Background(), a, uuid.New(), true)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

// TestConcurrentAcceptsConverge runs simultaneous accepts from both sides
// of a pair. Whatever the interleaving, the pair must end mutual friends,
// never two independent pending proposals.
func TestConcurrentAcceptsConverge(t *testing.T) {
	for i := 0; i < 100; i++ {
		a, b := uuid.New(), uuid.New()
		r, ledger := testResolver(a, b)
		ctx := context.Background()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := r.Respond(ctx, a, b, true)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := r.Respond(ctx, b, a, true)
			assert.NoError(t, err)
		}()
		wg.Wait()

		require.Equal(t, models.StatusFriends, ledger.get(a, b))
		require.Equal(t, models.StatusFriends, ledger.get(b, a))
	}
}
