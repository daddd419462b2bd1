package match

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frienderapp/friender/internal/models"
)

// fakeGeo maps a zip code straight to its radius set, ignoring the radius
// value.
type fakeGeo struct {
	zips map[string][]string
}

func (f *fakeGeo) ZipsInRadius(ctx context.Context, zip string, radiusMiles int) ([]string, error) {
	return f.zips[zip], nil
}

func (f *fakeGeo) ValidZip(ctx context.Context, zip string) (bool, error) {
	_, ok := f.zips[zip]
	return ok, nil
}

// fakeDirectory serves users from a slice, preserving insertion order so
// iteration is deterministic.
type fakeDirectory struct {
	users []models.User
}

func (f *fakeDirectory) UsersInZips(ctx context.Context, zips []string, excluding uuid.UUID) ([]models.User, error) {
	inSet := make(map[string]bool, len(zips))
	for _, z := range zips {
		inSet[z] = true
	}
	var out []models.User
	for _, u := range f.users {
		if u.ID != excluding && inSet[u.ZipCode] {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeLedger struct {
	edges map[[2]uuid.UUID]string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{edges: make(map[[2]uuid.UUID]string)}
}

func (f *fakeLedger) set(owner, target uuid.UUID, status string) {
	f.edges[[2]uuid.UUID{owner, target}] = status
}

func (f *fakeLedger) GetRelationship(ctx context.Context, owner, target uuid.UUID) (*models.Relationship, error) {
	status, ok := f.edges[[2]uuid.UUID{owner, target}]
	if !ok {
		return nil, nil
	}
	return &models.Relationship{OwnerID: owner, TargetID: target, Status: status}, nil
}

func newTestUser(username, zip string, radius int) models.User {
	return models.User{ID: uuid.New(), Username: username, ZipCode: zip, FriendRadius: radius}
}

func TestFindCandidateCleanSlate(t *testing.T) {
	alice := newTestUser("alice", "10001", 10)
	bob := newTestUser("bob", "10002", 5)

	engine := NewEngine(
		&fakeGeo{zips: map[string][]string{"10001": {"10001", "10002"}}},
		&fakeDirectory{users: []models.User{alice, bob}},
		newFakeLedger(),
	)

	got, err := engine.FindCandidate(context.Background(), &alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bob.ID, got.ID)
}

func TestFindCandidateEmptyRadius(t *testing.T) {
	alice := newTestUser("alice", "99999", 1)

	engine := NewEngine(
		&fakeGeo{zips: map[string][]string{}},
		&fakeDirectory{},
		newFakeLedger(),
	)

	got, err := engine.FindCandidate(context.Background(), &alice)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindCandidateNeverReturnsSelf(t *testing.T) {
	alice := newTestUser("alice", "10001", 10)

	engine := NewEngine(
		&fakeGeo{zips: map[string][]string{"10001": {"10001"}}},
		&fakeDirectory{users: []models.User{alice}},
		newFakeLedger(),
	)

	got, err := engine.FindCandidate(context.Background(), &alice)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindCandidateSkipsOutsideRadius(t *testing.T) {
	alice := newTestUser("alice", "10001", 10)
	carol := newTestUser("carol", "90210", 10)

	engine := NewEngine(
		&fakeGeo{zips: map[string][]string{"10001": {"10001", "10002"}}},
		&fakeDirectory{users: []models.User{alice, carol}},
		newFakeLedger(),
	)

	got, err := engine.FindCandidate(context.Background(), &alice)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindCandidateSkipsResolvedPairs(t *testing.T) {
	alice := newTestUser("alice", "10001", 10)
	bob := newTestUser("bob", "10002", 5)

	cases := []struct {
		name         string
		mine, theirs string
		wantBob      bool
	}{
		{"friends both ways", models.StatusFriends, models.StatusFriends, false},
		{"mutually not-friends", models.StatusNotFriends, models.StatusNotFriends, false},
		{"their decline", "", models.StatusNotFriends, false},
		{"my outstanding proposal", models.StatusPending, "", false},
		{"their outstanding proposal", "", models.StatusPending, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := newFakeLedger()
			if tc.mine != "" {
				ledger.set(alice.ID, bob.ID, tc.mine)
			}
			if tc.theirs != "" {
				ledger.set(bob.ID, alice.ID, tc.theirs)
			}

			engine := NewEngine(
				&fakeGeo{zips: map[string][]string{"10001": {"10001", "10002"}}},
				&fakeDirectory{users: []models.User{alice, bob}},
				ledger,
			)

			got, err := engine.FindCandidate(context.Background(), &alice)
			require.NoError(t, err)
			if tc.wantBob {
				require.NotNil(t, got)
				assert.Equal(t, bob.ID, got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestFindCandidateFirstMatchWins(t *testing.T) {
	alice := newTestUser("alice", "10001", 10)
	bob := newTestUser("bob", "10002", 5)
	carol := newTestUser("carol", "10002", 5)

	engine := NewEngine(
		&fakeGeo{zips: map[string][]string{"10001": {"10001", "10002"}}},
		&fakeDirectory{users: []models.User{alice, bob, carol}},
		newFakeLedger(),
	)

	// both are eligible; iteration order decides, no ranking
	got, err := engine.FindCandidate(context.Background(), &alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bob.ID, got.ID)
}

func TestFindCandidateFallsPastIneligible(t *testing.T) {
	alice := newTestUser("alice", "10001", 10)
	bob := newTestUser("bob", "10002", 5)
	carol := newTestUser("carol", "10002", 5)

	ledger := newFakeLedger()
	ledger.set(alice.ID, bob.ID, models.StatusFriends)
	ledger.set(bob.ID, alice.ID, models.StatusFriends)

	engine := NewEngine(
		&fakeGeo{zips: map[string][]string{"10001": {"10001", "10002"}}},
		&fakeDirectory{users: []models.User{alice, bob, carol}},
		ledger,
	)

	got, err := engine.FindCandidate(context.Background(), &alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, carol.ID, got.ID)
}
