package scheduler

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/playspot/playspot-backend/internal/group"
)

type fakeGroupRepo struct {
	groups       map[string]*group.Group
	joined       map[string][]string // groupID -> joined user IDs
	countErr     map[string]error
	disbandCalls int
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:   map[string]*group.Group{},
		joined:   map[string][]string{},
		countErr: map[string]error{},
	}
}

func (r *fakeGroupRepo) add(g *group.Group, joined ...string) {
	r.groups[g.ID] = g
	r.joined[g.ID] = joined
}

func (r *fakeGroupRepo) Create(context.Context, *group.Group) error { panic("not used") }

func (r *fakeGroupRepo) GetByID(context.Context, string) (*group.Group, error) { panic("not used") }

func (r *fakeGroupRepo) List(context.Context, group.Filter) ([]*group.Group, int, error) {
	panic("not used")
}

func (r *fakeGroupRepo) Join(context.Context, string, string) error { panic("not used") }

func (r *fakeGroupRepo) Leave(context.Context, string, string) error { panic("not used") }

func (r *fakeGroupRepo) ListDueBetween(_ context.Context, from, to time.Time) ([]*group.Group, error) {
	var out []*group.Group
	for _, g := range r.groups {
		if !g.IsActive || g.IsClosed || g.MinParticipants == nil || g.MeetingAt == nil {
			continue
		}
		if !g.MeetingAt.Before(from) && g.MeetingAt.Before(to) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeGroupRepo) CountJoined(_ context.Context, groupID string) (int, error) {
	if err := r.countErr[groupID]; err != nil {
		return 0, err
	}
	return len(r.joined[groupID]), nil
}

func (r *fakeGroupRepo) ListJoinedUserIDs(_ context.Context, groupID string) ([]string, error) {
	return r.joined[groupID], nil
}

func (r *fakeGroupRepo) Disband(_ context.Context, groupID string) (bool, error) {
	r.disbandCalls++
	g, ok := r.groups[groupID]
	if !ok || !g.IsActive {
		return false, nil
	}
	g.IsActive = false
	g.IsClosed = true
	return true, nil
}

type recordingNotifier struct {
	recipients []string
	kinds      []string
}

func (n *recordingNotifier) Notify(_ context.Context, userID, kind, _, _ string, _ map[string]string) error {
	n.recipients = append(n.recipients, userID)
	n.kinds = append(n.kinds, kind)
	return nil
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

var testNow = time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)

func newTestScheduler(repo *fakeGroupRepo, notifier *recordingNotifier) *Scheduler {
	s := New(repo, notifier, zap.NewNop(), 10*time.Minute, 2*time.Hour)
	s.Now = func() time.Time { return testNow }
	return s
}

// inBand is a meeting time inside [now+lookahead, now+lookahead+interval).
func inBand() *time.Time {
	return timePtr(testNow.Add(2*time.Hour + 5*time.Minute))
}

func TestSweepDisbandsShortGroup(t *testing.T) {
	repo := newFakeGroupRepo()
	notifier := &recordingNotifier{}

	repo.add(&group.Group{
		ID:              "g1",
		CreatorID:       "creator",
		Title:           "Morning fives",
		MeetingAt:       inBand(),
		MinParticipants: intPtr(5),
		IsActive:        true,
	}, "alice", "bob") // headcount 3 < 5

	s := newTestScheduler(repo, notifier)
	require.NoError(t, s.Sweep(context.Background()))

	g := repo.groups["g1"]
	assert.False(t, g.IsActive)
	assert.True(t, g.IsClosed)

	// Creator and both joined participants are told.
	assert.ElementsMatch(t, []string{"creator", "alice", "bob"}, notifier.recipients)
	for _, kind := range notifier.kinds {
		assert.Equal(t, "group.disbanded", kind)
	}
}

func TestSweepKeepsViableGroup(t *testing.T) {
	repo := newFakeGroupRepo()
	notifier := &recordingNotifier{}

	repo.add(&group.Group{
		ID:              "g1",
		CreatorID:       "creator",
		Title:           "Doubles",
		MeetingAt:       inBand(),
		MinParticipants: intPtr(4),
		IsActive:        true,
	}, "alice", "bob", "carol") // headcount 4 >= 4

	s := newTestScheduler(repo, notifier)
	require.NoError(t, s.Sweep(context.Background()))

	assert.True(t, repo.groups["g1"].IsActive)
	assert.Empty(t, notifier.recipients)
	assert.Zero(t, repo.disbandCalls)
}

func TestSweepIgnoresGroupsWithoutThreshold(t *testing.T) {
	repo := newFakeGroupRepo()
	notifier := &recordingNotifier{}

	repo.add(&group.Group{
		ID:        "g1",
		CreatorID: "creator",
		Title:     "Casual kickabout",
		MeetingAt: inBand(),
		IsActive:  true,
	}) // MinParticipants nil, nobody joined

	s := newTestScheduler(repo, notifier)
	require.NoError(t, s.Sweep(context.Background()))

	assert.True(t, repo.groups["g1"].IsActive)
	assert.Empty(t, notifier.recipients)
}

func TestSweepBandBoundaries(t *testing.T) {
	repo := newFakeGroupRepo()
	notifier := &recordingNotifier{}

	mk := func(id string, meetingAt time.Time) {
		repo.add(&group.Group{
			ID:              id,
			CreatorID:       "creator",
			Title:           id,
			MeetingAt:       timePtr(meetingAt),
			MinParticipants: intPtr(5),
			IsActive:        true,
		})
	}

	mk("before-band", testNow.Add(2*time.Hour-time.Minute))
	mk("band-start", testNow.Add(2*time.Hour))
	mk("band-middle", testNow.Add(2*time.Hour+5*time.Minute))
	mk("band-end", testNow.Add(2*time.Hour+10*time.Minute)) // exclusive
	mk("after-band", testNow.Add(3*time.Hour))

	s := newTestScheduler(repo, notifier)
	require.NoError(t, s.Sweep(context.Background()))

	assert.True(t, repo.groups["before-band"].IsActive)
	assert.False(t, repo.groups["band-start"].IsActive)
	assert.False(t, repo.groups["band-middle"].IsActive)
	assert.True(t, repo.groups["band-end"].IsActive)
	assert.True(t, repo.groups["after-band"].IsActive)
}

func TestSweepIsIdempotent(t *testing.T) {
	repo := newFakeGroupRepo()
	notifier := &recordingNotifier{}

	repo.add(&group.Group{
		ID:              "g1",
		CreatorID:       "creator",
		Title:           "Morning fives",
		MeetingAt:       inBand(),
		MinParticipants: intPtr(5),
		IsActive:        true,
	}, "alice")

	s := newTestScheduler(repo, notifier)
	require.NoError(t, s.Sweep(context.Background()))
	require.NoError(t, s.Sweep(context.Background()))

	// The second sweep no longer selects the group, so nobody is
	// notified twice.
	assert.Len(t, notifier.recipients, 2) // creator + alice, once
}

func TestSweepIsolatesPerGroupFailures(t *testing.T) {
	repo := newFakeGroupRepo()
	notifier := &recordingNotifier{}

	repo.add(&group.Group{
		ID:              "g1",
		CreatorID:       "creator-1",
		Title:           "Broken",
		MeetingAt:       inBand(),
		MinParticipants: intPtr(5),
		IsActive:        true,
	})
	repo.add(&group.Group{
		ID:              "g2",
		CreatorID:       "creator-2",
		Title:           "Fine",
		MeetingAt:       inBand(),
		MinParticipants: intPtr(5),
		IsActive:        true,
	})
	repo.countErr["g1"] = errors.New("db gone")

	s := newTestScheduler(repo, notifier)
	require.NoError(t, s.Sweep(context.Background()))

	// g1's failure does not stop g2 from being handled.
	assert.True(t, repo.groups["g1"].IsActive)
	assert.False(t, repo.groups["g2"].IsActive)
	assert.Contains(t, notifier.recipients, "creator-2")
}
