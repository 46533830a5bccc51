package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daygrid/internal/models"
	"daygrid/internal/schedule"
)

// fakeEventRepo is an in-memory EventRepository for wiring the producer
// and the scheduler together without a database.
type fakeEventRepo struct {
	nextID int64
	events map[int64]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int64]*models.Event)}
}

func (r *fakeEventRepo) Store(_ context.Context, event *models.Event) error {
	event.ID = atomic.AddInt64(&r.nextID, 1)
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id int64) (*models.Event, error) {
	ev, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	copied := *ev
	return &copied, nil
}

func (r *fakeEventRepo) FindAll(_ context.Context, filter models.EventFilter) ([]*models.Event, error) {
	var out []*models.Event
	for _, ev := range r.events {
		if filter.OwnerID != nil && ev.OwnerID != *filter.OwnerID {
			continue
		}
		copied := *ev
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int64) error {
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) FindSchedulable(_ context.Context, ownerID int64) ([]*models.Event, error) {
	var out []*models.Event
	for _, ev := range r.events {
		if ev.OwnerID == ownerID && ev.Kind == models.KindEvent && ev.Priority.Schedulable() {
			copied := *ev
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) ApplyPlacements(_ context.Context, ownerID int64, decisions []schedule.Decision) error {
	for _, d := range decisions {
		ev, ok := r.events[d.EventID]
		if !ok || ev.OwnerID != ownerID {
			continue
		}
		ev.Start = d.Start
		ev.End = d.End
		ev.Waitlisted = d.Waitlisted
	}
	return nil
}

func (r *fakeEventRepo) FindBySourceUID(_ context.Context, ownerID int64, uid string) (*models.Event, error) {
	for _, ev := range r.events {
		if ev.OwnerID == ownerID && ev.SourceUID == uid {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeEventRepo) ListDueReminders(_ context.Context, _ int) ([]*models.Event, error) {
	return nil, nil
}

func (r *fakeEventRepo) SetReminderFired(_ context.Context, _ int64) error { return nil }

type fakePrefsRepo struct {
	prefs *models.SchedulingPreferences
}

func (r *fakePrefsRepo) Get(_ context.Context, userID int64) (*models.SchedulingPreferences, error) {
	if r.prefs != nil {
		return r.prefs, nil
	}
	return models.DefaultPreferences(userID), nil
}

func (r *fakePrefsRepo) Upsert(_ context.Context, prefs *models.SchedulingPreferences) error {
	r.prefs = prefs
	return nil
}

type fakeUserRepo struct{}

func (r *fakeUserRepo) Create(_ context.Context, _ *models.User) error { return nil }
func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, Name: "Test", Email: ""}, nil
}
func (r *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]*models.User, error) { return nil, nil }
func (r *fakeUserRepo) UpdateRefresh(_ context.Context, _ int64, _ string, _ time.Time) error {
	return nil
}
func (r *fakeUserRepo) GetByRefreshToken(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) UpdateTelegramLink(_ context.Context, _ int64, _ int64) error { return nil }

func newTestStack(now time.Time) (*fakeEventRepo, EventService) {
	repo := newFakeEventRepo()
	scheduler := NewSchedulerService(repo, &fakePrefsRepo{}, &fakeUserRepo{}, nil, nil).(*schedulerService)
	scheduler.now = func() time.Time { return now }
	return repo, NewEventService(repo, scheduler)
}

func TestEventService_CreateFlexibleGetsPlaced(t *testing.T) {
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC) // Monday 08:00
	repo, svc := newTestStack(now)

	created, err := svc.Create(context.Background(), &models.Event{
		OwnerID:         7,
		Priority:        models.PriorityRelevant,
		Title:           "Write report",
		DurationMinutes: 60,
		Window:          models.WindowThisWeek,
	})
	require.NoError(t, err)

	stored := repo.events[created.ID]
	require.NotNil(t, stored)
	require.False(t, stored.Waitlisted)
	require.NotNil(t, stored.Start)
	assert.Equal(t, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC), *stored.Start)
	assert.Equal(t, time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC), *stored.End)
}

func TestEventService_CriticalInsertDisplacesVictim(t *testing.T) {
	now := time.Date(2024, 6, 4, 8, 0, 0, 0, time.UTC) // Tuesday 08:00
	repo, svc := newTestStack(now)

	vStart := time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)
	vEnd := vStart.Add(time.Hour)
	victim := &models.Event{
		OwnerID:         7,
		Kind:            models.KindEvent,
		Priority:        models.PriorityRelevant,
		Title:           "1:1",
		Start:           &vStart,
		End:             &vEnd,
		DurationMinutes: 60,
		Window:          models.WindowNone,
		CreatedAt:       now,
	}
	require.NoError(t, repo.Store(context.Background(), victim))

	cStart := time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)
	cEnd := cStart.Add(30 * time.Minute)
	critical, err := svc.Create(context.Background(), &models.Event{
		OwnerID:  7,
		Priority: models.PriorityCritical,
		Title:    "Incident bridge",
		Start:    &cStart,
		End:      &cEnd,
	})
	require.NoError(t, err)
	assert.True(t, critical.Fixed, "critical is always fixed")

	// The critical item keeps its exact time.
	storedCritical := repo.events[critical.ID]
	assert.Equal(t, cStart, *storedCritical.Start)
	assert.Equal(t, cEnd, *storedCritical.End)

	// The victim is pushed to the first free instant after the bridge.
	storedVictim := repo.events[victim.ID]
	require.False(t, storedVictim.Waitlisted)
	assert.Equal(t, time.Date(2024, 6, 4, 10, 30, 0, 0, time.UTC), *storedVictim.Start)
	assert.Equal(t, time.Date(2024, 6, 4, 11, 30, 0, 0, time.UTC), *storedVictim.End)
}

func TestEventService_CreateRejectsBadInput(t *testing.T) {
	_, svc := newTestStack(time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC))

	_, err := svc.Create(context.Background(), &models.Event{OwnerID: 7, Priority: "whenever"})
	assert.Error(t, err)

	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	endBefore := start.Add(-time.Hour)
	_, err = svc.Create(context.Background(), &models.Event{OwnerID: 7, Start: &start, End: &endBefore})
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), &models.Event{OwnerID: 7, DurationMinutes: -5})
	assert.Error(t, err)
}

func TestEventService_FixedWithoutTimeIsWaitlistedOnCreate(t *testing.T) {
	repo, svc := newTestStack(time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC))

	created, err := svc.Create(context.Background(), &models.Event{
		OwnerID:  7,
		Priority: models.PriorityCritical,
		Title:    "TBD board meeting",
	})
	require.NoError(t, err)

	stored := repo.events[created.ID]
	assert.True(t, stored.Waitlisted)
	assert.Nil(t, stored.Start)
}

func TestEventService_CreateRepeatingMaterializesSeries(t *testing.T) {
	now := time.Date(2024, 11, 4, 8, 0, 0, 0, time.UTC) // Monday
	repo, svc := newTestStack(now)

	start := time.Date(2024, 12, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	_, err := svc.Create(context.Background(), &models.Event{
		OwnerID:  7,
		Priority: models.PriorityCritical,
		Title:    "Team sync",
		Start:    &start,
		End:      &end,
		Repeat:   models.RepeatWeekly,
	})
	require.NoError(t, err)

	// Dec 2, 9, 16, 23, 30: the series stops at year end.
	assert.Len(t, repo.events, 5)
}
