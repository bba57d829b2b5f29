package schedule_store

import (
	"context"
	"testing"
	"time"

	"github.com/memoboard/memoboard/pkg/schedule"
	"github.com/memoboard/memoboard/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAdapter(t *testing.T) (context.Context, *Adapter, *RepositoryStub) {
	t.Helper()
	normalizer, err := schedule.NewNormalizer("Europe/Warsaw")
	require.NoError(t, err)

	repo := NewRepositoryStub()
	ctx := user.WithUser(context.Background(), user.User{Id: 1, Uid: "tester"})
	return ctx, NewAdapter(repo, normalizer), repo
}

func TestAdapterCreateAndFetch(t *testing.T) {
	ctx, adapter, _ := setupAdapter(t)
	start := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

	created, err := adapter.Create(ctx, schedule.EventDraft{
		Title:    "Planning",
		Start:    start,
		End:      start.Add(time.Hour),
		Category: schedule.CategoryMeeting,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, schedule.SourceLocal, created.Source)
	assert.True(t, created.Mutable())

	events, err := adapter.FetchWindow(ctx, start.Add(-time.Hour), start.Add(2*time.Hour))
	assert.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, created.ID, events[0].ID)
	assert.Equal(t, schedule.CategoryMeeting, events[0].Category)
}

func TestAdapterRequiresUser(t *testing.T) {
	_, adapter, _ := setupAdapter(t)
	start := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

	_, err := adapter.FetchWindow(context.Background(), start, start.Add(time.Hour))
	assert.ErrorIs(t, err, user.ErrNoUser)
}

func TestAdapterScopesEventsPerUser(t *testing.T) {
	ctx, adapter, _ := setupAdapter(t)
	start := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

	created, err := adapter.Create(ctx, schedule.EventDraft{Title: "Mine", Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)

	otherCtx := user.WithUser(context.Background(), user.User{Id: 2, Uid: "other"})
	_, err = adapter.GetEvent(otherCtx, created.ID)
	assert.ErrorIs(t, err, schedule.ErrEventNotFound)
}

func TestAdapterGetEventNotFound(t *testing.T) {
	ctx, adapter, _ := setupAdapter(t)

	_, err := adapter.GetEvent(ctx, "missing")
	assert.ErrorIs(t, err, schedule.ErrEventNotFound)
}

func TestAdapterUpdateTime(t *testing.T) {
	ctx, adapter, _ := setupAdapter(t)
	start := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	created, err := adapter.Create(ctx, schedule.EventDraft{Title: "Sync", Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)

	newStart := start.Add(30 * time.Minute)
	updated, err := adapter.UpdateTime(ctx, created.ID, newStart, newStart.Add(time.Hour))
	assert.NoError(t, err)
	assert.True(t, updated.Start.Equal(newStart))

	_, err = adapter.UpdateTime(ctx, "missing", newStart, newStart.Add(time.Hour))
	assert.ErrorIs(t, err, schedule.ErrEventNotFound)
}

func TestAdapterDelete(t *testing.T) {
	ctx, adapter, _ := setupAdapter(t)
	start := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
	created, err := adapter.Create(ctx, schedule.EventDraft{Title: "Old", Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)

	assert.NoError(t, adapter.Delete(ctx, created.ID))
	assert.ErrorIs(t, adapter.Delete(ctx, created.ID), schedule.ErrEventNotFound)
}

func TestAdapterNormalizesStoredRecords(t *testing.T) {
	ctx, adapter, repo := setupAdapter(t)
	loc := adapter.normalizer.Location()

	t.Run("clamps a legacy inverted span", func(t *testing.T) {
		start := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
		id, err := repo.StoreEvent(ctx, 1, StoredEvent{
			Title: "Inverted", Category: "standard", StartTime: start, EndTime: start.Add(-time.Hour),
		})
		require.NoError(t, err)

		event, err := adapter.GetEvent(ctx, id)
		assert.NoError(t, err)
		assert.True(t, event.End.Equal(event.Start))
	})

	t.Run("re-aligns all-day rows to civil day boundaries", func(t *testing.T) {
		// stored instant drifted away from midnight, e.g. after a timezone change
		start := time.Date(2025, time.January, 10, 2, 30, 0, 0, loc)
		id, err := repo.StoreEvent(ctx, 1, StoredEvent{
			Title: "Conference", Category: "standard", AllDay: true,
			StartTime: start, EndTime: start.Add(40 * time.Hour),
		})
		require.NoError(t, err)

		event, err := adapter.GetEvent(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, 0, event.Start.In(loc).Hour())
		assert.Equal(t, 23, event.End.In(loc).Hour())
		assert.Equal(t, 59, event.End.In(loc).Minute())
	})

	t.Run("maps an unknown stored category to standard", func(t *testing.T) {
		start := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)
		id, err := repo.StoreEvent(ctx, 1, StoredEvent{
			Title: "Odd", Category: "legacy-value", StartTime: start, EndTime: start.Add(time.Hour),
		})
		require.NoError(t, err)

		event, err := adapter.GetEvent(ctx, id)
		assert.NoError(t, err)
		assert.Equal(t, schedule.CategoryStandard, event.Category)
	})
}
