package db

import (
	"context"
	"testing"

	"socialcal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRepository(t *testing.T) {
	repo := NewScheduleRepository(setupDB(t))
	ctx := context.Background()

	err := repo.AppendEntry(ctx, "u1", models.ScheduleEntry{Key: "k0", Work: "nope"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.FindByUserID(ctx, "u1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.CreateEmpty(ctx, "u1"))
	require.NoError(t, repo.CreateEmpty(ctx, "u1"))

	for _, key := range []string{"k1", "k2", "k3"} {
		require.NoError(t, repo.AppendEntry(ctx, "u1", models.ScheduleEntry{
			Key: key, Work: "work " + key, Date: "2026-10-15", StartTime: "09:00", EndTime: "10:00",
		}))
	}

	found, err := repo.ReplaceEntryByKey(ctx, "u1", models.ScheduleEntry{
		Key: "k2", Work: "rewritten", Date: "2026-10-16", StartTime: "11:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.ReplaceEntryByKey(ctx, "u1", models.ScheduleEntry{Key: "missing", Work: "x"})
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.RemoveEntryByKey(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.True(t, found)
	found, err = repo.RemoveEntryByKey(ctx, "u1", "k1")
	require.NoError(t, err)
	assert.False(t, found)

	schedule, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, schedule.Entries, 2)
	assert.Equal(t, "k2", schedule.Entries[0].Key)
	assert.Equal(t, "rewritten", schedule.Entries[0].Work)
	assert.Equal(t, "k3", schedule.Entries[1].Key)

	require.NoError(t, repo.AppendEntry(ctx, "u1", models.ScheduleEntry{Key: "k4", Work: "last"}))
	schedule, err = repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "k4", schedule.Entries[len(schedule.Entries)-1].Key)
}

func TestScheduleEntriesScopedToOwner(t *testing.T) {
	repo := NewScheduleRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.CreateEmpty(ctx, "u1"))
	require.NoError(t, repo.CreateEmpty(ctx, "u2"))
	require.NoError(t, repo.AppendEntry(ctx, "u1", models.ScheduleEntry{Key: "k1", Work: "mine"}))

	found, err := repo.RemoveEntryByKey(ctx, "u2", "k1")
	require.NoError(t, err)
	assert.False(t, found)

	other, err := repo.FindByUserID(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other.Entries)
}
