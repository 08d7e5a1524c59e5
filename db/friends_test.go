package db

import (
	"context"
	"errors"
	"testing"

	"socialcal/models"
	"socialcal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendGraphSetSemantics(t *testing.T) {
	repo := NewFriendGraphRepository(setupDB(t))
	ctx := context.Background()

	err := repo.AddToSet(ctx, "a", models.FriendsField, "b")
	assert.ErrorIs(t, err, models.ErrNotFound, "no graph yet")

	require.NoError(t, repo.CreateEmpty(ctx, "a"))
	require.NoError(t, repo.CreateEmpty(ctx, "a"))

	require.NoError(t, repo.AddToSet(ctx, "a", models.PendingRequestsField, "b"))
	require.NoError(t, repo.AddToSet(ctx, "a", models.PendingRequestsField, "b"))
	require.NoError(t, repo.AddToSet(ctx, "a", models.PendingRequestsField, "c"))
	require.NoError(t, repo.AddToSet(ctx, "a", models.FriendsField, "b"))

	graph, err := repo.FindByUserID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, graph.PendingRequests)
	assert.Equal(t, []string{"b"}, graph.Friends)

	require.NoError(t, repo.RemoveFromSet(ctx, "a", models.PendingRequestsField, "b"))
	require.NoError(t, repo.RemoveFromSet(ctx, "a", models.PendingRequestsField, "b"))

	graph, err = repo.FindByUserID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, graph.PendingRequests)
	assert.Equal(t, []string{"b"}, graph.Friends, "fields are independent")
}

func TestFriendGraphWithinTxRollsBack(t *testing.T) {
	repo := NewFriendGraphRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, repo.CreateEmpty(ctx, "a"))
	require.NoError(t, repo.CreateEmpty(ctx, "b"))

	boom := errors.New("boom")
	err := repo.WithinTx(ctx, func(tx services.FriendGraphStore) error {
		if err := tx.AddToSet(ctx, "a", models.FriendsField, "b"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	graph, err := repo.FindByUserID(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, graph.Friends)

	err = repo.WithinTx(ctx, func(tx services.FriendGraphStore) error {
		if err := tx.AddToSet(ctx, "a", models.FriendsField, "b"); err != nil {
			return err
		}
		return tx.AddToSet(ctx, "b", models.FriendsField, "a")
	})
	require.NoError(t, err)

	for user, peer := range map[string]string{"a": "b", "b": "a"} {
		graph, err := repo.FindByUserID(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, []string{peer}, graph.Friends)
	}
}
