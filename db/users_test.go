package db

import (
	"context"
	"testing"

	"socialcal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	orm := setupDB(t)
	repo := NewUserRepository(orm)
	ctx := context.Background()

	user := &models.User{ID: uuid.NewString(), Email: gofakeit.Email(), Password: "salt$hash"}
	require.NoError(t, repo.Create(ctx, user))

	byEmail, err := repo.FindByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	err = repo.Create(ctx, &models.User{ID: uuid.NewString(), Email: user.Email})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProfileNicknameLookup(t *testing.T) {
	orm := setupDB(t)
	repo := NewProfileRepository(orm)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.Profile{UserID: "u1", Nickname: "solo", Gender: models.HIDE}))
	require.NoError(t, repo.Upsert(ctx, &models.Profile{UserID: "u2", Gender: models.HIDE}))

	found, err := repo.FindByNickname(ctx, "solo")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UserID)

	_, err = repo.FindByNickname(ctx, "")
	assert.ErrorIs(t, err, models.ErrNotFound, "empty nickname never matches")

	_, err = repo.FindByNickname(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &models.Profile{UserID: "u3", Nickname: "solo", Gender: models.HIDE}))
	_, err = repo.FindByNickname(ctx, "solo")
	assert.ErrorIs(t, err, models.ErrAmbiguous)

	taken, err := repo.NicknameTaken(ctx, "solo", "u1")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.NicknameTaken(ctx, "free", "u1")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestProfileUpsertReplaces(t *testing.T) {
	orm := setupDB(t)
	repo := NewProfileRepository(orm)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.Profile{UserID: "u1", Nickname: "before", Age: 20, Gender: models.HIDE}))
	require.NoError(t, repo.Upsert(ctx, &models.Profile{UserID: "u1", Nickname: "after", Age: 21, Gender: models.FEMALE}))

	profile, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "after", profile.Nickname)
	assert.Equal(t, 21, profile.Age)
	assert.Equal(t, models.FEMALE, profile.Gender)

	assert.Error(t, repo.Upsert(ctx, &models.Profile{}))
}

func TestMigrateIsIdempotentAndBackfills(t *testing.T) {
	orm := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(orm)
	graphs := NewFriendGraphRepository(orm)

	user := &models.User{ID: uuid.NewString(), Email: gofakeit.Email()}
	require.NoError(t, users.Create(ctx, user))
	_, err := graphs.FindByUserID(ctx, user.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, Migrate(orm))
	_, err = graphs.FindByUserID(ctx, user.ID)
	require.ErrorIs(t, err, models.ErrNotFound, "applied migrations do not rerun")

	require.NoError(t, orm.Where("name = ?", "004_backfill_friend_graphs").Delete(&models.Migration{}).Error)
	require.NoError(t, Migrate(orm))

	graph, err := graphs.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, graph.Friends)
	assert.Empty(t, graph.PendingRequests)

	var count int64
	require.NoError(t, orm.Model(&models.Migration{}).Count(&count).Error)
	assert.Equal(t, int64(len(migrations)), count)
}
