package services

import (
	"context"

	"socialcal/models"
)

// Store implementations return models.ErrNotFound, models.ErrDuplicate and
// models.ErrAmbiguous so callers can tell lookup misses from store failures.

type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type ProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// FindByNickname fails with models.ErrAmbiguous when two profiles share
	// the nickname.
	FindByNickname(ctx context.Context, nickname string) (*models.Profile, error)
	NicknameTaken(ctx context.Context, nickname, exceptUserID string) (bool, error)
	Upsert(ctx context.Context, profile *models.Profile) error
}

// ScheduleStore keeps one ordered entry list per user. Replace and Remove
// report whether an entry with the key was found.
type ScheduleStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.Schedule, error)
	CreateEmpty(ctx context.Context, userID string) error
	AppendEntry(ctx context.Context, userID string, entry models.ScheduleEntry) error
	ReplaceEntryByKey(ctx context.Context, userID string, entry models.ScheduleEntry) (bool, error)
	RemoveEntryByKey(ctx context.Context, userID, key string) (bool, error)
}

// FriendGraphStore mutates the two peer sets of a user's friend graph.
// AddToSet and RemoveFromSet are idempotent; AddToSet fails with
// models.ErrNotFound when the user has no graph.
type FriendGraphStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.FriendGraph, error)
	CreateEmpty(ctx context.Context, userID string) error
	AddToSet(ctx context.Context, userID string, field models.GraphField, peerID string) error
	RemoveFromSet(ctx context.Context, userID string, field models.GraphField, peerID string) error
}

// TransactionalGraphStore is implemented by stores that can apply several
// set updates atomically.
type TransactionalGraphStore interface {
	FriendGraphStore
	WithinTx(ctx context.Context, fn func(tx FriendGraphStore) error) error
}
