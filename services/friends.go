package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialcal/models"

	"go.uber.org/zap"
)

// PeerView is the public side of a peer. Fields are nil when the peer's
// profile cannot be resolved.
type PeerView struct {
	Nickname     *string `json:"nickname"`
	ProfileImage *string `json:"profile_image"`
}

type FriendRequestResult struct {
	MutationResult
	AlreadyFriends bool `json:"already_friends"`
}

type graphWrite func(ctx context.Context, g FriendGraphStore) error

// graphStep makes exactly one store write, so a failed step has changed
// nothing and only the steps before it need undoing. A nil undo means the
// write did not change state worth restoring.
type graphStep struct {
	name string
	do   graphWrite
	undo graphWrite
}

// RelationshipEngine runs the friend request state machine. Per pair of users
// the states are none, requested (the target holds the requester in
// pending_requests) and friends (each holds the other in friends).
type RelationshipEngine struct {
	stores Stores
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

func NewRelationshipEngine(stores Stores, events EventPublisher, log *zap.Logger) *RelationshipEngine {
	if events == nil {
		events = NopPublisher{}
	}
	return &RelationshipEngine{stores: stores, events: events, log: log, now: time.Now}
}

// Request asks the user behind nickname to become the caller's friend.
// Asking twice is a no-op; asking an existing friend reports AlreadyFriends.
func (e *RelationshipEngine) Request(ctx context.Context, id *Identity, nickname string) (*FriendRequestResult, error) {
	target, err := e.resolveNickname(ctx, nickname, UserNotFound)
	if err != nil {
		return nil, err
	}
	if target.UserID == id.UserID {
		return nil, newError(SelfRequest, "cannot send a friend request to yourself")
	}
	if _, err = e.stores.Users.FindByID(ctx, target.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, newError(UserNotFound, "user not found")
		}
		return nil, storeFailure("find target user", err)
	}

	graph, err := e.graphOf(ctx, target.UserID, true)
	if err != nil {
		return nil, err
	}
	if graph.HasFriend(id.UserID) {
		return &FriendRequestResult{
			MutationResult: MutationResult{Success: true, Message: "You are already friends."},
			AlreadyFriends: true,
		}, nil
	}

	err = e.stores.Graphs.AddToSet(ctx, target.UserID, models.PendingRequestsField, id.UserID)
	if err != nil {
		return nil, storeFailure("add friend request", err)
	}
	e.publish(ctx, FriendRequested, id.UserID, target.UserID)
	return &FriendRequestResult{
		MutationResult: MutationResult{Success: true, Message: "Friend request sent."},
	}, nil
}

// Accept makes the caller and the requester behind nickname friends. Both
// graphs change together or not at all.
func (e *RelationshipEngine) Accept(ctx context.Context, id *Identity, nickname string) (*MutationResult, error) {
	requester, err := e.resolveNickname(ctx, nickname, TargetNotFound)
	if err != nil {
		return nil, err
	}
	if requester.UserID == id.UserID {
		return nil, newError(SelfRequest, "cannot accept your own request")
	}

	own, err := e.graphOf(ctx, id.UserID, true)
	if err != nil {
		return nil, err
	}
	if own.HasFriend(requester.UserID) && !own.HasRequest(requester.UserID) {
		return &MutationResult{Success: true, Message: "You are already friends."}, nil
	}
	if !own.HasRequest(requester.UserID) {
		return nil, newError(NotFound, "no pending friend request from this user")
	}
	theirs, err := e.graphOf(ctx, requester.UserID, true)
	if err != nil {
		return nil, err
	}

	acceptor, other := id.UserID, requester.UserID
	steps := []graphStep{
		{
			name: "acceptor_request",
			do: func(ctx context.Context, g FriendGraphStore) error {
				return g.RemoveFromSet(ctx, acceptor, models.PendingRequestsField, other)
			},
			undo: func(ctx context.Context, g FriendGraphStore) error {
				return g.AddToSet(ctx, acceptor, models.PendingRequestsField, other)
			},
		},
		{
			name: "acceptor_friend",
			do: func(ctx context.Context, g FriendGraphStore) error {
				return g.AddToSet(ctx, acceptor, models.FriendsField, other)
			},
			undo: unlessPresent(own.HasFriend(other), func(ctx context.Context, g FriendGraphStore) error {
				return g.RemoveFromSet(ctx, acceptor, models.FriendsField, other)
			}),
		},
		{
			name: "requester_friend",
			do: func(ctx context.Context, g FriendGraphStore) error {
				return g.AddToSet(ctx, other, models.FriendsField, acceptor)
			},
			undo: unlessPresent(theirs.HasFriend(acceptor), func(ctx context.Context, g FriendGraphStore) error {
				return g.RemoveFromSet(ctx, other, models.FriendsField, acceptor)
			}),
		},
		{
			name: "requester_request",
			do: func(ctx context.Context, g FriendGraphStore) error {
				return g.RemoveFromSet(ctx, other, models.PendingRequestsField, acceptor)
			},
			undo: onlyIfPresent(theirs.HasRequest(acceptor), func(ctx context.Context, g FriendGraphStore) error {
				return g.AddToSet(ctx, other, models.PendingRequestsField, acceptor)
			}),
		},
	}
	if err = e.applyAtomically(ctx, "accept_"+acceptor+"_"+other, steps); err != nil {
		return nil, storeFailure("accept friend request", err)
	}

	e.publish(ctx, FriendAccepted, acceptor, other)
	return &MutationResult{Success: true, Message: "Friend request accepted."}, nil
}

// Deny drops the request from nickname, if any. The requester's graph is untouched.
func (e *RelationshipEngine) Deny(ctx context.Context, id *Identity, nickname string) (*MutationResult, error) {
	requester, err := e.resolveNickname(ctx, nickname, TargetNotFound)
	if err != nil {
		return nil, err
	}
	own, err := e.graphOf(ctx, id.UserID, false)
	if err != nil {
		return nil, err
	}
	if own == nil || !own.HasRequest(requester.UserID) {
		return &MutationResult{Success: true, Message: "Friend request denied."}, nil
	}

	err = e.stores.Graphs.RemoveFromSet(ctx, id.UserID, models.PendingRequestsField, requester.UserID)
	if err != nil {
		return nil, storeFailure("deny friend request", err)
	}
	e.publish(ctx, FriendDenied, id.UserID, requester.UserID)
	return &MutationResult{Success: true, Message: "Friend request denied."}, nil
}

// RemoveFriend ends a friendship on both sides. Removing a non-friend succeeds.
func (e *RelationshipEngine) RemoveFriend(ctx context.Context, id *Identity, nickname string) (*MutationResult, error) {
	peer, err := e.resolveNickname(ctx, nickname, TargetNotFound)
	if err != nil {
		return nil, err
	}
	own, err := e.graphOf(ctx, id.UserID, false)
	if err != nil {
		return nil, err
	}
	if own == nil || !own.HasFriend(peer.UserID) {
		return &MutationResult{Success: true, Message: "You are not friends."}, nil
	}

	self, other := id.UserID, peer.UserID
	steps := []graphStep{
		{
			name: "self",
			do: func(ctx context.Context, g FriendGraphStore) error {
				return g.RemoveFromSet(ctx, self, models.FriendsField, other)
			},
			undo: func(ctx context.Context, g FriendGraphStore) error {
				return g.AddToSet(ctx, self, models.FriendsField, other)
			},
		},
		{
			name: "peer",
			do: func(ctx context.Context, g FriendGraphStore) error {
				return g.RemoveFromSet(ctx, other, models.FriendsField, self)
			},
			undo: func(ctx context.Context, g FriendGraphStore) error {
				return g.AddToSet(ctx, other, models.FriendsField, self)
			},
		},
	}
	if err = e.applyAtomically(ctx, "remove_"+self+"_"+other, steps); err != nil {
		return nil, storeFailure("remove friend", err)
	}

	e.publish(ctx, FriendRemoved, self, other)
	return &MutationResult{Success: true, Message: "Friend removed."}, nil
}

func (e *RelationshipEngine) ListFriends(ctx context.Context, id *Identity) ([]PeerView, error) {
	graph, err := e.graphOf(ctx, id.UserID, false)
	if err != nil {
		return nil, err
	}
	if graph == nil {
		return []PeerView{}, nil
	}
	return e.peerViews(ctx, graph.Friends), nil
}

func (e *RelationshipEngine) ListRequests(ctx context.Context, id *Identity) ([]PeerView, error) {
	graph, err := e.graphOf(ctx, id.UserID, false)
	if err != nil {
		return nil, err
	}
	if graph == nil {
		return []PeerView{}, nil
	}
	return e.peerViews(ctx, graph.PendingRequests), nil
}

// FriendSchedule returns a friend's whole schedule.
func (e *RelationshipEngine) FriendSchedule(ctx context.Context, id *Identity, nickname string) ([]models.ScheduleEntry, error) {
	peer, err := e.resolveNickname(ctx, nickname, NotFound)
	if err != nil {
		return nil, err
	}
	own, err := e.graphOf(ctx, id.UserID, false)
	if err != nil {
		return nil, err
	}
	if own == nil || !own.HasFriend(peer.UserID) {
		return nil, newError(NotFriends, "this user is not your friend")
	}

	schedule, err := e.stores.Schedules.FindByUserID(ctx, peer.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return []models.ScheduleEntry{}, nil
	}
	if err != nil {
		return nil, storeFailure("find friend schedule", err)
	}
	return schedule.Entries, nil
}

func (e *RelationshipEngine) resolveNickname(ctx context.Context, nickname string, miss Kind) (*models.Profile, error) {
	profile, err := e.stores.Profiles.FindByNickname(ctx, nickname)
	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, models.ErrNotFound):
		return nil, newError(miss, "no user with this nickname")
	case errors.Is(err, models.ErrAmbiguous):
		return nil, newError(AmbiguousNickname, "more than one user has this nickname")
	}
	return nil, storeFailure("find profile by nickname", err)
}

// graphOf loads a user's graph. With create set, a missing graph is created
// empty; otherwise a missing graph is returned as nil.
func (e *RelationshipEngine) graphOf(ctx context.Context, userID string, create bool) (*models.FriendGraph, error) {
	graph, err := e.stores.Graphs.FindByUserID(ctx, userID)
	if err == nil {
		return graph, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, storeFailure("find friend graph", err)
	}
	if !create {
		return nil, nil
	}
	if err = e.stores.Graphs.CreateEmpty(ctx, userID); err != nil {
		return nil, storeFailure("create friend graph", err)
	}
	return &models.FriendGraph{UserID: userID, Friends: []string{}, PendingRequests: []string{}}, nil
}

func (e *RelationshipEngine) peerViews(ctx context.Context, peerIDs []string) []PeerView {
	views := make([]PeerView, 0, len(peerIDs))
	for _, peerID := range peerIDs {
		profile, err := e.stores.Profiles.FindByUserID(ctx, peerID)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				e.log.Warn("peer profile lookup failed", zap.String("peer_id", peerID), zap.Error(err))
			}
			views = append(views, PeerView{})
			continue
		}
		nickname, image := profile.Nickname, profile.ProfileImage
		views = append(views, PeerView{Nickname: &nickname, ProfileImage: &image})
	}
	return views
}

// applyAtomically runs steps in one transaction when the graph store supports
// it, and as a compensating saga when it does not.
func (e *RelationshipEngine) applyAtomically(ctx context.Context, name string, steps []graphStep) error {
	if tg, ok := e.stores.Graphs.(TransactionalGraphStore); ok {
		return tg.WithinTx(ctx, func(tx FriendGraphStore) error {
			for _, step := range steps {
				if err := step.do(ctx, tx); err != nil {
					return fmt.Errorf("%s: %w", step.name, err)
				}
			}
			return nil
		})
	}

	s := newSaga(name, e.log)
	for _, step := range steps {
		step := step
		var undo func(ctx context.Context) error
		if step.undo != nil {
			undo = func(ctx context.Context) error { return step.undo(ctx, e.stores.Graphs) }
		}
		s.addStep(step.name, func(ctx context.Context) error { return step.do(ctx, e.stores.Graphs) }, undo)
	}
	return s.run(ctx)
}

// unlessPresent drops undo when the value the step adds was already there
// before the step ran.
func unlessPresent(present bool, undo graphWrite) graphWrite {
	if present {
		return nil
	}
	return undo
}

// onlyIfPresent keeps undo only when the value the step removes was there.
func onlyIfPresent(present bool, undo graphWrite) graphWrite {
	if !present {
		return nil
	}
	return undo
}

func (e *RelationshipEngine) publish(ctx context.Context, typ EventType, actorID, peerID string) {
	err := e.events.Publish(ctx, Event{Type: typ, ActorID: actorID, PeerID: peerID, OccurredAt: e.now()})
	if err != nil {
		e.log.Warn("event publish failed", zap.String("type", string(typ)), zap.Error(err))
	}
}
