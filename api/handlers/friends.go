package handlers

import (
	"context"

	"socialcal/models"
	"socialcal/services"
)

func (d *Dispatcher) registerFriendOps() {
	d.protected(OpRequestFriend, typed(func(ctx context.Context, id *services.Identity, in nicknameArgs) (*services.FriendRequestResult, error) {
		return d.engine.Request(ctx, id, in.Nickname)
	}))
	d.protected(OpAcceptFriend, typed(func(ctx context.Context, id *services.Identity, in nicknameArgs) (*services.MutationResult, error) {
		return d.engine.Accept(ctx, id, in.Nickname)
	}))
	d.protected(OpDenyFriend, typed(func(ctx context.Context, id *services.Identity, in nicknameArgs) (*services.MutationResult, error) {
		return d.engine.Deny(ctx, id, in.Nickname)
	}))
	d.protected(OpRemoveFriend, typed(func(ctx context.Context, id *services.Identity, in nicknameArgs) (*services.MutationResult, error) {
		return d.engine.RemoveFriend(ctx, id, in.Nickname)
	}))
	d.protected(OpFriends, typed(func(ctx context.Context, id *services.Identity, _ noArgs) ([]services.PeerView, error) {
		return d.engine.ListFriends(ctx, id)
	}))
	d.protected(OpFriendRequests, typed(func(ctx context.Context, id *services.Identity, _ noArgs) ([]services.PeerView, error) {
		return d.engine.ListRequests(ctx, id)
	}))
	d.protected(OpFriendSchedule, typed(func(ctx context.Context, id *services.Identity, in nicknameArgs) ([]models.ScheduleEntry, error) {
		return d.engine.FriendSchedule(ctx, id, in.Nickname)
	}))
}
