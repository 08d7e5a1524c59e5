package handlers

import (
	"context"

	"socialcal/services"
)

func (d *Dispatcher) registerProfileOps() {
	d.protected(OpMyProfile, typed(func(ctx context.Context, id *services.Identity, _ noArgs) (*services.ProfileView, error) {
		return d.accounts.MyProfile(ctx, id)
	}))
	d.protected(OpUpdateProfile, typed(func(ctx context.Context, id *services.Identity, in services.ProfileInput) (*services.MutationResult, error) {
		return d.accounts.UpdateProfile(ctx, id, in)
	}))
}
