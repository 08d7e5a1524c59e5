package handlers

import (
	"context"

	"socialcal/services"
)

type SignInArgs struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmailArgs struct {
	Email string `json:"email"`
}

func (d *Dispatcher) registerAccountOps() {
	d.public(OpSignUp, typed(func(ctx context.Context, _ *services.Identity, in services.SignUpInput) (*services.SignUpResult, error) {
		return d.accounts.SignUp(ctx, in)
	}))
	d.public(OpSignIn, typed(func(ctx context.Context, _ *services.Identity, in SignInArgs) (*services.SignInResult, error) {
		return d.accounts.SignIn(ctx, in.Email, in.Password)
	}))
	d.public(OpCheckEmail, typed(func(ctx context.Context, _ *services.Identity, in EmailArgs) (*services.EmailLookup, error) {
		return d.accounts.CheckEmail(ctx, in.Email)
	}))
	d.protected(OpSignOut, typed(func(ctx context.Context, id *services.Identity, _ noArgs) (*services.MutationResult, error) {
		return d.accounts.SignOut(ctx, id)
	}))
}
