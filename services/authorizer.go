package services

import (
	"context"
	"errors"
	"time"

	"socialcal/models"

	"go.uber.org/zap"
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Authorizer turns an Authorization header into an Identity. It is the gate
// in front of every operation except sign-up, sign-in and email lookup.
type Authorizer struct {
	tokens  *TokenService
	users   CredentialStore
	revoked RevocationList
	log     *zap.Logger
}

// NewAuthorizer builds the gate. revoked may be nil, then sign-out does not
// invalidate tokens.
func NewAuthorizer(tokens *TokenService, users CredentialStore, revoked RevocationList, log *zap.Logger) *Authorizer {
	return &Authorizer{tokens: tokens, users: users, revoked: revoked, log: log}
}

func (a *Authorizer) Authenticate(ctx context.Context, header string) (*Identity, error) {
	if header == "" {
		return nil, newError(Unauthenticated, "authorization header required")
	}
	raw, ok := BearerToken(header)
	if !ok {
		return nil, newError(InvalidToken, "authorization header must be 'Bearer <token>'")
	}
	claims, err := a.tokens.Verify(raw)
	if err != nil {
		a.log.Debug("token rejected", zap.Error(err))
		return nil, &Error{Kind: InvalidToken, Message: "token verification failed", Err: err}
	}

	if a.revoked != nil && claims.ID != "" {
		revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, storeFailure("check token revocation", err)
		}
		if revoked {
			return nil, newError(InvalidToken, "token has been revoked")
		}
	}

	user, err := a.users.FindByEmail(ctx, claims.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, newError(UserNotFound, "token owner no longer exists")
	}
	if err != nil {
		return nil, storeFailure("find token owner", err)
	}

	id := &Identity{UserID: user.ID, Email: user.Email, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
