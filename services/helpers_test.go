package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"socialcal/db"
	"socialcal/services"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (m *memRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = until
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []services.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event services.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []services.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]services.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	orm       *gorm.DB
	stores    services.Stores
	tokens    *services.TokenService
	authz     *services.Authorizer
	accounts  *services.AccountService
	engine    *services.RelationshipEngine
	schedules *services.ScheduleService
	revoked   *memRevocations
	events    *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	orm, err := db.OpenSQLite(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(orm))
	t.Cleanup(func() {
		if sqlDB, err := orm.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	stores := services.Stores{
		Users:     db.NewUserRepository(orm),
		Profiles:  db.NewProfileRepository(orm),
		Schedules: db.NewScheduleRepository(orm),
		Graphs:    db.NewFriendGraphRepository(orm),
	}
	return buildEnv(t, orm, stores)
}

func buildEnv(t *testing.T, orm *gorm.DB, stores services.Stores) *testEnv {
	t.Helper()
	log := zap.NewNop()
	tokens, err := services.NewTokenService(services.TokenConfig{
		Secret: []byte("test-secret"),
		Issuer: "socialcal-test",
		TTL:    24 * time.Hour,
	})
	require.NoError(t, err)

	revoked := &memRevocations{revoked: map[string]time.Time{}}
	events := &recordingPublisher{}
	return &testEnv{
		orm:       orm,
		stores:    stores,
		tokens:    tokens,
		authz:     services.NewAuthorizer(tokens, stores.Users, revoked, log),
		accounts:  services.NewAccountService(stores, tokens, revoked, log),
		engine:    services.NewRelationshipEngine(stores, events, log),
		schedules: services.NewScheduleService(stores.Schedules, log),
		revoked:   revoked,
		events:    events,
	}
}

type account struct {
	email    string
	nickname string
	token    string
	id       *services.Identity
}

// signUp registers a user, signs in, resolves the token and sets a nickname.
func (e *testEnv) signUp(t *testing.T, email, nickname string) *account {
	t.Helper()
	ctx := context.Background()
	res, err := e.accounts.SignUp(ctx, services.SignUpInput{
		Email: email, Password: "Abc123", ConfirmPassword: "Abc123",
	})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	signIn, err := e.accounts.SignIn(ctx, email, "Abc123")
	require.NoError(t, err)

	id, err := e.authz.Authenticate(ctx, "Bearer "+signIn.Token)
	require.NoError(t, err)

	if nickname != "" {
		_, err = e.accounts.UpdateProfile(ctx, id, services.ProfileInput{Nickname: &nickname})
		require.NoError(t, err)
	}
	return &account{email: email, nickname: nickname, token: signIn.Token, id: id}
}

func (e *testEnv) randomAccount(t *testing.T) *account {
	t.Helper()
	return e.signUp(t, gofakeit.Email(), fmt.Sprintf("%s_%s", gofakeit.Username(), gofakeit.Numerify("####")))
}

func requireKind(t *testing.T, want services.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, services.KindOf(err), "error: %v", err)
}
