package services

import (
	"context"
	"errors"
	"time"

	"socialcal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stores groups the store boundary shared by the services.
type Stores struct {
	Users     CredentialStore
	Profiles  ProfileStore
	Schedules ScheduleStore
	Graphs    FriendGraphStore
}

// MutationResult is the {success, message} payload every mutation returns.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SignUpInput struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=128,password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type SignUpResult struct {
	MutationResult
	Code   Kind         `json:"code,omitempty"`
	UserID string       `json:"user_id,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

type SignInResult struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type EmailLookup struct {
	Email  string `json:"email"`
	Exists bool   `json:"exists"`
}

type ProfileView struct {
	Email        string        `json:"email"`
	Nickname     string        `json:"nickname"`
	PhoneNumber  string        `json:"phone_number"`
	Age          int           `json:"age"`
	Gender       models.Gender `json:"gender"`
	Address      string        `json:"address"`
	ProfileImage string        `json:"profile_image"`
}

// ProfileInput is a partial update: nil fields are left as they are.
type ProfileInput struct {
	Nickname     *string `json:"nickname" validate:"omitempty,min=2,max=60"`
	PhoneNumber  *string `json:"phone_number" validate:"omitempty,max=32"`
	Age          *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender       *string `json:"gender" validate:"omitempty,oneof=Male Female Hide"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,max=512"`
}

// dummyHash is checked when an email is unknown so sign-in takes the same
// time whether or not the account exists.
const dummyHash = "8e0d3b6c2f7a41d59b0c6e1f2a3b4c5d$" +
	"3f1c2a9b8d7e6f5a4b3c2d1e0f9a8b7c6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f1a"

type AccountService struct {
	stores  Stores
	tokens  *TokenService
	revoked RevocationList
	log     *zap.Logger
	now     func() time.Time
}

func NewAccountService(stores Stores, tokens *TokenService, revoked RevocationList, log *zap.Logger) *AccountService {
	return &AccountService{stores: stores, tokens: tokens, revoked: revoked, log: log, now: time.Now}
}

// SignUp creates the user with an empty profile, schedule and friend graph.
// Validation and duplicate email come back as a failed result, not an error.
func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	if err := validateStruct(in); err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			return &SignUpResult{
				MutationResult: MutationResult{Success: false, Message: "Please check the sign-up form."},
				Code:           ValidationError,
				Errors:         verrs,
			}, nil
		}
		return nil, err
	}

	duplicate := &SignUpResult{
		MutationResult: MutationResult{Success: false, Message: "This email is already registered."},
		Code:           DuplicateEmail,
	}
	_, err := s.stores.Users.FindByEmail(ctx, in.Email)
	if err == nil {
		return duplicate, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, storeFailure("find user by email", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     in.Email,
		Password:  hash,
		CreatedAt: s.now(),
	}
	if err = s.stores.Users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return duplicate, nil
		}
		return nil, storeFailure("create user", err)
	}

	profile := &models.Profile{UserID: user.ID, Gender: models.HIDE, UpdatedAt: s.now()}
	if err = s.stores.Profiles.Upsert(ctx, profile); err != nil {
		return nil, storeFailure("create profile", err)
	}
	if err = s.stores.Schedules.CreateEmpty(ctx, user.ID); err != nil {
		return nil, storeFailure("create schedule", err)
	}
	if err = s.stores.Graphs.CreateEmpty(ctx, user.ID); err != nil {
		return nil, storeFailure("create friend graph", err)
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID))
	return &SignUpResult{
		MutationResult: MutationResult{Success: true, Message: "Sign-up complete."},
		UserID:         user.ID,
	}, nil
}

// SignIn never tells an unknown email from a wrong password.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	invalid := newError(InvalidCredentials, "invalid email or password")

	user, err := s.stores.Users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		CheckPassword(password, dummyHash)
		return nil, invalid
	}
	if err != nil {
		return nil, storeFailure("find user by email", err)
	}
	if !CheckPassword(password, user.Password) {
		return nil, invalid
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}

	if err = ensureGraph(ctx, s.stores.Graphs, user.ID); err != nil {
		return nil, storeFailure("create friend graph", err)
	}

	s.log.Debug("user signed in", zap.String("user_id", user.ID))
	return &SignInResult{Token: token.Value, Email: user.Email, ExpiresAt: token.ExpiresAt}, nil
}

func (s *AccountService) CheckEmail(ctx context.Context, email string) (*EmailLookup, error) {
	_, err := s.stores.Users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return &EmailLookup{Email: email, Exists: true}, nil
	case errors.Is(err, models.ErrNotFound):
		return &EmailLookup{Email: email, Exists: false}, nil
	}
	return nil, storeFailure("find user by email", err)
}

// SignOut revokes the caller's token until it expires.
func (s *AccountService) SignOut(ctx context.Context, id *Identity) (*MutationResult, error) {
	if s.revoked != nil && id.TokenID != "" {
		if err := s.revoked.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
			return nil, storeFailure("revoke token", err)
		}
	}
	return &MutationResult{Success: true, Message: "Signed out."}, nil
}

func (s *AccountService) MyProfile(ctx context.Context, id *Identity) (*ProfileView, error) {
	profile, err := s.stores.Profiles.FindByUserID(ctx, id.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, newError(NotFound, "profile not found")
	}
	if err != nil {
		return nil, storeFailure("find profile", err)
	}
	return &ProfileView{
		Email:        id.Email,
		Nickname:     profile.Nickname,
		PhoneNumber:  profile.PhoneNumber,
		Age:          profile.Age,
		Gender:       profile.Gender,
		Address:      profile.Address,
		ProfileImage: profile.ProfileImage,
	}, nil
}

// UpdateProfile applies the non-nil fields of in. A nickname held by another
// user is rejected.
func (s *AccountService) UpdateProfile(ctx context.Context, id *Identity, in ProfileInput) (*MutationResult, error) {
	if err := validateStruct(in); err != nil {
		return nil, &Error{Kind: ValidationError, Message: "invalid profile", Err: err}
	}

	profile, err := s.stores.Profiles.FindByUserID(ctx, id.UserID)
	if errors.Is(err, models.ErrNotFound) {
		profile = &models.Profile{UserID: id.UserID, Gender: models.HIDE}
	} else if err != nil {
		return nil, storeFailure("find profile", err)
	}

	if in.Nickname != nil && *in.Nickname != profile.Nickname {
		taken, err := s.stores.Profiles.NicknameTaken(ctx, *in.Nickname, id.UserID)
		if err != nil {
			return nil, storeFailure("check nickname", err)
		}
		if taken {
			return nil, newError(DuplicateNickname, "nickname is already taken")
		}
		profile.Nickname = *in.Nickname
	}
	if in.PhoneNumber != nil {
		profile.PhoneNumber = *in.PhoneNumber
	}
	if in.Age != nil {
		profile.Age = *in.Age
	}
	if in.Gender != nil {
		profile.Gender = models.Gender(*in.Gender)
	}
	if in.Address != nil {
		profile.Address = *in.Address
	}
	if in.ProfileImage != nil {
		profile.ProfileImage = *in.ProfileImage
	}
	profile.UpdatedAt = s.now()

	if err = s.stores.Profiles.Upsert(ctx, profile); err != nil {
		return nil, storeFailure("update profile", err)
	}
	return &MutationResult{Success: true, Message: "Profile updated."}, nil
}

// ensureGraph creates an empty friend graph for accounts that predate it.
func ensureGraph(ctx context.Context, graphs FriendGraphStore, userID string) error {
	_, err := graphs.FindByUserID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return graphs.CreateEmpty(ctx, userID)
	}
	return err
}
