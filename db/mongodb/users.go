package mongodb

import (
	"context"
	"errors"

	"socialcal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	coll *mongo.Collection
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	return translate(err)
}

type ProfileRepository struct {
	coll *mongo.Collection
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile); err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByNickname(ctx context.Context, nickname string) (*models.Profile, error) {
	if nickname == "" {
		return nil, models.ErrNotFound
	}
	cur, err := r.coll.Find(ctx, bson.M{"nickname": nickname}, options.Find().SetLimit(2))
	if err != nil {
		return nil, err
	}
	var profiles []models.Profile
	if err = cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	switch len(profiles) {
	case 0:
		return nil, models.ErrNotFound
	case 1:
		return &profiles[0], nil
	}
	return nil, models.ErrAmbiguous
}

func (r *ProfileRepository) NicknameTaken(ctx context.Context, nickname, exceptUserID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"nickname": nickname,
		"_id":      bson.M{"$ne": exceptUserID},
	}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if profile.UserID == "" {
		return errors.New("profile has no user id")
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": profile.UserID}, profile, options.Replace().SetUpsert(true))
	return translate(err)
}
