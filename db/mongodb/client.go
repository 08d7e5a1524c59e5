// Package mongodb keeps users, profiles, schedules and friend graphs as one
// document per user.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialcal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection        = "users"
	profilesCollection     = "profiles"
	schedulesCollection    = "schedules"
	friendGraphsCollection = "friend_graphs"
)

type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, pings the primary and makes sure indexes exist.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	c := &Client{client: client, db: client.Database(database)}
	if err = c.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return c, nil
}

func (c *Client) ensureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}
	_, err = c.db.Collection(profilesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "nickname", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create profiles.nickname index: %w", err)
	}
	return nil
}

func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *Client) Users() *UserRepository {
	return &UserRepository{coll: c.db.Collection(usersCollection)}
}

func (c *Client) Profiles() *ProfileRepository {
	return &ProfileRepository{coll: c.db.Collection(profilesCollection)}
}

func (c *Client) Schedules() *ScheduleRepository {
	return &ScheduleRepository{coll: c.db.Collection(schedulesCollection)}
}

func (c *Client) FriendGraphs() *FriendGraphRepository {
	return &FriendGraphRepository{coll: c.db.Collection(friendGraphsCollection)}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return models.ErrDuplicate
	}
	return err
}
