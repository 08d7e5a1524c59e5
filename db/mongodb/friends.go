package mongodb

import (
	"context"
	"fmt"

	"socialcal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FriendGraphRepository does not implement services.TransactionalGraphStore:
// standalone servers have no multi-document transactions.
type FriendGraphRepository struct {
	coll *mongo.Collection
}

func (r *FriendGraphRepository) FindByUserID(ctx context.Context, userID string) (*models.FriendGraph, error) {
	var graph models.FriendGraph
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&graph); err != nil {
		return nil, translate(err)
	}
	if graph.Friends == nil {
		graph.Friends = []string{}
	}
	if graph.PendingRequests == nil {
		graph.PendingRequests = []string{}
	}
	return &graph, nil
}

func (r *FriendGraphRepository) CreateEmpty(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$setOnInsert": bson.M{
			string(models.FriendsField):         bson.A{},
			string(models.PendingRequestsField): bson.A{},
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *FriendGraphRepository) AddToSet(ctx context.Context, userID string, field models.GraphField, peerID string) error {
	if !field.Valid() {
		return fmt.Errorf("unknown graph field %q", field)
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$addToSet": bson.M{string(field): peerID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *FriendGraphRepository) RemoveFromSet(ctx context.Context, userID string, field models.GraphField, peerID string) error {
	if !field.Valid() {
		return fmt.Errorf("unknown graph field %q", field)
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{string(field): peerID}})
	return err
}
