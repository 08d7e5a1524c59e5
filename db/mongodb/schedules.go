package mongodb

import (
	"context"

	"socialcal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScheduleRepository embeds entries in the user's schedule document, so
// every change is a single-document update.
type ScheduleRepository struct {
	coll *mongo.Collection
}

func (r *ScheduleRepository) FindByUserID(ctx context.Context, userID string) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&schedule); err != nil {
		return nil, translate(err)
	}
	if schedule.Entries == nil {
		schedule.Entries = []models.ScheduleEntry{}
	}
	return &schedule, nil
}

func (r *ScheduleRepository) CreateEmpty(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$setOnInsert": bson.M{"entries": bson.A{}}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ScheduleRepository) AppendEntry(ctx context.Context, userID string, entry models.ScheduleEntry) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$push": bson.M{"entries": entry}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ScheduleRepository) ReplaceEntryByKey(ctx context.Context, userID string, entry models.ScheduleEntry) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "entries.key": entry.Key},
		bson.M{"$set": bson.M{"entries.$": entry}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *ScheduleRepository) RemoveEntryByKey(ctx context.Context, userID, key string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"entries": bson.M{"key": key}}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
