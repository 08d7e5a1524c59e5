package db

import (
	"context"

	"socialcal/models"
	"socialcal/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendGraphRepository stores each set member as one row; the unique index
// on (user_id, field, peer_id) gives set semantics.
type FriendGraphRepository struct {
	orm *gorm.DB
}

func NewFriendGraphRepository(orm *gorm.DB) *FriendGraphRepository {
	return &FriendGraphRepository{orm: orm}
}

func (r *FriendGraphRepository) FindByUserID(ctx context.Context, userID string) (*models.FriendGraph, error) {
	var record models.FriendGraphRecord
	err := readDB(ctx, r.orm).Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		return nil, translate(err)
	}

	var members []models.FriendGraphMember
	err = readDB(ctx, r.orm).Where("user_id = ?", userID).Order("id").Find(&members).Error
	if err != nil {
		return nil, err
	}

	graph := &models.FriendGraph{
		UserID:          userID,
		Friends:         []string{},
		PendingRequests: []string{},
	}
	for _, m := range members {
		switch m.Field {
		case models.FriendsField:
			graph.Friends = append(graph.Friends, m.PeerID)
		case models.PendingRequestsField:
			graph.PendingRequests = append(graph.PendingRequests, m.PeerID)
		}
	}
	return graph, nil
}

func (r *FriendGraphRepository) CreateEmpty(ctx context.Context, userID string) error {
	return writeDB(ctx, r.orm).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.FriendGraphRecord{UserID: userID}).Error
}

func (r *FriendGraphRepository) AddToSet(ctx context.Context, userID string, field models.GraphField, peerID string) error {
	var count int64
	err := writeDB(ctx, r.orm).Model(&models.FriendGraphRecord{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return models.ErrNotFound
	}
	return writeDB(ctx, r.orm).Clauses(clause.OnConflict{DoNothing: true}).Create(&models.FriendGraphMember{
		UserID: userID,
		Field:  field,
		PeerID: peerID,
	}).Error
}

func (r *FriendGraphRepository) RemoveFromSet(ctx context.Context, userID string, field models.GraphField, peerID string) error {
	return writeDB(ctx, r.orm).
		Where("user_id = ? AND field = ? AND peer_id = ?", userID, field, peerID).
		Delete(&models.FriendGraphMember{}).Error
}

// WithinTx runs fn against a repository bound to one database transaction.
func (r *FriendGraphRepository) WithinTx(ctx context.Context, fn func(tx services.FriendGraphStore) error) error {
	return r.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&FriendGraphRepository{orm: tx})
	})
}
