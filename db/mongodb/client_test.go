package mongodb

import (
	"context"
	"errors"
	"testing"

	"socialcal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConnectRejectsBadURI(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://localhost:5432", "socialcal")
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), models.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translate(dup), models.ErrDuplicate)

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
}
