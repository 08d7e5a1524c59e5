package db

import (
	"context"
	"testing"

	"socialcal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGormLogsGoToZap(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	orm := setupDBWithLogger(t, zap.New(core))
	ctx := context.Background()

	_, err := NewUserRepository(orm).FindByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, logs.FilterMessageSnippet("record not found").Len(), "misses are not logged")

	require.Error(t, orm.Exec("SELECT * FROM no_such_table").Error)
	failed := logs.FilterMessageSnippet("no_such_table").All()
	require.NotEmpty(t, failed)
	assert.Equal(t, "gorm", failed[0].LoggerName)
}
