package db

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupDBWithLogger(t, zap.NewNop())
}

func setupDBWithLogger(t *testing.T, log *zap.Logger) *gorm.DB {
	t.Helper()
	orm, err := OpenSQLite(":memory:", log)
	require.NoError(t, err)
	require.NoError(t, Migrate(orm))
	t.Cleanup(func() {
		if sqlDB, err := orm.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return orm
}
