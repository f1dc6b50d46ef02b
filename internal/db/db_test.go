package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floradmin/internal/model"
)

func TestNewSQLite_MigrateAndReset(t *testing.T) {
	gormDB, err := NewSQLite("file:dbtest?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, Migrate(gormDB))
	for _, table := range []interface{}{&model.Store{}, &model.Category{}, &model.Product{}, &model.User{}} {
		assert.True(t, gormDB.Migrator().HasTable(table))
	}

	require.NoError(t, Reset(gormDB))
	assert.False(t, gormDB.Migrator().HasTable(&model.Product{}))
	assert.False(t, gormDB.Migrator().HasTable(&model.Store{}))
}

func TestNewMySQL_InvalidDSN(t *testing.T) {
	_, err := NewMySQL("not-a-dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect mysql")
}
