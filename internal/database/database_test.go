package database_test

import (
	"testing"

	"fitness/internal/config"
	"fitness/internal/database"
	"fitness/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigratesModels(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DatabaseDSN: "file:database_test?mode=memory&cache=shared"}

	db, err := database.Open(cfg, &models.User{}, &models.Activity{}, &models.Recommendation{})
	require.NoError(t, err)
	require.NotNil(t, db)

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Activity{}))
	assert.True(t, db.Migrator().HasTable(&models.Recommendation{}))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Email"))
}

func TestOpen_MemoryDriverHasNoDatabase(t *testing.T) {
	db, err := database.Open(&config.Config{DBDriver: "memory"})
	assert.NoError(t, err)
	assert.Nil(t, db)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open(&config.Config{DBDriver: "mongo"})
	assert.Error(t, err)
}
