package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobooking/internal/domain"
)

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgresDSN("postgresql://u:p@localhost/db"))
	assert.False(t, IsPostgresDSN("studiobooking.db"))
	assert.False(t, IsPostgresDSN("file::memory:"))
}

func TestConnectSQLiteAndMigrate(t *testing.T) {
	dsn := fmt.Sprintf("file:database_test_%s?mode=memory&cache=shared", t.Name())
	db, err := Connect(dsn)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, Migrate(db))
	for _, model := range domain.Models() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.True(t, db.Migrator().HasTable("studio_packages"))
}
