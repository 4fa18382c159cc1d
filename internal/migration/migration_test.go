package migration

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lyrastream/songlake/internal/config"
	"github.com/lyrastream/songlake/internal/star"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func testConfig(reset bool) config.Config {
	return config.Config{DBType: "sqlite", ResetTables: reset}
}

func starTables() []string {
	return []string{
		star.Artist{}.TableName(),
		star.Song{}.TableName(),
		star.User{}.TableName(),
		star.TimeRecord{}.TableName(),
		star.SongPlay{}.TableName(),
	}
}

func TestRun_CreatesAllTables(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Run(db, testConfig(false)))

	for _, table := range starTables() {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestRun_WithoutResetPreservesRows(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Run(db, testConfig(false)))
	require.NoError(t, db.Create(&star.User{UserID: "42", Level: star.LevelPaid}).Error)

	require.NoError(t, Run(db, testConfig(false)))

	var count int64
	require.NoError(t, db.Model(&star.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRun_WithResetDropsAndRecreates(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Run(db, testConfig(false)))
	require.NoError(t, db.Create(&star.User{UserID: "42", Level: star.LevelPaid}).Error)

	require.NoError(t, Run(db, testConfig(true)))

	for _, table := range starTables() {
		require.True(t, db.Migrator().HasTable(table), table)
	}
	var count int64
	require.NoError(t, db.Model(&star.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRun_ResetOnMissingTablesIsNotAnError(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, Run(db, testConfig(true)))
}

func TestRun_NilDB(t *testing.T) {
	assert.Error(t, Run(nil, testConfig(false)))
}
