package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/shop-booking/internal/models"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "legacy.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	require.NoError(t, gdb.AutoMigrate(&LegacyTimeSlot{}))
	return gdb
}

func TestImportLegacySlotsIgnoresStorageYear(t *testing.T) {
	gdb := openSQLite(t)

	sgt := time.FixedZone("SGT", 8*3600)
	end := time.Date(2000, 1, 1, 11, 0, 0, 0, time.UTC)
	rows := []LegacyTimeSlot{
		// 09:30 UTC anchored in 1970, read back through a +08:00 session
		{ShopID: 1, Weekday: 2, StartTime: time.Date(1970, 1, 1, 9, 30, 0, 0, time.UTC).In(sgt)},
		// the same time of day anchored in 2000
		{ShopID: 1, Weekday: 3, StartTime: time.Date(2000, 1, 1, 9, 30, 0, 0, time.UTC), EndTime: &end},
	}
	require.NoError(t, gdb.Create(&rows).Error)

	n, err := ImportLegacySlots(gdb)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var slots []models.TimeSlot
	require.NoError(t, gdb.Order("weekday").Find(&slots).Error)
	require.Len(t, slots, 2)
	assert.Equal(t, 570, slots[0].StartMinute)
	assert.Equal(t, 570, slots[1].StartMinute)
	assert.Nil(t, slots[0].EndMinute)
	require.NotNil(t, slots[1].EndMinute)
	assert.Equal(t, 660, *slots[1].EndMinute)

	again, err := ImportLegacySlots(gdb)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestImportLegacySlotsWithoutTable(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "empty.db")), &gorm.Config{})
	require.NoError(t, err)

	n, err := ImportLegacySlots(gdb)
	require.NoError(t, err)
	assert.Zero(t, n)
}
