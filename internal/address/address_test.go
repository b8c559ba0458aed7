package address

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Address{}))
	return db
}

func TestEmpty(t *testing.T) {
	assert.True(t, (&Address{}).Empty())
	assert.True(t, (&Address{Latitude: floatPtr(48.2)}).Empty())
	assert.False(t, (&Address{City: "Lisbon"}).Empty())
	assert.False(t, (&Address{Line2: "Apt 4"}).Empty())
}

func TestFreeText(t *testing.T) {
	addr := &Address{
		Line1:      "Rua das Flores 12",
		City:       "Porto",
		PostalCode: "4000-123",
		Country:    "Portugal",
	}
	assert.Equal(t, "Rua das Flores 12, Porto, 4000-123, Portugal", addr.FreeText())

	assert.Equal(t, "", (&Address{}).FreeText())
	assert.Equal(t, "Porto", (&Address{City: "Porto"}).FreeText())
}

func floatPtr(f float64) *float64 { return &f }

func TestUpsert_SecondCallOverwrites(t *testing.T) {
	db := newTestDB(t)

	first := &Address{
		EntityType: EntityClinic,
		EntityID:   7,
		Line1:      "Rua das Flores 12",
		City:       "Porto",
	}
	require.NoError(t, Upsert(db, first))

	second := &Address{
		EntityType: EntityClinic,
		EntityID:   7,
		Line1:      "Avenida dos Aliados 1",
		City:       "Porto",
		PostalCode: "4000-064",
		Latitude:   floatPtr(41.15),
		Longitude:  floatPtr(-8.61),
	}
	require.NoError(t, Upsert(db, second))

	var count int64
	require.NoError(t, db.Model(&Address{}).
		Where("entity_type = ? AND entity_id = ?", EntityClinic, 7).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := GetPrimary(db, EntityClinic, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Avenida dos Aliados 1", got.Line1)
	assert.Equal(t, "4000-064", got.PostalCode)
	require.NotNil(t, got.Latitude)
	assert.Equal(t, 41.15, *got.Latitude)
	assert.True(t, got.IsPrimary)
}

func TestUpsert_DistinctOwnersKeepDistinctRows(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Upsert(db, &Address{EntityType: EntityClinic, EntityID: 1, City: "Porto"}))
	require.NoError(t, Upsert(db, &Address{EntityType: EntityDoctor, EntityID: 1, City: "Braga"}))
	require.NoError(t, Upsert(db, &Address{EntityType: EntityClinic, EntityID: 2, City: "Lisbon"}))

	var count int64
	require.NoError(t, db.Model(&Address{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	got, err := GetPrimary(db, EntityDoctor, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Braga", got.City)
}

func TestGetPrimary_Missing(t *testing.T) {
	db := newTestDB(t)

	got, err := GetPrimary(db, EntityPatient, 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}
