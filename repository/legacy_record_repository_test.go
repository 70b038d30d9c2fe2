package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/legacymappings/database"
	"github.com/camden-git/legacymappings/legacy"
)

func newTestRepository(t *testing.T) LegacyRecordRepositoryInterface {
	t.Helper()
	silent := logger.Default.LogMode(logger.Silent)

	registry := database.NewRegistry(nil, silent)
	require.NoError(t, database.RegisterModels(registry, nil))

	db, err := database.InitGormDB("file:"+t.Name()+"?mode=memory&cache=shared", registry, silent)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo, err := NewGormLegacyRecordRepository(db, registry)
	require.NoError(t, err)
	return repo
}

func TestCreateWithAliasAttributes(t *testing.T) {
	repo := newTestRepository(t)

	rec, err := repo.Create(map[string]interface{}{
		"railsy_named_attribute": "hello",
		"created_on":             float64(1230768000),
		"legacy_c":               "note",
	})
	require.NoError(t, err)
	require.NotZero(t, rec.ID)
	assert.Equal(t, "hello", rec.LegacyA)
	require.NotNil(t, rec.LegacyB)
	assert.Equal(t, int64(1230768000), *rec.LegacyB)
	require.NotNil(t, rec.LegacyC)
	assert.Equal(t, "note", *rec.LegacyC)

	loaded, err := repo.GetByID(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestCreateRejectsPrimaryKeyAndUnknown(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Create(map[string]interface{}{"id": 5})
	assert.ErrorIs(t, err, ErrPrimaryKeyAssignment)

	_, err = repo.Create(map[string]interface{}{"nonexistent": 5})
	assert.ErrorIs(t, err, legacy.ErrUnknownAttribute)
}

func TestFindWithAliasConditions(t *testing.T) {
	repo := newTestRepository(t)
	for _, name := range []string{"a", "b", "a"} {
		_, err := repo.Create(map[string]interface{}{"railsy_named_attribute": name})
		require.NoError(t, err)
	}

	recs, err := repo.Find(legacy.Hash{"railsy_named_attribute": "a"})
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = repo.Find(legacy.Hash{"railsy_named_attribute": "a"}, []interface{}{"id > ?", recs[0].ID})
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	recs, err = repo.Find()
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestUpdateAttributesAndDelete(t *testing.T) {
	repo := newTestRepository(t)
	rec, err := repo.Create(map[string]interface{}{"railsy_named_attribute": "before"})
	require.NoError(t, err)

	updated, err := repo.UpdateAttributes(rec.ID, map[string]interface{}{"railsy_named_attribute": "after", "created_on": 7})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.LegacyA)
	require.NotNil(t, updated.LegacyB)
	assert.Equal(t, int64(7), *updated.LegacyB)

	_, err = repo.UpdateAttributes(rec.ID+100, map[string]interface{}{"railsy_named_attribute": "x"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(rec.ID))
	assert.ErrorIs(t, repo.Delete(rec.ID), gorm.ErrRecordNotFound)

	_, err = repo.GetByID(rec.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAttributesUsePublicNames(t *testing.T) {
	repo := newTestRepository(t)
	rec, err := repo.Create(map[string]interface{}{"railsy_named_attribute": "x"})
	require.NoError(t, err)

	attrs, err := repo.Attributes(rec)
	require.NoError(t, err)
	assert.Equal(t, "x", attrs["railsy_named_attribute"])
	assert.Equal(t, rec.ID, attrs["id"])
	for _, name := range repo.Model().Resolver.PublicColumnNames() {
		assert.Contains(t, attrs, name)
	}
}
