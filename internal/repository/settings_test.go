package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepository_GetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)

	doc, err := repo.Get(context.Background(), models.SettingsGeneral)
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestSettingsRepository_UpsertOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.SettingsGeneral, []byte(`{"blogTitle":"First"}`)))
	require.NoError(t, repo.Upsert(ctx, models.SettingsGeneral, []byte(`{"blogTitle":"Second"}`)))

	doc, err := repo.Get(ctx, models.SettingsGeneral)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.JSONEq(t, `{"blogTitle":"Second"}`, string(doc.Data))

	var count int64
	require.NoError(t, db.Model(&models.SettingsDoc{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettingsRepository_NamesIsolated(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.SettingsGeneral, []byte(`{"blogTitle":"Blog"}`)))
	require.NoError(t, repo.Upsert(ctx, models.SettingsSEO, []byte(`{"metaTitle":"SEO"}`)))

	seo, err := repo.Get(ctx, models.SettingsSEO)
	require.NoError(t, err)
	require.NotNil(t, seo)
	assert.JSONEq(t, `{"metaTitle":"SEO"}`, string(seo.Data))
}
