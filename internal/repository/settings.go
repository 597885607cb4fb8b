package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository persists the singleton settings documents as raw JSON.
// Typed access and defaulting live in the settings service, not here.
type SettingsRepository interface {
	// Get returns (nil, nil) when the document has never been written.
	Get(ctx context.Context, name string) (*models.SettingsDoc, error)
	Upsert(ctx context.Context, name string, data []byte) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, name string) (*models.SettingsDoc, error) {
	var doc models.SettingsDoc
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, name string, data []byte) error {
	doc := models.SettingsDoc{Name: name, Data: data}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
	if err == nil {
		cache.InvalidateSettings(ctx, name)
	}
	return err
}
