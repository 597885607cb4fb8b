package service

import (
	"context"
	"encoding/json"
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// SettingsService is the typed boundary over the singleton settings
// documents. Defaulting happens here, once: readers always get a fully
// populated struct, and unknown stored fields are ignored on read.
type SettingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) GetGeneral(ctx context.Context) (models.GeneralSettings, error) {
	out := models.DefaultGeneralSettings()
	err := s.get(ctx, models.SettingsGeneral, &out)
	return out, err
}

func (s *SettingsService) SetGeneral(ctx context.Context, in models.GeneralSettings) error {
	return s.set(ctx, models.SettingsGeneral, in)
}

func (s *SettingsService) GetAppearance(ctx context.Context) (models.AppearanceSettings, error) {
	out := models.DefaultAppearanceSettings()
	err := s.get(ctx, models.SettingsAppearance, &out)
	return out, err
}

func (s *SettingsService) SetAppearance(ctx context.Context, in models.AppearanceSettings) error {
	return s.set(ctx, models.SettingsAppearance, in)
}

func (s *SettingsService) GetSEO(ctx context.Context) (models.SEOSettings, error) {
	out := models.DefaultSEOSettings()
	err := s.get(ctx, models.SettingsSEO, &out)
	return out, err
}

func (s *SettingsService) SetSEO(ctx context.Context, in models.SEOSettings) error {
	return s.set(ctx, models.SettingsSEO, in)
}

// get unmarshals the stored document over dest, which arrives prefilled with
// defaults; a never-written document leaves the defaults untouched.
func (s *SettingsService) get(ctx context.Context, name string, dest interface{}) error {
	var raw []byte
	err := cache.Aside(ctx, cache.SettingsKey(name), &raw, cache.SettingsTTL, func() error {
		doc, err := s.repo.Get(ctx, name)
		if err != nil {
			return err
		}
		if doc != nil {
			raw = doc.Data
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding %s settings: %w", name, err)
	}
	return nil
}

func (s *SettingsService) set(ctx context.Context, name string, in interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding %s settings: %w", name, err)
	}
	return s.repo.Upsert(ctx, name, data)
}
