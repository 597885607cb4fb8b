package service

import (
	"context"
	"encoding/json"
	"testing"

	"inkwell/internal/models"
)

func settingsWith(topic, basePrompt string) *SettingsService {
	repo := noopSettingsRepo()
	repo.getFn = func(_ context.Context, name string) (*models.SettingsDoc, error) {
		if name != models.SettingsGeneral {
			return nil, nil
		}
		general := models.DefaultGeneralSettings()
		general.Topic = topic
		general.BasePrompt = basePrompt
		data, err := json.Marshal(general)
		if err != nil {
			return nil, err
		}
		return &models.SettingsDoc{Name: name, Data: data}, nil
	}
	return NewSettingsService(repo)
}

func TestGenerationService_MissingTopicAndPrompt(t *testing.T) {
	t.Parallel()

	svc := NewGenerationService(nil, settingsWith("", ""))
	_, err := svc.Generate(context.Background(), GenerateInput{})
	assertValidationError(t, err)
}

func TestGenerationService_OverrideBeatsSettings(t *testing.T) {
	t.Parallel()

	// Settings carry a topic but no base prompt: an override must fill the
	// gap, and blank overrides must not erase configured values.
	svc := NewGenerationService(nil, settingsWith("swimming", ""))
	_, err := svc.Generate(context.Background(), GenerateInput{OverrideTopic: "   "})
	assertValidationError(t, err)
}
