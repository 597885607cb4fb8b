package service

import (
	"context"
	"strings"

	"inkwell/internal/generator"
	"inkwell/internal/models"
)

// GenerationService resolves the topic and base prompt from the general
// settings (with optional per-request overrides) and runs the workflow.
type GenerationService struct {
	workflow *generator.Workflow
	settings *SettingsService
}

type GenerateInput struct {
	OverrideTopic  string
	OverridePrompt string
}

func NewGenerationService(workflow *generator.Workflow, settings *SettingsService) *GenerationService {
	return &GenerationService{workflow: workflow, settings: settings}
}

func (s *GenerationService) Generate(ctx context.Context, in GenerateInput) (*models.Post, error) {
	general, err := s.settings.GetGeneral(ctx)
	if err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(in.OverrideTopic)
	if topic == "" {
		topic = strings.TrimSpace(general.Topic)
	}
	basePrompt := strings.TrimSpace(in.OverridePrompt)
	if basePrompt == "" {
		basePrompt = strings.TrimSpace(general.BasePrompt)
	}
	if topic == "" || basePrompt == "" {
		return nil, models.NewValidationError("Missing topic/basePrompt")
	}

	return s.workflow.Generate(ctx, topic, basePrompt)
}
