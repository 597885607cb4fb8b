// Command main runs the content generation pipeline once and exits.
// Useful for cron-less deployments and for testing prompt settings.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"inkwell/internal/ai"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/generator"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/storage"
)

func main() {
	topic := flag.String("topic", "", "Override the configured topic")
	prompt := flag.String("prompt", "", "Override the configured base prompt")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall run timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	settingsService := service.NewSettingsService(repository.NewSettingsRepository(db))

	client := ai.NewClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIChatModel, cfg.AIImageModel)
	covers := storage.NewDiskStore(cfg.MediaDir, cfg.SiteURL)
	workflow := generator.NewWorkflow(client, postRepo, covers, nil, generator.Config{
		RecentTitleCount: cfg.RecentTitleCount,
		SlugMaxWords:     cfg.SlugMaxWords,
	})
	generation := service.NewGenerationService(workflow, settingsService)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	post, err := generation.Generate(ctx, service.GenerateInput{
		OverrideTopic:  *topic,
		OverridePrompt: *prompt,
	})
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	log.Printf("Generated post %d (%s): %q", post.ID, post.Status, post.Title)
}
