// Command main runs the database seeder for Inkwell.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of reader accounts to create")
	numPosts := flag.Int("posts", 40, "Number of published posts to create")
	commentsPerPost := flag.Int("comments", 5, "Number of comments per post")
	adminEmail := flag.String("admin", "admin@inkwell.local", "Bootstrap admin email")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	admin, err := s.EnsureAdmin(*adminEmail)
	if err != nil {
		log.Fatalf("Admin bootstrap failed: %v", err)
	}
	log.Printf("Admin account ready: %s", admin.Email)

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}

	posts, err := s.SeedPosts(*numPosts)
	if err != nil {
		log.Fatalf("Post seeding failed: %v", err)
	}

	comments, err := s.SeedComments(users, posts, *commentsPerPost)
	if err != nil {
		log.Fatalf("Comment seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d comments", len(users), len(posts), comments)
	log.Printf("All seeded accounts use the password %q", seed.DefaultPassword)
}
