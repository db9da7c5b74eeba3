// Command main populates the configured storage backend with demo blog
// content.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"quill/internal/config"
	"quill/internal/seed"
	"quill/internal/server"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	postsPerUser := flag.Int("posts", 5, "Number of posts per user")
	commentsPerPost := flag.Int("comments", 8, "Max comments per published post")
	maxDays := flag.Int("max-days", 90, "How far back timestamps spread")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.StorageBackend != config.BackendRedis {
		log.Fatal("seeding requires STORAGE_BACKEND=redis; the in-memory backend does not outlive this process")
	}

	repos, rdb, err := server.NewRepositories(cfg)
	if err != nil {
		log.Fatalf("Failed to connect storage: %v", err)
	}
	defer func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s := seed.NewSeeder(repos.Posts, repos.Comments, repos.Favorites, repos.Users)
	if err := s.Run(ctx, seed.Options{
		Users:           *numUsers,
		PostsPerUser:    *postsPerUser,
		CommentsPerPost: *commentsPerPost,
		MaxDays:         *maxDays,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
