// Command seed populates the development database with demo data.
package main

import (
	"flag"
	"log"

	"github.com/rali22212/VibeConnect/internal/config"
	"github.com/rali22212/VibeConnect/internal/database"
	"github.com/rali22212/VibeConnect/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "number of users to create")
	numPosts := flag.Int("posts", 0, "number of posts to create (default 3x users)")
	clean := flag.Bool("clean", false, "delete existing data first")
	fast := flag.Bool("fast", false, "skip bcrypt hashing for faster seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *clean,
		SkipBcrypt:  *fast,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
