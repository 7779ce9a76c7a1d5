// Package bootstrap establishes runtime dependencies for commands.
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rali22212/VibeConnect/internal/cache"
	"github.com/rali22212/VibeConnect/internal/config"
	"github.com/rali22212/VibeConnect/internal/database"
	"github.com/rali22212/VibeConnect/internal/models"
	"github.com/rali22212/VibeConnect/internal/seed"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData populates an empty development database with demo users,
	// friendships and posts so the feed is usable out of the box.
	SeedDemoData bool
}

// InitRuntime connects to the database and Redis and optionally seeds demo
// data. The Redis client may be nil when the server is unreachable; the
// application degrades to polling without realtime delivery.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData && strings.EqualFold(cfg.Env, "development") {
		if err := seedIfEmpty(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// seedIfEmpty runs the demo seeder only when no users exist yet, so a
// restart never duplicates data.
func seedIfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return seed.Run(db, seed.Options{NumUsers: 20})
}
