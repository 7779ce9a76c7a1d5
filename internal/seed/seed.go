package seed

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/rali22212/VibeConnect/internal/models"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	// MaxDays spreads post timestamps over this many days back.
	MaxDays int
}

// Run populates the database with a social mesh: users, friendships in
// every status, posts, likes and comments.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = opts.NumUsers * 3
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return err
		}
	}

	f := NewFactory(db, opts)

	logProgress("creating %d users", opts.NumUsers)
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}

	logProgress("creating friendships")
	for i := 0; i < len(users); i++ {
		// Each user reaches out to a handful of later users so no pair is
		// attempted twice.
		reach := f.rnd.Intn(4) + 1
		for j := i + 1; j < len(users) && j <= i+reach; j++ {
			if _, err := f.CreateFriendship(users[i], users[j], f.randomStatus()); err != nil {
				return err
			}
		}
	}

	logProgress("creating %d posts", opts.NumPosts)
	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rnd.Intn(len(users))]
		posts = append(posts, f.BuildPost(author))
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return err
	}

	logProgress("creating likes and comments")
	for _, post := range posts {
		likers := f.rnd.Intn(len(users)/2 + 1)
		for k := 0; k < likers; k++ {
			if err := f.CreateLike(users[f.rnd.Intn(len(users))], post); err != nil {
				return err
			}
		}
		commenters := f.rnd.Intn(4)
		for k := 0; k < commenters; k++ {
			if _, err := f.CreateComment(users[f.rnd.Intn(len(users))], post); err != nil {
				return err
			}
		}
	}

	logProgress("done: %d users, %d posts", len(users), len(posts))
	return nil
}

// clean removes all seedable data. Order matters for foreign keys.
func clean(db *gorm.DB) error {
	logProgress("cleaning existing data")
	for _, model := range []any{
		&models.Like{},
		&models.Comment{},
		&models.Post{},
		&models.Friendship{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("seed clean: %w", err)
		}
	}
	return nil
}
