package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rali22212/VibeConnect/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, currentUserID uint) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)
	ListLikedPostIDs(ctx context.Context, userID uint) ([]uint, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository instance
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails decorates a posts query with computed like/comment
// counts and whether currentUserID has liked each post, in one round trip.
func applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	return db.Select(`posts.*,
		(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count,
		(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comments_count,
		EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked`, currentUserID)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return storeError(fmt.Errorf("failed to create post: %w", err))
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, storeError(fmt.Errorf("failed to get post: %w", err))
	}
	return &post, nil
}

// List returns the whole feed, newest first. The feed is global: every
// post from every user is visible to every authenticated viewer.
func (r *postRepository) List(ctx context.Context, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to list posts: %w", err))
	}
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to get posts for user: %w", err))
	}
	return posts, nil
}

func (r *postRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, storeError(fmt.Errorf("failed to count likes: %w", err))
	}
	return count, nil
}

// ListLikedPostIDs returns the ids of every post userID has liked. Used to
// overlay viewer-specific like state onto a shared feed snapshot.
func (r *postRepository) ListLikedPostIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to list liked posts: %w", err))
	}
	return ids, nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, storeError(fmt.Errorf("failed to check like: %w", err))
	}
	return count > 0, nil
}

// Like records userID liking postID. The insert is idempotent: a
// concurrent or repeated like is absorbed by the unique (user_id,
// post_id) index and reported as inserted=false.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if res.Error != nil {
		return false, storeError(fmt.Errorf("failed to like post: %w", res.Error))
	}
	return res.RowsAffected > 0, nil
}

// Unlike removes the like row outright. Likes are hard-deleted so a
// later re-like inserts cleanly against the unique index.
func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, storeError(fmt.Errorf("failed to unlike post: %w", res.Error))
	}
	return res.RowsAffected > 0, nil
}
