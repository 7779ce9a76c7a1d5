package service

import (
	"context"
	"strings"

	"github.com/rali22212/VibeConnect/internal/cache"
	"github.com/rali22212/VibeConnect/internal/models"
	"github.com/rali22212/VibeConnect/internal/repository"
)

const (
	maxPostContentLen    = 5000
	maxCommentContentLen = 1000
	maxImageURLLen       = 2048
)

// FeedNotifier publishes change-feed signals after feed-affecting writes.
// Implemented by notifications.Notifier; a nil value disables signaling.
type FeedNotifier interface {
	PublishFeedChanged(ctx context.Context, event string, postID uint)
}

// Feed change event names carried on the change feed.
const (
	FeedEventPostCreated = "post_created"
	FeedEventLikeToggled = "like_toggled"
	FeedEventCommented   = "comment_added"
)

// FeedService provides the denormalized post feed and the write paths that
// invalidate it.
type FeedService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	notifier    FeedNotifier
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	notifier FeedNotifier,
) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// CreatePostInput is the payload for creating a post.
type CreatePostInput struct {
	UserID   uint
	Content  string
	ImageURL string
}

// CreatePost validates and stores a new post, then signals the change feed
// so every connected client refetches.
func (s *FeedService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	imageURL := strings.TrimSpace(in.ImageURL)
	// A post needs text or an image, not necessarily both.
	if content == "" && imageURL == "" {
		return nil, models.NewValidationError("post must have content or an image")
	}
	if len(content) > maxPostContentLen {
		return nil, models.NewValidationError("content too long (max 5000 characters)")
	}
	if len(imageURL) > maxImageURLLen {
		return nil, models.NewValidationError("image URL too long")
	}

	post := &models.Post{
		UserID:   in.UserID,
		Content:  content,
		ImageURL: imageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID, in.UserID)
	if err != nil {
		return nil, err
	}

	s.feedChanged(ctx, FeedEventPostCreated, post.ID)
	return created, nil
}

// ListFeed returns every post, newest first, annotated with the viewer's
// like state. The viewer-independent snapshot is cached; the viewer's liked
// set is overlaid from a separate query so the cache can be shared.
func (s *FeedService) ListFeed(ctx context.Context, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.FeedKey, &posts, cache.FeedTTL, func() error {
		fetched, err := s.postRepo.List(ctx, 0)
		if err != nil {
			return err
		}
		posts = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	likedIDs, err := s.postRepo.ListLikedPostIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	liked := make(map[uint]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = struct{}{}
	}
	for _, p := range posts {
		_, p.Liked = liked[p.ID]
	}
	return posts, nil
}

// GetPostDetail returns a single post with its like count, the viewer's
// like state and the full comment thread, oldest first.
func (s *FeedService) GetPostDetail(ctx context.Context, postID, viewerID uint) (*models.PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &models.PostDetail{
		Post:           post,
		LikeCount:      int64(post.LikesCount),
		ViewerHasLiked: post.Liked,
		Comments:       comments,
	}, nil
}

// GetUserPosts returns one author's posts, newest first.
func (s *FeedService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
}

// ToggleLikeResult reports the state after a like toggle.
type ToggleLikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// ToggleLike flips the viewer's like on a post. Each call converges on a
// definite state: lifting an absent like or re-liking a present one is a
// no-op rather than an error, so retries are safe.
func (s *FeedService) ToggleLike(ctx context.Context, userID, postID uint) (*ToggleLikeResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	alreadyLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	var liked bool
	if alreadyLiked {
		if _, err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return nil, err
		}
		liked = false
	} else {
		if _, err := s.postRepo.Like(ctx, userID, postID); err != nil {
			return nil, err
		}
		liked = true
	}

	count, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.feedChanged(ctx, FeedEventLikeToggled, postID)
	return &ToggleLikeResult{Liked: liked, LikeCount: count}, nil
}

// AddComment appends a comment to a post and signals the change feed.
func (s *FeedService) AddComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("content is required")
	}
	if len(content) > maxCommentContentLen {
		return nil, models.NewValidationError("content too long (max 1000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.feedChanged(ctx, FeedEventCommented, postID)
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// feedChanged invalidates the cached feed snapshot and emits a change-feed
// signal. Comments do not change feed ordering but do change comment counts,
// so every write path goes through here.
func (s *FeedService) feedChanged(ctx context.Context, event string, postID uint) {
	cache.InvalidateFeed(ctx)
	cache.InvalidatePost(ctx, postID)
	if s.notifier != nil {
		s.notifier.PublishFeedChanged(ctx, event, postID)
	}
}
