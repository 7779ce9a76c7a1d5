package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rali22212/VibeConnect/internal/models"
)

func TestPostRepositoryListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	older := createTestPost(t, db, author.ID, "first")
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer := createTestPost(t, db, author.ID, "second")

	posts, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
	assert.Equal(t, author.Username, posts[0].User.Username)
}

func TestPostRepositoryComputedCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	other := createTestUser(t, db, "other")
	post := createTestPost(t, db, author.ID, "hello")

	inserted, err := repo.Like(ctx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = repo.Like(ctx, other.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	require.NoError(t, db.Create(&models.Comment{
		UserID: viewer.ID, PostID: post.ID, Content: "nice",
	}).Error)

	got, err := repo.GetByID(ctx, post.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)
	assert.True(t, got.Liked)

	// A viewer who has not liked it sees liked=false with the same counts.
	got, err = repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikesCount)
	assert.False(t, got.Liked)
}

func TestPostRepositoryLikeIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "liker")
	post := createTestPost(t, db, user.ID, "hello")

	inserted, err := repo.Like(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Repeating the like is absorbed, not an error.
	inserted, err = repo.Like(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostRepositoryUnlike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "liker")
	post := createTestPost(t, db, user.ID, "hello")

	removed, err := repo.Unlike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Like(ctx, user.ID, post.ID)
	require.NoError(t, err)

	removed, err = repo.Unlike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	liked, err := repo.IsLiked(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	// Re-like after unlike inserts cleanly.
	inserted, err := repo.Like(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestPostRepositoryListLikedPostIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "liker")
	other := createTestUser(t, db, "other")
	p1 := createTestPost(t, db, user.ID, "one")
	p2 := createTestPost(t, db, user.ID, "two")
	createTestPost(t, db, user.ID, "three")

	_, err := repo.Like(ctx, user.ID, p1.ID)
	require.NoError(t, err)
	_, err = repo.Like(ctx, user.ID, p2.ID)
	require.NoError(t, err)
	_, err = repo.Like(ctx, other.ID, p2.ID)
	require.NoError(t, err)

	ids, err := repo.ListLikedPostIDs(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{p1.ID, p2.ID}, ids)
}

func TestPostRepositoryGetByUserIDPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	for i := 0; i < 4; i++ {
		createTestPost(t, db, author.ID, "mine")
	}
	createTestPost(t, db, other.ID, "theirs")

	page, err := repo.GetByUserID(ctx, author.ID, 3, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, 3)

	rest, err := repo.GetByUserID(ctx, author.ID, 3, 3, 0)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestPostRepositoryGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 999, 0)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}
