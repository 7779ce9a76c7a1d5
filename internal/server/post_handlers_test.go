package server

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rali22212/VibeConnect/internal/models"
	"github.com/rali22212/VibeConnect/internal/service"
)

func createPost(t *testing.T, app *fiber.App, token, content string) *models.Post {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/posts/", token, map[string]string{
		"content": content,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeBody(t, resp, &post)
	return &post
}

func TestCreatePost(t *testing.T) {
	s, app := newTestServer(t)
	author, token := signupTestUser(t, s, "alice")

	post := createPost(t, app, token, "hello feed")
	assert.Equal(t, author.ID, post.UserID)
	assert.Equal(t, "hello feed", post.Content)
	assert.Equal(t, "alice", post.User.Username)
	assert.Zero(t, post.LikesCount)

	t.Run("image only", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/posts/", token, map[string]string{
			"image_url": "https://example.com/sunset.jpg",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var created models.Post
		decodeBody(t, resp, &created)
		assert.Empty(t, created.Content)
		assert.Equal(t, "https://example.com/sunset.jpg", created.ImageURL)
	})

	t.Run("blank content and image", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/posts/", token, map[string]string{
			"content":   "   ",
			"image_url": "  ",
		})
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("content too long", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/posts/", token, map[string]string{
			"content": strings.Repeat("a", 5001),
		})
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("requires auth", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/posts/", "", map[string]string{
			"content": "anonymous",
		})
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetFeed(t *testing.T) {
	s, app := newTestServer(t)
	_, aliceToken := signupTestUser(t, s, "alice")
	_, bobToken := signupTestUser(t, s, "bob")

	first := createPost(t, app, aliceToken, "first")
	second := createPost(t, app, bobToken, "second")

	// Bob likes Alice's post.
	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/posts/%d/like", first.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	// The feed is global and newest first, with Bob's like overlaid only
	// for Bob.
	resp = doRequest(t, app, http.MethodGet, "/api/posts/", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed struct {
		Posts []*models.Post `json:"posts"`
	}
	decodeBody(t, resp, &feed)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, second.ID, feed.Posts[0].ID)
	assert.Equal(t, first.ID, feed.Posts[1].ID)
	assert.False(t, feed.Posts[0].Liked)
	assert.True(t, feed.Posts[1].Liked)
	assert.Equal(t, 1, feed.Posts[1].LikesCount)

	resp = doRequest(t, app, http.MethodGet, "/api/posts/", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &feed)
	assert.False(t, feed.Posts[1].Liked)
	assert.Equal(t, 1, feed.Posts[1].LikesCount)
}

func TestToggleLike(t *testing.T) {
	s, app := newTestServer(t)
	_, token := signupTestUser(t, s, "alice")
	post := createPost(t, app, token, "like me")

	toggle := func() *service.ToggleLikeResult {
		resp := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/api/posts/%d/like", post.ID), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var result service.ToggleLikeResult
		decodeBody(t, resp, &result)
		return &result
	}

	result := toggle()
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikeCount)

	result = toggle()
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.LikeCount)

	result = toggle()
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.LikeCount)

	t.Run("unknown post", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/posts/9999/like", token, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestComments(t *testing.T) {
	s, app := newTestServer(t)
	_, aliceToken := signupTestUser(t, s, "alice")
	_, bobToken := signupTestUser(t, s, "bob")
	post := createPost(t, app, aliceToken, "discuss")

	for i, tok := range []string{bobToken, aliceToken} {
		resp := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/api/posts/%d/comments", post.ID), tok, map[string]string{
				"content": fmt.Sprintf("comment %d", i),
			})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var comment models.Comment
		decodeBody(t, resp, &comment)
		assert.Equal(t, fmt.Sprintf("comment %d", i), comment.Content)
		assert.NotEmpty(t, comment.User.Username)
	}

	// Oldest first.
	resp := doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/api/posts/%d/comments", post.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Comments []*models.Comment `json:"comments"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Comments, 2)
	assert.Equal(t, "comment 0", body.Comments[0].Content)
	assert.Equal(t, "comment 1", body.Comments[1].Content)
	assert.Equal(t, "bob", body.Comments[0].User.Username)

	t.Run("empty comment", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/api/posts/%d/comments", post.ID), aliceToken, map[string]string{
				"content": "",
			})
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("comment on unknown post", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/posts/9999/comments", aliceToken, map[string]string{
			"content": "hello",
		})
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetPostDetail(t *testing.T) {
	s, app := newTestServer(t)
	_, aliceToken := signupTestUser(t, s, "alice")
	_, bobToken := signupTestUser(t, s, "bob")
	post := createPost(t, app, aliceToken, "detail")

	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/posts/%d/like", post.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/posts/%d/comments", post.ID), bobToken, map[string]string{
			"content": "nice",
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/api/posts/%d", post.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var detail models.PostDetail
	decodeBody(t, resp, &detail)
	require.NotNil(t, detail.Post)
	assert.Equal(t, post.ID, detail.Post.ID)
	assert.Equal(t, int64(1), detail.LikeCount)
	assert.True(t, detail.ViewerHasLiked)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "nice", detail.Comments[0].Content)

	// Alice has not liked her own post.
	resp = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/api/posts/%d", post.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &detail)
	assert.False(t, detail.ViewerHasLiked)

	t.Run("unknown post", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/posts/9999", aliceToken, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
