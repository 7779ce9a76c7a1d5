package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rali22212/VibeConnect/internal/models"
)

func sendRequest(t *testing.T, app *fiber.App, token string, targetID uint) *models.Friendship {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", targetID), token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var friendship models.Friendship
	decodeBody(t, resp, &friendship)
	return &friendship
}

func TestFriendRequestLifecycleAccept(t *testing.T) {
	s, app := newTestServer(t)
	alice, aliceToken := signupTestUser(t, s, "alice")
	bob, bobToken := signupTestUser(t, s, "bob")

	friendship := sendRequest(t, app, aliceToken, bob.ID)
	assert.Equal(t, alice.ID, friendship.RequesterID)
	assert.Equal(t, bob.ID, friendship.AddresseeID)
	assert.Equal(t, models.FriendshipStatusPending, friendship.Status)

	// Bob sees it pending; Alice sees it sent.
	resp := doRequest(t, app, http.MethodGet, "/api/friends/requests", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pending struct {
		Requests []*models.Friendship `json:"requests"`
	}
	decodeBody(t, resp, &pending)
	require.Len(t, pending.Requests, 1)
	assert.Equal(t, "alice", pending.Requests[0].Requester.Username)

	resp = doRequest(t, app, http.MethodGet, "/api/friends/requests/sent", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sent struct {
		Requests []*models.Friendship `json:"requests"`
	}
	decodeBody(t, resp, &sent)
	require.Len(t, sent.Requests, 1)
	assert.Equal(t, "bob", sent.Requests[0].Addressee.Username)

	// Bob accepts; both sides now list each other as friends.
	resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d/accept", friendship.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var accepted models.Friendship
	decodeBody(t, resp, &accepted)
	assert.Equal(t, models.FriendshipStatusAccepted, accepted.Status)

	for token, want := range map[string]string{aliceToken: "bob", bobToken: "alice"} {
		resp = doRequest(t, app, http.MethodGet, "/api/friends/", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var friends struct {
			Friends []*models.User `json:"friends"`
		}
		decodeBody(t, resp, &friends)
		require.Len(t, friends.Friends, 1)
		assert.Equal(t, want, friends.Friends[0].Username)
	}
}

func TestFriendRequestLifecycleDecline(t *testing.T) {
	s, app := newTestServer(t)
	_, aliceToken := signupTestUser(t, s, "alice")
	bob, bobToken := signupTestUser(t, s, "bob")

	friendship := sendRequest(t, app, aliceToken, bob.ID)

	resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d/decline", friendship.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var declined models.Friendship
	decodeBody(t, resp, &declined)
	assert.Equal(t, models.FriendshipStatusDeclined, declined.Status)

	// No friendship formed.
	resp = doRequest(t, app, http.MethodGet, "/api/friends/", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var friends struct {
		Friends []*models.User `json:"friends"`
	}
	decodeBody(t, resp, &friends)
	assert.Empty(t, friends.Friends)

	// The declined pair is closed to new requests, in both directions.
	resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", bob.ID), aliceToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	alice, _ := s.userRepo.GetByUsername(context.Background(), "alice")
	resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d", alice.ID), bobToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSendFriendRequestErrors(t *testing.T) {
	s, app := newTestServer(t)
	alice, aliceToken := signupTestUser(t, s, "alice")
	bob, _ := signupTestUser(t, s, "bob")

	t.Run("to self", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/api/friends/requests/%d", alice.ID), aliceToken, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown target", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/friends/requests/9999", aliceToken, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("duplicate", func(t *testing.T) {
		sendRequest(t, app, aliceToken, bob.ID)

		resp := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/api/friends/requests/%d", bob.ID), aliceToken, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestRespondToRequestErrors(t *testing.T) {
	s, app := newTestServer(t)
	_, aliceToken := signupTestUser(t, s, "alice")
	bob, bobToken := signupTestUser(t, s, "bob")
	_, carolToken := signupTestUser(t, s, "carol")

	friendship := sendRequest(t, app, aliceToken, bob.ID)

	t.Run("requester cannot resolve", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/api/friends/requests/%d/accept", friendship.ID), aliceToken, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("third party cannot resolve", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/api/friends/requests/%d/decline", friendship.ID), carolToken, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("already resolved", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/api/friends/requests/%d/accept", friendship.ID), bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		resp = doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/api/friends/requests/%d/decline", friendship.ID), bobToken, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown request", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/friends/requests/9999/accept", bobToken, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetSuggestions(t *testing.T) {
	s, app := newTestServer(t)
	_, aliceToken := signupTestUser(t, s, "alice")
	bob, _ := signupTestUser(t, s, "bob")
	signupTestUser(t, s, "carol")
	signupTestUser(t, s, "dave")

	// Alice sends Bob a request; any record removes him from suggestions.
	sendRequest(t, app, aliceToken, bob.ID)

	resp := doRequest(t, app, http.MethodGet, "/api/friends/suggestions", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Suggestions []*models.User `json:"suggestions"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Suggestions, 2)
	assert.Equal(t, "carol", body.Suggestions[0].Username)
	assert.Equal(t, "dave", body.Suggestions[1].Username)
}
