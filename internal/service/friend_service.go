// Package service contains the application's business logic.
package service

import (
	"context"

	"github.com/rali22212/VibeConnect/internal/models"
	"github.com/rali22212/VibeConnect/internal/repository"
)

// SuggestionLimit caps how many candidate users a suggestions query returns.
const SuggestionLimit = 10

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendFriendRequest creates a pending request from userID to targetUserID.
// Any existing record between the pair, whatever its status, blocks a new
// request: a declined pair stays declined.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	if userID == targetUserID {
		return nil, models.NewInvalidStateError("cannot send a friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewConflictError("you are already friends")
		case models.FriendshipStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewConflictError("friend request already sent")
			}
			return nil, models.NewConflictError("this user already sent you a friend request")
		default:
			return nil, models.NewConflictError("a previous request between you was declined")
		}
	}

	friendship := &models.Friendship{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// Respond resolves a pending request as accepted or declined. Only the
// addressee may resolve it, and only while it is still pending. The record
// is never deleted: declining leaves a declined row behind.
func (s *FriendService) Respond(ctx context.Context, userID, requestID uint, accept bool) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !friendship.IsResolvableBy(userID) {
		return nil, models.NewForbiddenError("only the addressee can respond to this request")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewInvalidStateError("friend request has already been resolved")
	}

	if accept {
		friendship.Status = models.FriendshipStatusAccepted
	} else {
		friendship.Status = models.FriendshipStatusDeclined
	}
	if err := s.friendRepo.UpdateStatus(ctx, friendship); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, requestID)
}

// GetPendingRequests returns requests awaiting the user's decision,
// oldest first.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]*models.Friendship, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns the user's own outstanding requests.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]*models.Friendship, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// GetFriends returns the users on the other side of the user's accepted
// friendships.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// GetSuggestions returns users with no friendship history with userID.
// A pending, accepted or declined record in either direction removes a
// candidate permanently.
func (s *FriendService) GetSuggestions(ctx context.Context, userID uint) ([]*models.User, error) {
	return s.friendRepo.GetSuggestions(ctx, userID, SuggestionLimit)
}
