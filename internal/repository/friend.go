package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rali22212/VibeConnect/internal/models"
)

// FriendRepository defines the interface for friendship data operations
type FriendRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error)
	GetFriends(ctx context.Context, userID uint) ([]*models.User, error)
	GetPendingRequests(ctx context.Context, userID uint) ([]*models.Friendship, error)
	GetSentRequests(ctx context.Context, userID uint) ([]*models.Friendship, error)
	GetSuggestions(ctx context.Context, userID uint, limit int) ([]*models.User, error)
	UpdateStatus(ctx context.Context, friendship *models.Friendship) error
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository instance
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	if err := r.db.WithContext(ctx).Create(friendship).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("friend request already exists")
		}
		return storeError(fmt.Errorf("failed to create friendship: %w", err))
	}
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Addressee").
		First(&friendship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("friend request", id)
		}
		return nil, storeError(fmt.Errorf("failed to get friendship: %w", err))
	}
	return &friendship, nil
}

// GetFriendshipBetweenUsers finds any friendship record connecting the two
// users regardless of who initiated it or its status. Returns (nil, nil)
// when no record of any status exists.
func (r *friendRepository) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userID1, userID2, userID2, userID1).
		First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError(fmt.Errorf("failed to get friendship: %w", err))
	}
	return &friendship, nil
}

// GetFriends returns the users on the other side of every accepted
// friendship involving userID.
func (r *friendRepository) GetFriends(ctx context.Context, userID uint) ([]*models.User, error) {
	var friends []*models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins(`JOIN friendships ON (friendships.requester_id = users.id AND friendships.addressee_id = ?)
			OR (friendships.addressee_id = users.id AND friendships.requester_id = ?)`, userID, userID).
		Where("friendships.status = ?", models.FriendshipStatusAccepted).
		Where("users.id != ?", userID).
		Order("users.id ASC").
		Find(&friends).Error
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to get friends: %w", err))
	}
	return friends, nil
}

// GetPendingRequests returns pending friend requests addressed to userID,
// oldest first, with the requester profile loaded.
func (r *friendRepository) GetPendingRequests(ctx context.Context, userID uint) ([]*models.Friendship, error) {
	var requests []*models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("addressee_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to get pending requests: %w", err))
	}
	return requests, nil
}

func (r *friendRepository) GetSentRequests(ctx context.Context, userID uint) ([]*models.Friendship, error) {
	var requests []*models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Addressee").
		Where("requester_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to get sent requests: %w", err))
	}
	return requests, nil
}

// GetSuggestions returns users with no friendship record of any status
// involving userID, excluding userID itself, in ascending id order.
func (r *friendRepository) GetSuggestions(ctx context.Context, userID uint, limit int) ([]*models.User, error) {
	var suggestions []*models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("users.id != ?", userID).
		Where(`users.id NOT IN (
			SELECT CASE WHEN requester_id = ? THEN addressee_id ELSE requester_id END
			FROM friendships
			WHERE requester_id = ? OR addressee_id = ?
		)`, userID, userID, userID).
		Order("users.id ASC").
		Limit(limit).
		Find(&suggestions).Error
	if err != nil {
		return nil, storeError(fmt.Errorf("failed to get suggestions: %w", err))
	}
	return suggestions, nil
}

// UpdateStatus persists a status transition and its timestamp. Declined
// records are kept; nothing is ever deleted from the friendships table.
func (r *friendRepository) UpdateStatus(ctx context.Context, friendship *models.Friendship) error {
	err := r.db.WithContext(ctx).
		Model(friendship).
		Update("status", friendship.Status).Error
	if err != nil {
		return storeError(fmt.Errorf("failed to update friendship status: %w", err))
	}
	return nil
}
