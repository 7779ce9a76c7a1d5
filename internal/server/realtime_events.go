package server

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Realtime event types pushed to individual users.
const (
	EventFriendRequestReceived = "friend_request_received"
	EventFriendRequestAccepted = "friend_request_accepted"
)

// publishUserEvent sends a realtime event to one user via Redis pub/sub.
// Best-effort: delivery failures never affect the HTTP response.
func (s *Server) publishUserEvent(c *fiber.Ctx, userID uint, eventType string, payload any) {
	if s.notifier == nil {
		return
	}
	msg, err := json.Marshal(fiber.Map{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	s.notifier.PublishUserEvent(c.Context(), userID, string(msg))
}
