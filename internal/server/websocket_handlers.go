package server

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketFeedHandler handles WebSocket connections to the live feed.
// Connected clients receive a fresh whole-feed snapshot whenever any post,
// like or comment changes, plus realtime events addressed to them.
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		// Get userID from locals (set by WebSocketAuthRequired middleware)
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket feed: unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.featureFlags != nil && !s.featureFlags.Enabled("live_feed", userID) {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"live feed not available"}`))
			_ = conn.Close()
			return
		}

		if s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"realtime unavailable"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket feed: failed to register user %d: %v", userID, err)
			errMsg, _ := json.Marshal(fiber.Map{"error": err.Error()})
			_ = conn.WriteMessage(websocket.TextMessage, errMsg)
			_ = conn.Close()
			return
		}

		log.Printf("WebSocket feed: user %d connected", userID)

		go client.WritePump()
		// ReadPump blocks until the connection closes and unregisters the client.
		client.ReadPump()
	})
}
