package service

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/cortex-be/types"
)

// WebSocketService serves chat over a websocket. Each inbound chat frame
// runs one independent RAG turn; no conversation state survives between
// frames or connections.
type WebSocketService struct {
	rag      RAGService
	upgrader websocket.Upgrader
}

func NewWebSocketService(rag RAGService) *WebSocketService {
	return &WebSocketService{
		rag: rag,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(message, &req); err != nil {
			s.writeError(conn, "Invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "Invalid payload")
				continue
			}
			var payload types.WebsocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(conn, "Invalid payload")
				continue
			}

			result, err := s.rag.Chat(r.Context(), userID, payload.Message)
			if err != nil {
				log.Println("Chat error:", err)
				s.writeError(conn, "Failed to generate response")
				continue
			}
			conn.WriteJSON(types.WebsocketResponse{
				Type: types.TypeWebsocketChat,
				Payload: types.ChatResponse{
					Response: result.Response,
					Sources:  result.Sources,
				},
			})
		case types.TypeWebsocketPing:
			conn.WriteJSON(types.WebsocketResponse{
				Type: types.TypeWebsocketPong,
			})
		default:
			s.writeError(conn, "Unknown message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	conn.WriteJSON(types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebsocketErrorPayload{Message: message},
	})
}
