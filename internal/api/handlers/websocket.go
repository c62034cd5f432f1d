package handlers

import (
	"net/http"

	"github.com/dom/daily-checkin/internal/logger"
	"github.com/dom/daily-checkin/internal/service"
	"github.com/dom/daily-checkin/internal/websocket"
	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

// Handle upgrades to a live feed of schedule changes. ?userId= selects whose
// schedule to watch; it defaults to the caller.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Browsers cannot set headers on the upgrade request
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token required", http.StatusUnauthorized)
		return
	}

	userID, err := h.authService.UserIDFromToken(token)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	subject := userID
	if raw := r.URL.Query().Get("userId"); raw != "" {
		if subject, err = uuid.Parse(raw); err != nil {
			http.Error(w, "Invalid userId", http.StatusBadRequest)
			return
		}
		if _, err := h.authService.GetUserByID(r.Context(), subject); err != nil {
			writeError(w, r, err)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "user_id", userID, "err", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, userID, subject)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
