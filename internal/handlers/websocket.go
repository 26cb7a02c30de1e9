package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"token-casino-backend/internal/logger"
	"token-casino-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler pushes balance and round updates to connected clients.
// It implements services.Broadcaster; the game engine never sees the
// connections.
type WebSocketHandler struct {
	walletService *services.WalletService
	hub           *webSocketHub
}

type webSocketHub struct {
	clients    map[int64]map[*websocket.Conn]bool
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan *wsMessage
}

type wsClient struct {
	userID int64
	conn   *websocket.Conn
}

type wsMessage struct {
	Type   string `json:"type"`
	UserID int64  `json:"-"`
	Data   any    `json:"data"`
}

func NewWebSocketHandler(walletService *services.WalletService) *WebSocketHandler {
	hub := &webSocketHub{
		clients:    make(map[int64]map[*websocket.Conn]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan *wsMessage, 100),
	}
	go hub.run()

	return &WebSocketHandler{
		walletService: walletService,
		hub:           hub,
	}
}

func (h *webSocketHub) run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*websocket.Conn]bool)
			}
			h.clients[client.userID][client.conn] = true

		case client := <-h.unregister:
			if conns := h.clients[client.userID]; conns != nil {
				delete(conns, client.conn)
				if len(conns) == 0 {
					delete(h.clients, client.userID)
				}
			}

		case msg := <-h.broadcast:
			for conn := range h.clients[msg.UserID] {
				if err := conn.WriteJSON(msg); err != nil {
					conn.Close()
					delete(h.clients[msg.UserID], conn)
				}
			}
		}
	}
}

// BroadcastBalance implements services.Broadcaster.
func (h *WebSocketHandler) BroadcastBalance(userID, balance int64) {
	select {
	case h.hub.broadcast <- &wsMessage{Type: "BALANCE", UserID: userID, Data: gin.H{"balance": balance}}:
	default:
		// Slow consumers drop updates rather than stall settlement.
	}
}

// BroadcastRound implements services.Broadcaster.
func (h *WebSocketHandler) BroadcastRound(userID int64, payload any) {
	select {
	case h.hub.broadcast <- &wsMessage{Type: "ROUND", UserID: userID, Data: payload}:
	default:
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warnw("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := &wsClient{userID: userID, conn: conn}
	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(userID)

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Debugw("websocket closed", "user_id", userID, "error", err)
			}
			break
		}
		if msg.Type == "PING" {
			conn.WriteJSON(&wsMessage{Type: "PONG"})
		}
	}
}

func (h *WebSocketHandler) sendBalance(userID int64) {
	balance, err := h.walletService.GetBalance(userID)
	if err != nil {
		logger.Log.Warnw("failed to load wallet for websocket", "user_id", userID, "error", err)
		return
	}
	h.BroadcastBalance(userID, balance.Balance)
}
