package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/yourusername/quizroom-api/internal/service"
	"github.com/yourusername/quizroom-api/internal/websocket"
	"github.com/yourusername/quizroom-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket соединения игровых комнат
type WSHandler struct {
	wsManager   *websocket.Manager
	gameService *service.GameService
	jwtService  *auth.JWTService
	upgrader    gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(
	wsManager *websocket.Manager,
	gameService *service.GameService,
	jwtService *auth.JWTService,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		wsManager:   wsManager,
		gameService: gameService,
		jwtService:  jwtService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Пустой Origin — это не браузерный клиент, пропускаем
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				log.Printf("WebSocket: отклонен неразрешенный origin %s", origin)
				return false
			},
		},
	}
}

// HandleConnection принимает подключение к комнате игры.
// Аутентификация через короткоживущий тикет (?ticket=...), комната
// определяется параметром пути gamename.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	ticket := c.Query("ticket")
	if ticket == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication ticket parameter"})
		return
	}

	claims, err := h.jwtService.ParseWSTicket(ticket)
	if err != nil {
		log.Printf("WebSocket: неверный или просроченный тикет: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired ticket"})
		return
	}

	roomName := c.Param("gamename")
	game, err := h.gameService.GameByRoomName(roomName)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket: ошибка апгрейда соединения: %v", err)
		return
	}

	log.Printf("WebSocket: пользователь #%d подключился к комнате %s", claims.UserID, roomName)
	h.wsManager.HandleConnection(conn, game.RoomTopic(), claims.UserID, claims.Username)
}
