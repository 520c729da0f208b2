package websocket

import (
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
)

// Входящие управляющие сообщения комнаты
const (
	MessageReady  = "ready"
	MessageUnlock = "unlock"
	MessageUpdate = "update"
)

// inboundMessage — управляющий кадр от клиента
type inboundMessage struct {
	Message string `json:"message"`
}

// Manager принимает подключения комнат и диспетчеризует управляющие сообщения
type Manager struct {
	hub *Hub
}

// NewManager создает новый менеджер WebSocket
func NewManager(hub *Hub) *Manager {
	return &Manager{hub: hub}
}

// Hub возвращает хаб комнат
func (m *Manager) Hub() *Hub {
	return m.hub
}

// HandleConnection заводит клиента комнаты и запускает его насосы
func (m *Manager) HandleConnection(conn *websocket.Conn, topic string, userID uint, username string) {
	client := NewClient(m.hub, conn, topic, userID, username)
	client.StartPumps(m.HandleMessage)
}

// HandleMessage обрабатывает управляющий кадр клиента.
// "ready" блокирует кнопку за нажавшим, "unlock" разблокирует,
// "update" просит комнату перечитать состояние. Неизвестные кадры
// молча игнорируются.
func (m *Manager) HandleMessage(message []byte, client *Client) error {
	var inbound inboundMessage
	if err := json.Unmarshal(message, &inbound); err != nil {
		log.Printf("[Manager] Клиент %s прислал нечитаемый кадр: %v", client.ConnectionID, err)
		return nil
	}

	switch inbound.Message {
	case MessageReady:
		return m.hub.BroadcastToRoom(client.Topic, map[string]interface{}{
			"message":  "block",
			"username": client.Username,
			"user_id":  client.UserID,
		})
	case MessageUnlock:
		return m.hub.BroadcastToRoom(client.Topic, map[string]interface{}{
			"message": "unlocked",
		})
	case MessageUpdate:
		return m.hub.BroadcastToRoom(client.Topic, map[string]interface{}{
			"message": "updated",
		})
	default:
		// Неизвестные сообщения не роняют соединение
		return nil
	}
}

// BroadcastToRoom отправляет событие всем подключениям комнаты
func (m *Manager) BroadcastToRoom(topic string, event interface{}) error {
	return m.hub.BroadcastToRoom(topic, event)
}
