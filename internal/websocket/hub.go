package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Hub хранит подключения, сгруппированные по комнатам игр.
// У каждой комнаты свой мьютекс, поэтому рассылки разных комнат
// не блокируют друг друга.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

// room — клиенты одной комнаты. Порядок подключения сохраняется,
// рассылка идет одним циклом в этом порядке.
type room struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	order   []*Client
	// closed выставляется под h.mu и r.mu при удалении комнаты из хаба.
	// Вход в закрытую комнату невозможен: Join обязан взять свежую.
	closed bool
}

// NewHub создает новый хаб комнат
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]*room),
	}
}

// getRoom возвращает комнату, создавая ее при необходимости
func (h *Hub) getRoom(topic string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[topic]
	if !ok {
		r = &room{clients: make(map[*Client]struct{})}
		h.rooms[topic] = r
	}
	return r
}

// Join добавляет клиента в комнату. Между получением комнаты и вставкой
// последний участник мог выйти и удалить комнату из хаба; в закрытую
// комнату вставка не делается, берется свежая.
func (h *Hub) Join(topic string, client *Client) {
	for {
		r := h.getRoom(topic)

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			continue
		}
		if _, ok := r.clients[client]; !ok {
			r.clients[client] = struct{}{}
			r.order = append(r.order, client)
		}
		r.mu.Unlock()
		break
	}

	log.Printf("[Hub] Клиент %s (пользователь #%d) вошел в комнату %s", client.ConnectionID, client.UserID, topic)
}

// Leave убирает клиента из комнаты. Вызывается на каждом пути отключения.
func (h *Hub) Leave(topic string, client *Client) {
	h.mu.RLock()
	r, ok := h.rooms[topic]
	h.mu.RUnlock()
	if !ok {
		return
	}

	r.mu.Lock()
	if _, ok := r.clients[client]; ok {
		delete(r.clients, client)
		for i, c := range r.order {
			if c == client {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	empty := len(r.clients) == 0
	r.mu.Unlock()

	client.CloseSend()

	if empty {
		h.mu.Lock()
		// Перепроверяем под общим мьютексом: в комнату могли успеть войти,
		// а под topic могла встать уже другая комната
		r.mu.Lock()
		if len(r.clients) == 0 && h.rooms[topic] == r {
			r.closed = true
			delete(h.rooms, topic)
		}
		r.mu.Unlock()
		h.mu.Unlock()
	}

	log.Printf("[Hub] Клиент %s покинул комнату %s", client.ConnectionID, topic)
}

// BroadcastToRoom отправляет событие всем клиентам комнаты в порядке их
// подключения. Клиент с переполненным буфером отключается.
func (h *Hub) BroadcastToRoom(topic string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for room %s: %w", topic, err)
	}

	h.mu.RLock()
	r, ok := h.rooms[topic]
	h.mu.RUnlock()
	if !ok {
		return nil
	}

	var slow []*Client

	r.mu.Lock()
	for _, client := range r.order {
		if client.IsSendClosed() {
			continue
		}
		select {
		case client.send <- payload:
		default:
			log.Printf("[Hub] Буфер клиента %s переполнен, отключаем", client.ConnectionID)
			slow = append(slow, client)
		}
	}
	r.mu.Unlock()

	for _, client := range slow {
		h.Leave(topic, client)
	}
	return nil
}

// RoomSize возвращает количество клиентов комнаты
func (h *Hub) RoomSize(topic string) int {
	h.mu.RLock()
	r, ok := h.rooms[topic]
	h.mu.RUnlock()
	if !ok {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
