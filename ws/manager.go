package ws

import (
	"sync"

	"jobstreet_backend/internal/logger"
)

// Event - конверт realtime-события, отправляемый клиенту.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// WebSocketManager держит активные сессии пользователей.
// Один пользователь может иметь несколько одновременных подключений
// (несколько вкладок, телефон + браузер), событие доставляется всем.
type WebSocketManager struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			if manager.clients[client.UserID] == nil {
				manager.clients[client.UserID] = make(map[*Client]bool)
			}
			manager.clients[client.UserID][client] = true
			manager.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID)

		case client := <-manager.unregister:
			manager.mu.Lock()
			if sessions, ok := manager.clients[client.UserID]; ok {
				if sessions[client] {
					delete(sessions, client)
					close(client.Send)
					if len(sessions) == 0 {
						delete(manager.clients, client.UserID)
					}
				}
			}
			manager.mu.Unlock()
			logger.Debug("ws client unregistered", "user_id", client.UserID)
		}
	}
}

// Publish отправляет событие всем сессиям пользователя.
// Оффлайн-пользователь - не ошибка: событие просто никуда не уходит.
// Сессия с заполненным каналом отключается, чтобы не блокировать остальных.
func (manager *WebSocketManager) Publish(userID, event string, payload any) {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	sessions, ok := manager.clients[userID]
	if !ok {
		return
	}

	envelope := Event{Event: event, Payload: payload}

	for client := range sessions {
		select {
		case client.Send <- envelope:
		default:
			// Канал заполнен, клиент отключается
			go func(c *Client) {
				manager.unregister <- c
			}(client)
			logger.Warn("ws client dropped due to full send channel", "user_id", userID)
		}
	}
}

// GetClientCount возвращает количество подключенных сессий
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	count := 0
	for _, sessions := range manager.clients {
		count += len(sessions)
	}
	return count
}

// IsUserConnected проверяет, есть ли у пользователя активная сессия
func (manager *WebSocketManager) IsUserConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, exists := manager.clients[userID]
	return exists
}
