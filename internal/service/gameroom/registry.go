package gameroom

import (
	"context"
	"sync"
)

// Registry хранит игровые сессии текущего процесса.
// Единственный источник истины о том, какая сессия обслуживает какую комнату.
type Registry struct {
	mu       sync.Mutex
	sessions map[uint]*Session
}

// Session — внутрипроцессное состояние одной игровой комнаты:
// мьютекс для сериализации переходов раунда и отмена таймера.
type Session struct {
	GameID uint
	Topic  string

	mu          sync.Mutex
	timerCancel context.CancelFunc
}

// NewRegistry создает новый реестр сессий
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uint]*Session),
	}
}

// Register создает сессию для игры или возвращает уже существующую
func (r *Registry) Register(gameID uint, topic string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[gameID]; ok {
		return session
	}
	session := &Session{GameID: gameID, Topic: topic}
	r.sessions[gameID] = session
	return session
}

// Get возвращает сессию игры, если она зарегистрирована
func (r *Registry) Get(gameID uint) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[gameID]
	return session, ok
}

// Remove останавливает таймер сессии и удаляет ее из реестра
func (r *Registry) Remove(gameID uint) {
	r.mu.Lock()
	session, ok := r.sessions[gameID]
	delete(r.sessions, gameID)
	r.mu.Unlock()

	if ok {
		session.StopTimer()
	}
}

// Lock захватывает мьютекс сессии
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock освобождает мьютекс сессии
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// SetTimerCancel запоминает функцию отмены таймера, останавливая предыдущий
func (s *Session) SetTimerCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	previous := s.timerCancel
	s.timerCancel = cancel
	s.mu.Unlock()

	if previous != nil {
		previous()
	}
}

// StopTimer отменяет запущенный таймер сессии, если он есть
func (s *Session) StopTimer() {
	s.mu.Lock()
	cancel := s.timerCancel
	s.timerCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
