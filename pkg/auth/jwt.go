package auth

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

const wsTicketUsage = "ws_ticket"

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
	// Usage отличает короткоживущий WS тикет от обычного access токена
	Usage string `json:"usage,omitempty"`
}

// JWTService предоставляет методы для работы с JWT
type JWTService struct {
	secretKey      string
	expirationHrs  int
	wsTicketExpiry time.Duration

	// Черный список для инвалидированных пользователей (in-memory)
	invalidatedUsers map[uint]time.Time
	mu               sync.RWMutex
}

// NewJWTService создает новый сервис JWT
func NewJWTService(secretKey string, expirationHrs, wsTicketExpirySec int) (*JWTService, error) {
	if secretKey == "" {
		return nil, errors.New("JWT secret key is required")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	wsExpiry := time.Duration(wsTicketExpirySec) * time.Second
	if wsExpiry <= 0 {
		wsExpiry = 60 * time.Second
	}

	service := &JWTService{
		secretKey:        secretKey,
		expirationHrs:    expirationHrs,
		wsTicketExpiry:   wsExpiry,
		invalidatedUsers: make(map[uint]time.Time),
	}

	go service.runCleanupRoutine()

	return service, nil
}

// GenerateToken создает access токен для пользователя
func (s *JWTService) GenerateToken(userID uint, username string) (string, error) {
	claims := &JWTCustomClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.expirationHrs) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ParseToken проверяет access токен и возвращает его claims
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Usage != "" {
		return nil, errors.New("invalid token usage")
	}
	if s.isInvalidated(claims.UserID, claims.IssuedAt) {
		return nil, errors.New("token is invalidated")
	}
	return claims, nil
}

// GenerateWSTicket создает короткоживущий JWT для аутентификации WebSocket
func (s *JWTService) GenerateWSTicket(userID uint, username string) (string, error) {
	claims := &JWTCustomClaims{
		UserID:   userID,
		Username: username,
		Usage:    wsTicketUsage,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.wsTicketExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ParseWSTicket проверяет JWT, используемый как WS тикет
func (s *JWTService) ParseWSTicket(ticketString string) (*JWTCustomClaims, error) {
	claims, err := s.parse(ticketString)
	if err != nil {
		return nil, err
	}
	if claims.Usage != wsTicketUsage {
		return nil, errors.New("invalid ticket usage")
	}
	if s.isInvalidated(claims.UserID, claims.IssuedAt) {
		return nil, errors.New("ticket is invalidated")
	}
	return claims, nil
}

// parse проверяет подпись и срок жизни токена
func (s *JWTService) parse(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// InvalidateTokensForUser отзывает все токены пользователя, выданные до текущего момента
func (s *JWTService) InvalidateTokensForUser(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidatedUsers[userID] = time.Now()
	log.Printf("[JWTService] Токены пользователя #%d инвалидированы", userID)
}

// isInvalidated проверяет, выдан ли токен до момента отзыва
func (s *JWTService) isInvalidated(userID uint, issuedAt *jwt.NumericDate) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invalidatedAt, ok := s.invalidatedUsers[userID]
	if !ok {
		return false
	}
	return issuedAt == nil || issuedAt.Time.Before(invalidatedAt)
}

// runCleanupRoutine периодически убирает устаревшие записи об инвалидации.
// Запись старше максимального срока жизни токена уже ни на что не влияет.
func (s *JWTService) runCleanupRoutine() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		threshold := time.Now().Add(-time.Duration(s.expirationHrs) * time.Hour)

		s.mu.Lock()
		for userID, invalidatedAt := range s.invalidatedUsers {
			if invalidatedAt.Before(threshold) {
				delete(s.invalidatedUsers, userID)
			}
		}
		s.mu.Unlock()
	}
}
