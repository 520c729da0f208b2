package repository

import (
	"time"
)

// CacheRepository определяет методы кеша для игровых данных:
// дашборды комнат и блокировки активного участия.
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	// SetNX устанавливает ключ только при его отсутствии.
	// Возвращает true, если ключ был установлен.
	SetNX(key string, value interface{}, expiration time.Duration) (bool, error)
}
