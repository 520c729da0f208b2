package entity

import (
	"math/rand"
	"time"
)

const roomCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RoomCodeLength — длина генерируемого кода комнаты
const RoomCodeLength = 8

// QuizGame представляет один запущенный экземпляр игры.
// Quiz здесь — игровая копия (Completed=true), удаляемая при завершении игры.
type QuizGame struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:64;not null" json:"name"`
	QuizID       uint   `gorm:"not null;index" json:"quiz_id"`
	RoomName     string `gorm:"size:32;not null;uniqueIndex" json:"room_name"`
	GameMasterID uint   `gorm:"not null;index" json:"game_master_id"`
	CurrentRound int    `gorm:"not null;default:1" json:"current_round"`
	Started      bool   `gorm:"not null;default:false" json:"started"`
	Timer        bool   `gorm:"not null;default:false" json:"timer"`

	Quiz         Quiz          `gorm:"foreignKey:QuizID" json:"-"`
	Participants []Participant `gorm:"foreignKey:GameID" json:"participants,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizGame) TableName() string {
	return "quiz_games"
}

// RoomTopic возвращает имя broadcast-топика комнаты
func (g *QuizGame) RoomTopic() string {
	return "game_" + g.RoomName
}

// NewRoomCode генерирует случайный код комнаты из строчных букв и цифр
func NewRoomCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(code)
}
