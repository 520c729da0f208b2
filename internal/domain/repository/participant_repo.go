package repository

import (
	"time"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// ParticipantRepository определяет методы для работы с участниками игр
type ParticipantRepository interface {
	Create(participant *entity.Participant) error
	GetByID(id uint) (*entity.Participant, error)
	// GetActiveByUser возвращает единственную активную запись пользователя
	GetActiveByUser(userID uint) (*entity.Participant, error)
	GetActiveByUserInGame(userID, gameID uint) (*entity.Participant, error)
	// ListByGame возвращает активных участников игры по алфавиту имен
	ListByGame(gameID uint) ([]entity.Participant, error)
	// ListByGameByScore возвращает активных участников игры по убыванию счета
	ListByGameByScore(gameID uint) ([]entity.Participant, error)
	Update(participant *entity.Participant) error
	UpdateFields(participantID uint, updates map[string]interface{}) error
	// AddScore изменяет счет участника на delta (может быть отрицательной)
	AddScore(participantID uint, delta int) error
	// MarkReady фиксирует нажатие кнопки и момент нажатия
	MarkReady(participantID uint, at time.Time) error
	// ResetReady снимает готовность и время ответа со всех активных участников игры
	ResetReady(gameID uint) error
	// FirstReady возвращает самого раннего готового участника игры,
	// кроме перечисленных в excludeIDs. ErrNotFound, если таких нет.
	FirstReady(gameID uint, excludeIDs []uint) (*entity.Participant, error)
	// DeactivateByGame массово завершает участие всех активных игроков игры
	DeactivateByGame(gameID uint) error
}
