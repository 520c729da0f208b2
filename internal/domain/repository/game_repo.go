package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// GameRepository определяет методы для работы с запущенными играми
type GameRepository interface {
	Create(game *entity.QuizGame) error
	GetByID(id uint) (*entity.QuizGame, error)
	GetByRoomName(roomName string) (*entity.QuizGame, error)
	// GetWithParticipants возвращает игру с активными участниками и их пользователями
	GetWithParticipants(id uint) (*entity.QuizGame, error)
	// ListAvailable возвращает еще не начатые игры
	ListAvailable() ([]entity.QuizGame, error)
	ListByMaster(masterID uint) ([]entity.QuizGame, error)
	Update(game *entity.QuizGame) error
	UpdateFields(gameID uint, updates map[string]interface{}) error
	// AtomicStart переводит игру в Started=true, только если она еще не начата.
	// Возвращает ErrConflict, если игра уже стартовала.
	AtomicStart(gameID uint) error
	// AdvanceRound атомарно увеличивает раунд игры на единицу, только если
	// текущий раунд равен fromRound. Возвращает false без ошибки, если другой
	// процесс уже продвинул раунд.
	AdvanceRound(gameID uint, fromRound int) (bool, error)
	// Finish одной транзакцией деактивирует участников, удаляет игру и ее
	// игровую копию квиза
	Finish(gameID, quizID uint) error
	Delete(id uint) error
}
