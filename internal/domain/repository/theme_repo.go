package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// ThemeRepository определяет методы для работы с темами квиза
type ThemeRepository interface {
	Create(theme *entity.Theme) error
	GetByID(id uint) (*entity.Theme, error)
	// GetWithQuestions возвращает тему с авторскими вопросами по возрастанию стоимости
	GetWithQuestions(id uint) (*entity.Theme, error)
	ListByQuiz(quizID uint) ([]entity.Theme, error)
	// CountByRound считает темы квиза, уже закрепленные за раундом
	CountByRound(quizID uint, round int) (int64, error)
	Update(theme *entity.Theme) error
	UpdateFields(themeID uint, updates map[string]interface{}) error
	// SwapRounds меняет раунды двух тем местами в одной транзакции
	SwapRounds(firstID, secondID uint) error
	Delete(id uint) error
}
