package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с авторскими вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	ListByTheme(themeID uint) ([]entity.Question, error)
	Update(question *entity.Question) error
	UpdateFields(questionID uint, updates map[string]interface{}) error
	// SwapValues меняет стоимости двух вопросов местами в одной транзакции
	SwapValues(firstID, secondID uint) error
	Delete(id uint) error
}

// InGameQuestionRepository определяет методы для работы с игровыми копиями вопросов
type InGameQuestionRepository interface {
	GetByID(id uint) (*entity.InGameQuestion, error)
	// GetWithTheme возвращает игровой вопрос вместе с темой (для проверки квиза и раунда)
	GetWithTheme(id uint) (*entity.InGameQuestion, error)
	// ListThemesForRound возвращает темы раунда с игровыми вопросами по возрастанию стоимости
	ListThemesForRound(quizID uint, round int) ([]entity.Theme, error)
	// CountFresh считает неразыгранные вопросы квиза в указанном раунде
	CountFresh(quizID uint, round int) (int64, error)
	// MarkPlayed помечает вопрос разыгранным (Fresh=false)
	MarkPlayed(id uint) error
}
