package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с квизами
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	// CreateWithContent создает квиз вместе со вложенными темами и игровыми
	// вопросами одной транзакцией (используется при клонировании в игру)
	CreateWithContent(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	// GetWithThemes возвращает квиз с темами и авторскими вопросами
	GetWithThemes(id uint) (*entity.Quiz, error)
	ListByCreator(creatorID uint) ([]entity.Quiz, error)
	// ListPlayable возвращает завершенные авторские квизы, доступные для игры
	ListPlayable() ([]entity.Quiz, error)
	Update(quiz *entity.Quiz) error
	UpdateFields(quizID uint, updates map[string]interface{}) error
	Delete(id uint) error
}
