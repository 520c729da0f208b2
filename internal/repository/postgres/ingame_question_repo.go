package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// InGameQuestionRepo реализует repository.InGameQuestionRepository
type InGameQuestionRepo struct {
	db *gorm.DB
}

// NewInGameQuestionRepo создает новый репозиторий игровых вопросов
func NewInGameQuestionRepo(db *gorm.DB) *InGameQuestionRepo {
	return &InGameQuestionRepo{db: db}
}

// GetByID возвращает игровой вопрос по ID
func (r *InGameQuestionRepo) GetByID(id uint) (*entity.InGameQuestion, error) {
	var question entity.InGameQuestion
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetWithTheme возвращает игровой вопрос вместе с темой
func (r *InGameQuestionRepo) GetWithTheme(id uint) (*entity.InGameQuestion, error) {
	var question entity.InGameQuestion
	err := r.db.Preload("Theme").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// ListThemesForRound возвращает темы раунда с игровыми вопросами по возрастанию стоимости
func (r *InGameQuestionRepo) ListThemesForRound(quizID uint, round int) ([]entity.Theme, error) {
	var themes []entity.Theme
	err := r.db.
		Preload("InGameQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("in_game_questions.value")
		}).
		Where("quiz_id = ? AND round = ?", quizID, round).
		Order("name").
		Find(&themes).Error
	return themes, err
}

// CountFresh считает неразыгранные вопросы квиза в указанном раунде
func (r *InGameQuestionRepo) CountFresh(quizID uint, round int) (int64, error) {
	var count int64
	err := r.db.Model(&entity.InGameQuestion{}).
		Joins("JOIN themes ON themes.id = in_game_questions.theme_id").
		Where("themes.quiz_id = ? AND themes.round = ? AND in_game_questions.fresh = ?", quizID, round, true).
		Count(&count).Error
	return count, err
}

// MarkPlayed помечает вопрос разыгранным
func (r *InGameQuestionRepo) MarkPlayed(id uint) error {
	return r.db.Model(&entity.InGameQuestion{}).
		Where("id = ?", id).
		Update("fresh", false).Error
}
