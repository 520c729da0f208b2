package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// ListByTheme возвращает вопросы темы по возрастанию стоимости
func (r *QuestionRepo) ListByTheme(themeID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.
		Where("theme_id = ?", themeID).
		Order("value").
		Find(&questions).Error
	return questions, err
}

// Update обновляет информацию о вопросе
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// UpdateFields точечно обновляет поля вопроса без полного Save
func (r *QuestionRepo) UpdateFields(questionID uint, updates map[string]interface{}) error {
	return r.db.Model(&entity.Question{}).
		Where("id = ?", questionID).
		Updates(updates).Error
}

// SwapValues меняет стоимости двух вопросов местами в одной транзакции
func (r *QuestionRepo) SwapValues(firstID, secondID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var first, second entity.Question
		if err := tx.First(&first, firstID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		if err := tx.First(&second, secondID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&entity.Question{}).
			Where("id = ?", first.ID).
			Update("value", second.Value).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Question{}).
			Where("id = ?", second.ID).
			Update("value", first.Value).Error
	})
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Question{}, id).Error
}
