package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// ThemeRepo реализует repository.ThemeRepository
type ThemeRepo struct {
	db *gorm.DB
}

// NewThemeRepo создает новый репозиторий тем
func NewThemeRepo(db *gorm.DB) *ThemeRepo {
	return &ThemeRepo{db: db}
}

// Create создает новую тему.
// Unique index idx_themes_quiz_name не пускает дубликат имени внутри квиза.
func (r *ThemeRepo) Create(theme *entity.Theme) error {
	err := r.db.Create(theme).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// GetByID возвращает тему по ID
func (r *ThemeRepo) GetByID(id uint) (*entity.Theme, error) {
	var theme entity.Theme
	err := r.db.First(&theme, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &theme, nil
}

// GetWithQuestions возвращает тему с авторскими вопросами по возрастанию стоимости
func (r *ThemeRepo) GetWithQuestions(id uint) (*entity.Theme, error) {
	var theme entity.Theme
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.value")
		}).
		First(&theme, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &theme, nil
}

// ListByQuiz возвращает темы квиза: сначала распределенные по раундам, затем свободные
func (r *ThemeRepo) ListByQuiz(quizID uint) ([]entity.Theme, error) {
	var themes []entity.Theme
	err := r.db.
		Where("quiz_id = ?", quizID).
		Order("round NULLS LAST, name").
		Find(&themes).Error
	return themes, err
}

// CountByRound считает темы квиза, уже закрепленные за раундом
func (r *ThemeRepo) CountByRound(quizID uint, round int) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Theme{}).
		Where("quiz_id = ? AND round = ?", quizID, round).
		Count(&count).Error
	return count, err
}

// Update обновляет информацию о теме
func (r *ThemeRepo) Update(theme *entity.Theme) error {
	err := r.db.Save(theme).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// UpdateFields точечно обновляет поля темы без полного Save
func (r *ThemeRepo) UpdateFields(themeID uint, updates map[string]interface{}) error {
	return r.db.Model(&entity.Theme{}).
		Where("id = ?", themeID).
		Updates(updates).Error
}

// SwapRounds меняет раунды двух тем местами в одной транзакции
func (r *ThemeRepo) SwapRounds(firstID, secondID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var first, second entity.Theme
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

		if err := tx.Model(&entity.Theme{}).
			Where("id = ?", first.ID).
			Update("round", second.Round).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Theme{}).
			Where("id = ?", second.ID).
			Update("round", first.Round).Error
	})
}

// Delete удаляет тему. Вопросы уходят каскадом по FK.
func (r *ThemeRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Theme{}, id).Error
}
