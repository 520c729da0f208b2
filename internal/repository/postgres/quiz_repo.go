package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий квизов
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает новый квиз
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	return r.db.Create(quiz).Error
}

// CreateWithContent создает квиз вместе со вложенными темами и игровыми
// вопросами одной транзакцией. GORM каскадно вставляет вложенные слайсы,
// транзакция гарантирует, что игровая копия не останется наполовину собранной.
func (r *QuizRepo) CreateWithContent(quiz *entity.Quiz) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	})
}

// GetByID возвращает квиз по ID
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetWithThemes возвращает квиз с темами и авторскими вопросами
func (r *QuizRepo) GetWithThemes(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.
		Preload("Themes", func(db *gorm.DB) *gorm.DB {
			return db.Order("themes.round, themes.name")
		}).
		Preload("Themes.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.value")
		}).
		First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// ListByCreator возвращает квизы автора с разделами
func (r *QuizRepo) ListByCreator(creatorID uint) ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.
		Preload("Section").
		Where("creator_id = ?", creatorID).
		Order("id DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// ListPlayable возвращает завершенные авторские квизы.
// Игровые копии (creator_id IS NULL) в список не попадают.
func (r *QuizRepo) ListPlayable() ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.
		Preload("Section").
		Where("completed = ? AND creator_id IS NOT NULL", true).
		Order("title").
		Find(&quizzes).Error
	return quizzes, err
}

// Update обновляет информацию о квизе
func (r *QuizRepo) Update(quiz *entity.Quiz) error {
	return r.db.Save(quiz).Error
}

// UpdateFields точечно обновляет поля квиза без полного Save
func (r *QuizRepo) UpdateFields(quizID uint, updates map[string]interface{}) error {
	return r.db.Model(&entity.Quiz{}).
		Where("id = ?", quizID).
		Updates(updates).Error
}

// Delete удаляет квиз. Темы и вопросы уходят каскадом по FK.
func (r *QuizRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Quiz{}, id).Error
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
