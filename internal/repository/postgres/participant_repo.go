package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// ParticipantRepo реализует repository.ParticipantRepository
type ParticipantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo создает новый репозиторий участников
func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Create создает запись участия.
// Partial unique index idx_participants_single_active не пускает второе
// активное участие того же пользователя.
func (r *ParticipantRepo) Create(participant *entity.Participant) error {
	err := r.db.Create(participant).Error
	if err != nil && isUniqueViolation(err) {
		return repository.ErrAlreadyInGame
	}
	return err
}

// GetByID возвращает участника по ID
func (r *ParticipantRepo) GetByID(id uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.First(&participant, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// GetActiveByUser возвращает единственную активную запись пользователя
func (r *ParticipantRepo) GetActiveByUser(userID uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.
		Where("user_id = ? AND active = ?", userID, true).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// GetActiveByUserInGame возвращает активную запись пользователя в конкретной игре
func (r *ParticipantRepo) GetActiveByUserInGame(userID, gameID uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.
		Where("user_id = ? AND game_id = ? AND active = ?", userID, gameID, true).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// ListByGame возвращает активных участников игры по алфавиту имен
func (r *ParticipantRepo) ListByGame(gameID uint) ([]entity.Participant, error) {
	var participants []entity.Participant
	err := r.db.
		Preload("User").
		Joins("JOIN users ON users.id = participants.user_id").
		Where("participants.game_id = ? AND participants.active = ?", gameID, true).
		Order("users.username").
		Find(&participants).Error
	return participants, err
}

// ListByGameByScore возвращает активных участников игры по убыванию счета
func (r *ParticipantRepo) ListByGameByScore(gameID uint) ([]entity.Participant, error) {
	var participants []entity.Participant
	err := r.db.
		Preload("User").
		Where("game_id = ? AND active = ?", gameID, true).
		Order("score DESC").
		Find(&participants).Error
	return participants, err
}

// Update обновляет информацию об участнике
func (r *ParticipantRepo) Update(participant *entity.Participant) error {
	return r.db.Save(participant).Error
}

// UpdateFields точечно обновляет поля участника без полного Save
func (r *ParticipantRepo) UpdateFields(participantID uint, updates map[string]interface{}) error {
	return r.db.Model(&entity.Participant{}).
		Where("id = ?", participantID).
		Updates(updates).Error
}

// AddScore изменяет счет участника на delta через gorm.Expr
func (r *ParticipantRepo) AddScore(participantID uint, delta int) error {
	return r.db.Model(&entity.Participant{}).
		Where("id = ?", participantID).
		Update("score", gorm.Expr("score + ?", delta)).Error
}

// MarkReady фиксирует нажатие кнопки и момент нажатия
func (r *ParticipantRepo) MarkReady(participantID uint, at time.Time) error {
	return r.db.Model(&entity.Participant{}).
		Where("id = ?", participantID).
		Updates(map[string]interface{}{
			"ready":       true,
			"answer_time": at,
		}).Error
}

// ResetReady снимает готовность и время ответа со всех активных участников игры
func (r *ParticipantRepo) ResetReady(gameID uint) error {
	return r.db.Model(&entity.Participant{}).
		Where("game_id = ? AND active = ?", gameID, true).
		Updates(map[string]interface{}{
			"ready":       false,
			"answer_time": nil,
		}).Error
}

// FirstReady возвращает самого раннего готового участника игры, кроме excludeIDs
func (r *ParticipantRepo) FirstReady(gameID uint, excludeIDs []uint) (*entity.Participant, error) {
	var participant entity.Participant
	query := r.db.
		Preload("User").
		Where("game_id = ? AND active = ? AND ready = ?", gameID, true, true)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}
	err := query.Order("answer_time").First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// DeactivateByGame массово завершает участие всех активных игроков игры
func (r *ParticipantRepo) DeactivateByGame(gameID uint) error {
	return r.db.Model(&entity.Participant{}).
		Where("game_id = ? AND active = ?", gameID, true).
		Update("active", false).Error
}
