package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// GameRepo реализует repository.GameRepository
type GameRepo struct {
	db *gorm.DB
}

// NewGameRepo создает новый репозиторий игр
func NewGameRepo(db *gorm.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create создает новую игру
func (r *GameRepo) Create(game *entity.QuizGame) error {
	err := r.db.Create(game).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// GetByID возвращает игру по ID
func (r *GameRepo) GetByID(id uint) (*entity.QuizGame, error) {
	var game entity.QuizGame
	err := r.db.First(&game, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// GetByRoomName возвращает игру по коду комнаты
func (r *GameRepo) GetByRoomName(roomName string) (*entity.QuizGame, error) {
	var game entity.QuizGame
	err := r.db.Where("room_name = ?", roomName).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// GetWithParticipants возвращает игру с активными участниками и их пользователями
func (r *GameRepo) GetWithParticipants(id uint) (*entity.QuizGame, error) {
	var game entity.QuizGame
	err := r.db.
		Preload("Participants", "active = ?", true).
		Preload("Participants.User").
		First(&game, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &game, nil
}

// ListAvailable возвращает еще не начатые игры
func (r *GameRepo) ListAvailable() ([]entity.QuizGame, error) {
	var games []entity.QuizGame
	err := r.db.
		Where("started = ?", false).
		Order("id DESC").
		Find(&games).Error
	return games, err
}

// ListByMaster возвращает игры указанного ведущего
func (r *GameRepo) ListByMaster(masterID uint) ([]entity.QuizGame, error) {
	var games []entity.QuizGame
	err := r.db.
		Where("game_master_id = ?", masterID).
		Order("id DESC").
		Find(&games).Error
	return games, err
}

// Update обновляет информацию об игре
func (r *GameRepo) Update(game *entity.QuizGame) error {
	return r.db.Save(game).Error
}

// UpdateFields точечно обновляет поля игры без полного Save
func (r *GameRepo) UpdateFields(gameID uint, updates map[string]interface{}) error {
	return r.db.Model(&entity.QuizGame{}).
		Where("id = ?", gameID).
		Updates(updates).Error
}

// AtomicStart атомарно переводит игру в Started=true.
// RowsAffected == 0 означает, что игра уже начата или не существует.
func (r *GameRepo) AtomicStart(gameID uint) error {
	result := r.db.Model(&entity.QuizGame{}).
		Where("id = ? AND started = ?", gameID, false).
		Update("started", true)

	if result.Error != nil {
		return fmt.Errorf("start game #%d failed: %w", gameID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: game #%d", repository.ErrGameAlreadyStarted, gameID)
	}
	return nil
}

// AdvanceRound атомарно увеличивает раунд игры на единицу, только если
// текущий раунд равен fromRound. false означает, что другой процесс
// успел продвинуть раунд первым.
func (r *GameRepo) AdvanceRound(gameID uint, fromRound int) (bool, error) {
	result := r.db.Model(&entity.QuizGame{}).
		Where("id = ? AND current_round = ?", gameID, fromRound).
		Update("current_round", gorm.Expr("current_round + 1"))

	if result.Error != nil {
		return false, fmt.Errorf("advance round for game #%d failed: %w", gameID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete удаляет игру
func (r *GameRepo) Delete(id uint) error {
	return r.db.Delete(&entity.QuizGame{}, id).Error
}

// Finish завершает игру одной транзакцией: деактивирует всех активных
// участников, удаляет игру и ее игровую копию квиза. Темы и вопросы копии
// удаляются каскадом; строки участников остаются как история счета,
// их game_id обнуляется по ON DELETE SET NULL.
func (r *GameRepo) Finish(gameID, quizID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Participant{}).
			Where("game_id = ? AND active = ?", gameID, true).
			Updates(map[string]interface{}{"active": false, "ready": false}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.QuizGame{}, gameID).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Quiz{}, quizID).Error
	})
}
