package gameroom

import (
	"log"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/domain/repository"
)

// RoundController отвечает за переходы между раундами игры
type RoundController struct {
	gameRepo     repository.GameRepository
	questionRepo repository.InGameQuestionRepository
	registry     *Registry
}

// NewRoundController создает новый контроллер раундов
func NewRoundController(
	gameRepo repository.GameRepository,
	questionRepo repository.InGameQuestionRepository,
	registry *Registry,
) *RoundController {
	return &RoundController{
		gameRepo:     gameRepo,
		questionRepo: questionRepo,
		registry:     registry,
	}
}

// IsRoundExhausted проверяет, разыграны ли все вопросы раунда
func (c *RoundController) IsRoundExhausted(quizID uint, round int) (bool, error) {
	fresh, err := c.questionRepo.CountFresh(quizID, round)
	if err != nil {
		return false, err
	}
	return fresh == 0, nil
}

// AdvanceIfExhausted переводит игру в следующий раунд, если текущий исчерпан.
// Мьютекс сессии сериализует конкурирующие проверки, а условный UPDATE
// гарантирует, что раунд продвинется ровно один раз даже без сессии.
// Возвращает true, если раунд был продвинут этим вызовом.
func (c *RoundController) AdvanceIfExhausted(game *entity.QuizGame) (bool, error) {
	if session, ok := c.registry.Get(game.ID); ok {
		session.Lock()
		defer session.Unlock()
	}

	exhausted, err := c.IsRoundExhausted(game.QuizID, game.CurrentRound)
	if err != nil {
		return false, err
	}
	if !exhausted {
		return false, nil
	}

	advanced, err := c.gameRepo.AdvanceRound(game.ID, game.CurrentRound)
	if err != nil {
		return false, err
	}
	if advanced {
		log.Printf("[RoundController] Игра #%d: раунд %d исчерпан, переход к раунду %d",
			game.ID, game.CurrentRound, game.CurrentRound+1)
		game.CurrentRound++
	}
	return advanced, nil
}
