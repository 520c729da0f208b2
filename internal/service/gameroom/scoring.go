package gameroom

import (
	"errors"
	"fmt"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// ErrNoAttempts означает, что у участника нет ни одной попытки ответа,
// и точность посчитать нельзя.
var ErrNoAttempts = errors.New("participant has no answer attempts")

// ScoreCorrect возвращает прибавку за верный ответ: раунд умножить на стоимость
func ScoreCorrect(round, value int) int {
	return round * value
}

// ScoreWrong возвращает штраф за неверный ответ
func ScoreWrong(round, value int) int {
	return -round * value
}

// ApplyCorrect начисляет участнику очки за верный ответ и учитывает попытку
func ApplyCorrect(p *entity.Participant, round, value int) {
	p.Score += ScoreCorrect(round, value)
	p.AnswerAttempts++
	p.CorrectAnswers++
}

// ApplyWrong списывает с участника очки за неверный ответ и учитывает попытку
func ApplyWrong(p *entity.Participant, round, value int) {
	p.Score += ScoreWrong(round, value)
	p.AnswerAttempts++
}

// ApplyWagerCorrect начисляет участнику его ставку супер-раунда
func ApplyWagerCorrect(p *entity.Participant) error {
	if p.SuperBet == nil {
		return fmt.Errorf("%w: super bet is not placed", apperrors.ErrValidation)
	}
	p.Score += *p.SuperBet
	p.AnswerAttempts++
	p.CorrectAnswers++
	return nil
}

// ApplyWagerWrong списывает с участника его ставку супер-раунда
func ApplyWagerWrong(p *entity.Participant) error {
	if p.SuperBet == nil {
		return fmt.Errorf("%w: super bet is not placed", apperrors.ErrValidation)
	}
	p.Score -= *p.SuperBet
	p.AnswerAttempts++
	return nil
}

// ValidateWager проверяет ставку супер-раунда: не отрицательная и не больше
// текущего счета игрока.
func ValidateWager(bet, score int) error {
	if bet < 0 {
		return fmt.Errorf("%w: bet must not be negative", apperrors.ErrValidation)
	}
	if bet > score {
		return fmt.Errorf("%w: bet exceeds current score", apperrors.ErrValidation)
	}
	return nil
}

// Accuracy возвращает точность участника в процентах (целая часть).
// При нуле попыток деление не определено, возвращается ErrNoAttempts.
func Accuracy(correct, attempts int) (int, error) {
	if attempts == 0 {
		return 0, ErrNoAttempts
	}
	return correct * 100 / attempts, nil
}
