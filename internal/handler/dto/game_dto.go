package dto

import (
	"time"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// GameResponse — представление игры
type GameResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	QuizID       uint   `json:"quiz_id"`
	RoomName     string `json:"room_name"`
	GameMasterID uint   `json:"game_master_id"`
	CurrentRound int    `json:"current_round"`
	Started      bool   `json:"started"`
	Timer        bool   `json:"timer"`
}

// NewGameResponse строит ответ из сущности игры
func NewGameResponse(game *entity.QuizGame) GameResponse {
	return GameResponse{
		ID:           game.ID,
		Name:         game.Name,
		QuizID:       game.QuizID,
		RoomName:     game.RoomName,
		GameMasterID: game.GameMasterID,
		CurrentRound: game.CurrentRound,
		Started:      game.Started,
		Timer:        game.Timer,
	}
}

// NewGameListResponse строит список ответов игр
func NewGameListResponse(games []entity.QuizGame) []GameResponse {
	out := make([]GameResponse, 0, len(games))
	for i := range games {
		out = append(out, NewGameResponse(&games[i]))
	}
	return out
}

// ParticipantResponse — представление участника игры
type ParticipantResponse struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"user_id"`
	GameID         *uint      `json:"game_id,omitempty"`
	Username       string     `json:"username,omitempty"`
	Score          int        `json:"score"`
	Active         bool       `json:"active"`
	Ready          bool       `json:"ready"`
	AnswerTime     *time.Time `json:"answer_time,omitempty"`
	AnswerAttempts int        `json:"answer_attempts"`
	CorrectAnswers int        `json:"correct_answers"`
}

// NewParticipantResponse строит ответ из сущности участника
func NewParticipantResponse(p *entity.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		GameID:         p.GameID,
		Username:       p.User.Username,
		Score:          p.Score,
		Active:         p.Active,
		Ready:          p.Ready,
		AnswerTime:     p.AnswerTime,
		AnswerAttempts: p.AnswerAttempts,
		CorrectAnswers: p.CorrectAnswers,
	}
}

// NewParticipantListResponse строит список ответов участников
func NewParticipantListResponse(participants []entity.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, 0, len(participants))
	for i := range participants {
		out = append(out, NewParticipantResponse(&participants[i]))
	}
	return out
}
