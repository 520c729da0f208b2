package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
	"github.com/yourusername/quizroom-api/internal/service/gameroom"
)

const (
	// TTL кеша турнирной таблицы в redis
	dashboardCacheTTL = 30 * time.Second
	// TTL блокировки «один активный участник на пользователя»
	activeLockTTL = 24 * time.Hour
	// Длительность серверного отсчета вопроса
	questionCountdownSeconds = 30
	// Попытки сгенерировать уникальный код комнаты
	roomCodeAttempts = 5
)

// AnswerResult — итог обработки ответа игрока
type AnswerResult struct {
	Participant *entity.Participant `json:"participant"`
	Delta       int                 `json:"delta"`
	// NextPlayer — следующий готовый игрок после неверного ответа (nil, если никого)
	NextPlayer *entity.Participant `json:"next_player,omitempty"`
}

// WagerEntry — ответ одного игрока в супер-раунде
type WagerEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Answer   string `json:"answer"`
	Bet      int    `json:"bet"`
}

// WagerAnswers — собранные ответы супер-раунда.
// Ready=false означает, что кто-то из участвующих игроков еще не ответил.
type WagerAnswers struct {
	Ready   bool         `json:"ready"`
	Entries []WagerEntry `json:"entries,omitempty"`
}

// DashboardRow — строка турнирной таблицы
type DashboardRow struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// ResultRow — строка итоговой таблицы с точностью ответов
type ResultRow struct {
	Username       string `json:"username"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correct_answers"`
	AnswerAttempts int    `json:"answer_attempts"`
	// Accuracy — процент верных ответов; 0 при нуле попыток
	Accuracy int `json:"accuracy"`
}

// GameService управляет жизненным циклом игровых сессий:
// клонирование квиза в игру, участники, счет, раунды, завершение.
type GameService struct {
	// appCtx живет все время работы процесса; от него порождаются
	// контексты таймеров комнат, чтобы переживать HTTP запросы
	appCtx          context.Context
	gameRepo        repository.GameRepository
	quizRepo        repository.QuizRepository
	participantRepo repository.ParticipantRepository
	questionRepo    repository.InGameQuestionRepository
	userRepo        repository.UserRepository
	cacheRepo       repository.CacheRepository
	registry        *gameroom.Registry
	rounds          *gameroom.RoundController
	timer           *gameroom.Timer
	db              *gorm.DB
}

// NewGameService создает новый сервис игровых сессий
func NewGameService(
	appCtx context.Context,
	gameRepo repository.GameRepository,
	quizRepo repository.QuizRepository,
	participantRepo repository.ParticipantRepository,
	questionRepo repository.InGameQuestionRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	registry *gameroom.Registry,
	rounds *gameroom.RoundController,
	timer *gameroom.Timer,
	db *gorm.DB,
) *GameService {
	return &GameService{
		appCtx:          appCtx,
		gameRepo:        gameRepo,
		quizRepo:        quizRepo,
		participantRepo: participantRepo,
		questionRepo:    questionRepo,
		userRepo:        userRepo,
		cacheRepo:       cacheRepo,
		registry:        registry,
		rounds:          rounds,
		timer:           timer,
		db:              db,
	}
}

// buildGameClone собирает игровую копию квиза в памяти: темы с раундами и
// авторские вопросы, превращенные в свежие InGameQuestion. Авторская копия
// не меняется.
func buildGameClone(prototype *entity.Quiz) *entity.Quiz {
	clone := &entity.Quiz{
		Title:     prototype.Title,
		SectionID: prototype.SectionID,
		Completed: true,
	}
	for _, theme := range prototype.Themes {
		clonedTheme := entity.Theme{
			Name:  theme.Name,
			Round: theme.Round,
		}
		for _, question := range theme.Questions {
			clonedTheme.InGameQuestions = append(clonedTheme.InGameQuestions, entity.InGameQuestion{
				Text:  question.Text,
				Value: question.Value,
				Type:  question.Type,
				Image: question.Image,
				Audio: question.Audio,
				Fresh: true,
			})
		}
		clone.Themes = append(clone.Themes, clonedTheme)
	}
	return clone
}

// CreateFromQuiz создает игру из авторского квиза: клонирует квиз с темами
// и вопросами, заводит QuizGame со сгенерированным кодом комнаты и
// регистрирует сессию.
func (s *GameService) CreateFromQuiz(prototypeQuizID uint, gameName string, masterID uint, withTimer bool) (*entity.QuizGame, error) {
	gameName = strings.TrimSpace(gameName)
	if gameName == "" {
		return nil, fmt.Errorf("%w: game name is required", apperrors.ErrValidation)
	}

	prototype, err := s.quizRepo.GetWithThemes(prototypeQuizID)
	if err != nil {
		return nil, err
	}

	clone := buildGameClone(prototype)
	if err := s.quizRepo.CreateWithContent(clone); err != nil {
		return nil, fmt.Errorf("failed to clone quiz #%d: %w", prototypeQuizID, err)
	}

	var game *entity.QuizGame
	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		game = &entity.QuizGame{
			Name:         gameName,
			QuizID:       clone.ID,
			RoomName:     entity.NewRoomCode(entity.RoomCodeLength),
			GameMasterID: masterID,
			CurrentRound: 1,
			Timer:        withTimer,
		}
		err = s.gameRepo.Create(game)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			break
		}
		// Коллизия кода комнаты, пробуем новый
	}
	if err != nil {
		// Игра не создалась, клон больше никому не нужен
		if cleanupErr := s.quizRepo.Delete(clone.ID); cleanupErr != nil {
			log.Printf("[GameService] Не удалось удалить осиротевший клон квиза #%d: %v", clone.ID, cleanupErr)
		}
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	s.registry.Register(game.ID, game.RoomTopic())
	log.Printf("[GameService] Игра #%d (%s) создана из квиза #%d, комната %s",
		game.ID, game.Name, prototypeQuizID, game.RoomName)
	return game, nil
}

// activeLockKey — ключ redis-блокировки активного участия пользователя
func activeLockKey(userID uint) string {
	return fmt.Sprintf("active_participant:user:%d", userID)
}

// dashboardKey — ключ кеша турнирной таблицы игры
func dashboardKey(gameID uint) string {
	return fmt.Sprintf("game:%d:dashboard", gameID)
}

// JoinGame добавляет пользователя в игру. Повторный вход в ту же игру
// идемпотентен; активное участие в другой игре запрещено (redis SetNX плюс
// partial unique index в БД).
func (s *GameService) JoinGame(gameID, userID uint) (*entity.Participant, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.participantRepo.GetActiveByUserInGame(userID, gameID); err == nil {
		return existing, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	acquired, err := s.cacheRepo.SetNX(activeLockKey(userID), gameID, activeLockTTL)
	if err != nil {
		log.Printf("[GameService] Redis недоступен при входе пользователя #%d, остается защита БД: %v", userID, err)
	} else if !acquired {
		return nil, fmt.Errorf("%w: %w: user #%d", apperrors.ErrConflict, repository.ErrAlreadyInGame, userID)
	}

	participant := &entity.Participant{
		UserID: userID,
		GameID: &game.ID,
		Active: true,
	}
	if err := s.participantRepo.Create(participant); err != nil {
		if releaseErr := s.cacheRepo.Delete(activeLockKey(userID)); releaseErr != nil {
			log.Printf("[GameService] Не удалось снять блокировку пользователя #%d: %v", userID, releaseErr)
		}
		if errors.Is(err, repository.ErrAlreadyInGame) {
			return nil, fmt.Errorf("%w: %w: user #%d", apperrors.ErrConflict, repository.ErrAlreadyInGame, userID)
		}
		return nil, err
	}

	s.invalidateDashboard(gameID)
	log.Printf("[GameService] Пользователь #%d вошел в игру #%d", userID, gameID)
	return participant, nil
}

// StartGame запускает игру. Запуск одноразовый, повторный дает конфликт.
func (s *GameService) StartGame(gameID, masterID uint) error {
	game, err := s.masteredGame(gameID, masterID)
	if err != nil {
		return err
	}

	if err := s.gameRepo.AtomicStart(gameID); err != nil {
		if errors.Is(err, repository.ErrGameAlreadyStarted) {
			return fmt.Errorf("%w: game #%d is already started", apperrors.ErrConflict, gameID)
		}
		return err
	}

	session := s.registry.Register(gameID, game.RoomTopic())
	if game.Timer {
		s.timer.Start(s.appCtx, session, questionCountdownSeconds)
	}

	log.Printf("[GameService] Игра #%d запущена", gameID)
	return nil
}

// masteredGame возвращает игру, если ею управляет masterID
func (s *GameService) masteredGame(gameID, masterID uint) (*entity.QuizGame, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, err
	}
	if game.GameMasterID != masterID {
		return nil, fmt.Errorf("%w: game #%d has another master", apperrors.ErrForbidden, gameID)
	}
	return game, nil
}

// CurrentRoundThemes возвращает темы текущего раунда с игровыми вопросами
func (s *GameService) CurrentRoundThemes(gameID uint) ([]entity.Theme, int, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, 0, err
	}
	themes, err := s.questionRepo.ListThemesForRound(game.QuizID, game.CurrentRound)
	if err != nil {
		return nil, 0, err
	}
	return themes, game.CurrentRound, nil
}

// CheckRoundCompleted проверяет, исчерпан ли текущий раунд, и при
// необходимости продвигает игру на следующий. Возвращает признак
// исчерпанности и актуальный номер раунда.
func (s *GameService) CheckRoundCompleted(gameID uint) (bool, int, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return false, 0, err
	}

	advanced, err := s.rounds.AdvanceIfExhausted(game)
	if err != nil {
		return false, game.CurrentRound, err
	}
	if !advanced {
		// Либо раунд не исчерпан, либо его продвинул конкурирующий вызов
		fresh, err := s.gameRepo.GetByID(gameID)
		if err != nil {
			return false, game.CurrentRound, err
		}
		return fresh.CurrentRound > game.CurrentRound, fresh.CurrentRound, nil
	}
	return true, game.CurrentRound, nil
}

// gameQuestion возвращает игровой вопрос, проверяя, что он принадлежит квизу игры
func (s *GameService) gameQuestion(game *entity.QuizGame, questionID uint) (*entity.InGameQuestion, error) {
	question, err := s.questionRepo.GetWithTheme(questionID)
	if err != nil {
		return nil, err
	}
	if question.Theme.QuizID != game.QuizID {
		return nil, fmt.Errorf("%w: question #%d is not part of game #%d", apperrors.ErrNotFound, questionID, game.ID)
	}
	return question, nil
}

// SubmitAnswer обрабатывает ответ игрока на обычный вопрос.
// Верный ответ: плюс раунд*стоимость, вопрос разыгран, готовность всех
// игроков сброшена. Неверный: минус раунд*стоимость, вопрос остается в игре,
// готовность снимается только с ответившего, возвращается следующий готовый.
func (s *GameService) SubmitAnswer(gameID, userID, questionID uint, correct bool) (*AnswerResult, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, err
	}
	participant, err := s.participantRepo.GetActiveByUserInGame(userID, gameID)
	if err != nil {
		return nil, err
	}
	question, err := s.gameQuestion(game, questionID)
	if err != nil {
		return nil, err
	}
	if !question.Fresh {
		return nil, fmt.Errorf("%w: question #%d is already played", apperrors.ErrConflict, questionID)
	}

	result := &AnswerResult{Participant: participant}
	if correct {
		result.Delta = gameroom.ScoreCorrect(game.CurrentRound, question.Value)
		gameroom.ApplyCorrect(participant, game.CurrentRound, question.Value)

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(participant).Error; err != nil {
				return err
			}
			if err := tx.Model(&entity.InGameQuestion{}).
				Where("id = ?", question.ID).
				Update("fresh", false).Error; err != nil {
				return err
			}
			// Все игроки снова могут жать кнопку
			return tx.Model(&entity.Participant{}).
				Where("game_id = ? AND active = ?", gameID, true).
				Updates(map[string]interface{}{"ready": false, "answer_time": nil}).Error
		})
		if err != nil {
			return nil, fmt.Errorf("failed to apply correct answer: %w", err)
		}
	} else {
		result.Delta = gameroom.ScoreWrong(game.CurrentRound, question.Value)
		gameroom.ApplyWrong(participant, game.CurrentRound, question.Value)
		participant.Ready = false
		participant.AnswerTime = nil

		if err := s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Save(participant).Error
		}); err != nil {
			return nil, fmt.Errorf("failed to apply wrong answer: %w", err)
		}

		next, err := s.participantRepo.FirstReady(gameID, nil)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		result.NextPlayer = next
	}

	s.invalidateDashboard(gameID)
	log.Printf("[GameService] Игра #%d: пользователь #%d ответил на вопрос #%d (верно=%v, дельта=%d)",
		gameID, userID, questionID, correct, result.Delta)
	return result, nil
}

// MarkNobodyAnswered снимает вопрос с розыгрыша без изменения счета
func (s *GameService) MarkNobodyAnswered(gameID, questionID uint) error {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return err
	}
	question, err := s.gameQuestion(game, questionID)
	if err != nil {
		return err
	}

	if err := s.questionRepo.MarkPlayed(question.ID); err != nil {
		return err
	}
	return s.participantRepo.ResetReady(gameID)
}

// SubmitWager фиксирует ставку игрока в супер-раунде.
// Отрицательная ставка и ставка выше текущего счета отклоняются.
func (s *GameService) SubmitWager(userID uint, bet int) (*entity.Participant, error) {
	participant, err := s.participantRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if err := gameroom.ValidateWager(bet, participant.Score); err != nil {
		return nil, err
	}

	if err := s.participantRepo.UpdateFields(participant.ID, map[string]interface{}{
		"super_bet": bet,
	}); err != nil {
		return nil, err
	}
	participant.SuperBet = &bet
	return participant, nil
}

// SubmitWagerAnswer записывает текст ответа супер-раунда и помечает игрока готовым
func (s *GameService) SubmitWagerAnswer(userID uint, answer string) (*entity.Participant, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer text is required", apperrors.ErrValidation)
	}

	participant, err := s.participantRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.participantRepo.UpdateFields(participant.ID, map[string]interface{}{
		"super_answer": answer,
		"ready":        true,
		"answer_time":  now,
	}); err != nil {
		return nil, err
	}
	participant.SuperAnswer = &answer
	participant.Ready = true
	participant.AnswerTime = &now
	return participant, nil
}

// ResolveWager засчитывает итог супер-раунда игроку: плюс или минус его ставка
func (s *GameService) ResolveWager(gameID, userID uint, correct bool) (*entity.Participant, error) {
	participant, err := s.participantRepo.GetActiveByUserInGame(userID, gameID)
	if err != nil {
		return nil, err
	}

	if correct {
		err = gameroom.ApplyWagerCorrect(participant)
	} else {
		err = gameroom.ApplyWagerWrong(participant)
	}
	if err != nil {
		return nil, err
	}

	// Итог подведен, готовность и момент ответа больше не актуальны
	participant.Ready = false
	participant.AnswerTime = nil

	if err := s.participantRepo.Update(participant); err != nil {
		return nil, err
	}
	s.invalidateDashboard(gameID)
	return participant, nil
}

// CollectWagerAnswers собирает ответы супер-раунда. Участвуют только игроки
// с положительным счетом; если кто-то из них еще не готов, ответы не
// раскрываются. Когда все готовы, вопрос снимается с розыгрыша.
func (s *GameService) CollectWagerAnswers(gameID, questionID uint) (*WagerAnswers, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, err
	}
	question, err := s.gameQuestion(game, questionID)
	if err != nil {
		return nil, err
	}

	players, err := s.participantRepo.ListByGame(gameID)
	if err != nil {
		return nil, err
	}

	answers := &WagerAnswers{Ready: true}
	for _, p := range players {
		if p.Score <= 0 {
			continue
		}
		if !p.Ready {
			return &WagerAnswers{Ready: false}, nil
		}
		entry := WagerEntry{
			UserID:   p.UserID,
			Username: p.User.Username,
		}
		if p.SuperAnswer != nil {
			entry.Answer = *p.SuperAnswer
		}
		if p.SuperBet != nil {
			entry.Bet = *p.SuperBet
		}
		answers.Entries = append(answers.Entries, entry)
	}

	if err := s.questionRepo.MarkPlayed(question.ID); err != nil {
		return nil, err
	}
	if err := s.participantRepo.ResetReady(gameID); err != nil {
		return nil, err
	}
	return answers, nil
}

// ReadyUp фиксирует нажатие кнопки игроком
func (s *GameService) ReadyUp(userID uint) (*entity.Participant, error) {
	participant, err := s.participantRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if participant.Ready {
		return participant, nil
	}

	now := time.Now()
	if err := s.participantRepo.MarkReady(participant.ID, now); err != nil {
		return nil, err
	}
	participant.Ready = true
	participant.AnswerTime = &now
	return participant, nil
}

// FirstReadyPlayer возвращает игрока, нажавшего кнопку первым
func (s *GameService) FirstReadyPlayer(gameID uint) (*entity.Participant, error) {
	return s.participantRepo.FirstReady(gameID, nil)
}

// PlayerScore возвращает активное участие пользователя с текущим счетом
func (s *GameService) PlayerScore(userID uint) (*entity.Participant, error) {
	return s.participantRepo.GetActiveByUser(userID)
}

// ListPlayers возвращает активных игроков игры по алфавиту
func (s *GameService) ListPlayers(gameID uint) ([]entity.Participant, error) {
	if _, err := s.gameRepo.GetByID(gameID); err != nil {
		return nil, err
	}
	return s.participantRepo.ListByGame(gameID)
}

// Dashboard возвращает турнирную таблицу игры по убыванию счета.
// Результат кешируется в redis на короткий TTL.
func (s *GameService) Dashboard(gameID uint) ([]DashboardRow, error) {
	var cached []DashboardRow
	if err := s.cacheRepo.GetJSON(dashboardKey(gameID), &cached); err == nil {
		return cached, nil
	}

	players, err := s.participantRepo.ListByGameByScore(gameID)
	if err != nil {
		return nil, err
	}

	rows := make([]DashboardRow, 0, len(players))
	for _, p := range players {
		rows = append(rows, DashboardRow{
			UserID:   p.UserID,
			Username: p.User.Username,
			Score:    p.Score,
		})
	}

	if err := s.cacheRepo.SetJSON(dashboardKey(gameID), rows, dashboardCacheTTL); err != nil {
		log.Printf("[GameService] Не удалось закешировать таблицу игры #%d: %v", gameID, err)
	}
	return rows, nil
}

// invalidateDashboard сбрасывает кеш турнирной таблицы после изменения счета
func (s *GameService) invalidateDashboard(gameID uint) {
	if err := s.cacheRepo.Delete(dashboardKey(gameID)); err != nil {
		log.Printf("[GameService] Не удалось сбросить кеш таблицы игры #%d: %v", gameID, err)
	}
}

// ResultsTable возвращает итоговую таблицу с точностью ответов.
// Точность при нуле попыток определена как ноль.
func (s *GameService) ResultsTable(gameID uint) ([]ResultRow, error) {
	players, err := s.participantRepo.ListByGameByScore(gameID)
	if err != nil {
		return nil, err
	}

	rows := make([]ResultRow, 0, len(players))
	for _, p := range players {
		accuracy, err := gameroom.Accuracy(p.CorrectAnswers, p.AnswerAttempts)
		if err != nil {
			accuracy = 0
		}
		rows = append(rows, ResultRow{
			Username:       p.User.Username,
			Score:          p.Score,
			CorrectAnswers: p.CorrectAnswers,
			AnswerAttempts: p.AnswerAttempts,
			Accuracy:       accuracy,
		})
	}
	return rows, nil
}

// AvailableGames возвращает еще не начатые игры
func (s *GameService) AvailableGames() ([]entity.QuizGame, error) {
	return s.gameRepo.ListAvailable()
}

// RoomNameForUser возвращает комнату пользователя: сперва как ведущего
// не начатой или идущей игры, затем как активного игрока.
func (s *GameService) RoomNameForUser(userID uint) (string, error) {
	mastered, err := s.gameRepo.ListByMaster(userID)
	if err != nil {
		return "", err
	}
	if len(mastered) > 0 {
		return mastered[0].RoomName, nil
	}

	participant, err := s.participantRepo.GetActiveByUser(userID)
	if err != nil {
		return "", err
	}
	if participant.GameID == nil {
		return "", fmt.Errorf("%w: participant #%d is detached from any game", apperrors.ErrNotFound, participant.ID)
	}
	game, err := s.gameRepo.GetByID(*participant.GameID)
	if err != nil {
		return "", err
	}
	return game.RoomName, nil
}

// GameByRoomName возвращает игру по коду комнаты
func (s *GameService) GameByRoomName(roomName string) (*entity.QuizGame, error) {
	return s.gameRepo.GetByRoomName(roomName)
}

// EndGame завершает игру: массово деактивирует участников, удаляет игру и
// ее игровую копию квиза одной транзакцией, снимает redis-блокировки и
// убирает сессию из реестра.
func (s *GameService) EndGame(gameID, masterID uint) error {
	game, err := s.masteredGame(gameID, masterID)
	if err != nil {
		return err
	}

	players, err := s.participantRepo.ListByGame(gameID)
	if err != nil {
		return err
	}

	if err := s.gameRepo.Finish(gameID, game.QuizID); err != nil {
		return fmt.Errorf("failed to end game #%d: %w", gameID, err)
	}

	for _, p := range players {
		if err := s.cacheRepo.Delete(activeLockKey(p.UserID)); err != nil {
			log.Printf("[GameService] Не удалось снять блокировку пользователя #%d: %v", p.UserID, err)
		}
	}
	s.invalidateDashboard(gameID)
	s.registry.Remove(gameID)

	log.Printf("[GameService] Игра #%d завершена, участников деактивировано: %d", gameID, len(players))
	return nil
}
