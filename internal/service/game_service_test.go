package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
	"github.com/yourusername/quizroom-api/internal/service/gameroom"
)

// noopBroadcaster — заглушка рассылки для таймера в тестах
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToRoom(topic string, event interface{}) error {
	return nil
}

type gameServiceMocks struct {
	games        *MockGameRepo
	quizzes      *MockQuizRepo
	participants *MockParticipantRepo
	questions    *MockInGameQuestionRepo
	cache        *MockCacheRepo
	registry     *gameroom.Registry
}

func newTestGameService() (*GameService, *gameServiceMocks) {
	m := &gameServiceMocks{
		games:        new(MockGameRepo),
		quizzes:      new(MockQuizRepo),
		participants: new(MockParticipantRepo),
		questions:    new(MockInGameQuestionRepo),
		cache:        new(MockCacheRepo),
		registry:     gameroom.NewRegistry(),
	}
	rounds := gameroom.NewRoundController(m.games, m.questions, m.registry)
	timer := gameroom.NewTimer(noopBroadcaster{})

	svc := NewGameService(
		context.Background(),
		m.games, m.quizzes, m.participants, m.questions,
		nil, m.cache, m.registry, rounds, timer, nil,
	)
	return svc, m
}

// ============================================================================
// Клонирование квиза в игру
// ============================================================================

func TestBuildGameClone(t *testing.T) {
	creatorID := uint(9)
	round := 1
	prototype := &entity.Quiz{
		ID:        5,
		Title:     "История",
		SectionID: 2,
		CreatorID: &creatorID,
		Themes: []entity.Theme{
			{
				Name:  "Древний мир",
				Round: &round,
				Questions: []entity.Question{
					{Text: "q1", Value: 500, Type: entity.QuestionTypeText},
					{Text: "q2", Value: 400, Type: entity.QuestionTypeImage, Image: "a.png"},
					{Text: "q3", Value: 300, Type: entity.QuestionTypeText},
				},
			},
			{
				Name: "Средневековье",
				Questions: []entity.Question{
					{Text: "q4", Value: 500, Type: entity.QuestionTypeText},
					{Text: "q5", Value: 400, Type: entity.QuestionTypeAudio, Audio: "b.mp3"},
					{Text: "q6", Value: 300, Type: entity.QuestionTypeText},
				},
			},
		},
	}

	clone := buildGameClone(prototype)

	assert.Equal(t, "История", clone.Title)
	assert.True(t, clone.Completed, "Игровая копия помечена завершенной")
	assert.Nil(t, clone.CreatorID, "Игровая копия принадлежит системе")
	require.Len(t, clone.Themes, 2)

	total := 0
	for _, theme := range clone.Themes {
		assert.Empty(t, theme.Questions, "Авторские вопросы в копию не попадают")
		for _, q := range theme.InGameQuestions {
			assert.True(t, q.Fresh, "Все игровые вопросы свежие")
			total++
		}
	}
	assert.Equal(t, 6, total, "Две темы по три вопроса дают шесть игровых копий")

	// Прототип не тронут
	assert.Equal(t, uint(5), prototype.ID)
	assert.NotNil(t, prototype.CreatorID)
	for _, theme := range prototype.Themes {
		assert.Empty(t, theme.InGameQuestions)
		assert.NotEmpty(t, theme.Questions)
	}
}

func TestCreateFromQuiz_Success(t *testing.T) {
	svc, m := newTestGameService()

	m.quizzes.On("GetWithThemes", uint(5)).Return(&entity.Quiz{ID: 5, Title: "История", SectionID: 2}, nil)
	m.quizzes.On("CreateWithContent", mock.AnythingOfType("*entity.Quiz")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Quiz).ID = 100
		}).Return(nil)
	m.games.On("Create", mock.AnythingOfType("*entity.QuizGame")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.QuizGame).ID = 7
		}).Return(nil)

	game, err := svc.CreateFromQuiz(5, "Пятничная игра", 9, false)
	require.NoError(t, err)

	assert.Equal(t, uint(100), game.QuizID, "Игра указывает на клон, а не на прототип")
	assert.Equal(t, uint(9), game.GameMasterID)
	assert.Equal(t, 1, game.CurrentRound)
	assert.Len(t, game.RoomName, entity.RoomCodeLength)

	session, ok := m.registry.Get(7)
	require.True(t, ok, "Сессия комнаты зарегистрирована")
	assert.Equal(t, game.RoomTopic(), session.Topic)
}

func TestCreateFromQuiz_RetriesRoomCodeCollision(t *testing.T) {
	svc, m := newTestGameService()

	m.quizzes.On("GetWithThemes", uint(5)).Return(&entity.Quiz{ID: 5}, nil)
	m.quizzes.On("CreateWithContent", mock.AnythingOfType("*entity.Quiz")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Quiz).ID = 100
		}).Return(nil)
	// Первый код комнаты занят, второй проходит
	m.games.On("Create", mock.AnythingOfType("*entity.QuizGame")).Return(apperrors.ErrConflict).Once()
	m.games.On("Create", mock.AnythingOfType("*entity.QuizGame")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.QuizGame).ID = 7
		}).Return(nil).Once()

	game, err := svc.CreateFromQuiz(5, "Игра", 9, false)
	require.NoError(t, err)
	assert.Equal(t, uint(7), game.ID)
	m.games.AssertExpectations(t)
}

func TestCreateFromQuiz_CleansUpOrphanedClone(t *testing.T) {
	svc, m := newTestGameService()

	m.quizzes.On("GetWithThemes", uint(5)).Return(&entity.Quiz{ID: 5}, nil)
	m.quizzes.On("CreateWithContent", mock.AnythingOfType("*entity.Quiz")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Quiz).ID = 100
		}).Return(nil)
	m.games.On("Create", mock.AnythingOfType("*entity.QuizGame")).Return(errors.New("db down"))
	m.quizzes.On("Delete", uint(100)).Return(nil)

	_, err := svc.CreateFromQuiz(5, "Игра", 9, false)
	require.Error(t, err)
	m.quizzes.AssertCalled(t, "Delete", uint(100))
}

func TestCreateFromQuiz_EmptyName(t *testing.T) {
	svc, m := newTestGameService()

	_, err := svc.CreateFromQuiz(5, "   ", 9, false)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.quizzes.AssertNotCalled(t, "GetWithThemes", mock.Anything)
}

// ============================================================================
// Вход в игру
// ============================================================================

func TestJoinGame_Idempotent(t *testing.T) {
	svc, m := newTestGameService()

	gameID := uint(7)
	existing := &entity.Participant{ID: 3, UserID: 2, GameID: &gameID, Active: true}
	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7}, nil)
	m.participants.On("GetActiveByUserInGame", uint(2), uint(7)).Return(existing, nil)

	participant, err := svc.JoinGame(7, 2)
	require.NoError(t, err)
	assert.Same(t, existing, participant, "Повторный вход возвращает существующее участие")
	m.participants.AssertNotCalled(t, "Create", mock.Anything)
	m.cache.AssertNotCalled(t, "SetNX", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinGame_AlreadyInAnotherGame(t *testing.T) {
	svc, m := newTestGameService()

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7}, nil)
	m.participants.On("GetActiveByUserInGame", uint(2), uint(7)).Return(nil, apperrors.ErrNotFound)
	// Блокировка уже занята другой игрой
	m.cache.On("SetNX", "active_participant:user:2", mock.Anything, mock.Anything).Return(false, nil)

	_, err := svc.JoinGame(7, 2)
	assert.ErrorIs(t, err, repository.ErrAlreadyInGame)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "Повторное участие отдается клиенту как конфликт, а не как внутренняя ошибка")
	m.participants.AssertNotCalled(t, "Create", mock.Anything)
}

func TestJoinGame_Success(t *testing.T) {
	svc, m := newTestGameService()

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7}, nil)
	m.participants.On("GetActiveByUserInGame", uint(2), uint(7)).Return(nil, apperrors.ErrNotFound)
	m.cache.On("SetNX", "active_participant:user:2", mock.Anything, mock.Anything).Return(true, nil)
	m.participants.On("Create", mock.AnythingOfType("*entity.Participant")).Return(nil)
	m.cache.On("Delete", "game:7:dashboard").Return(nil)

	participant, err := svc.JoinGame(7, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), participant.UserID)
	require.NotNil(t, participant.GameID)
	assert.Equal(t, uint(7), *participant.GameID)
	assert.True(t, participant.Active)
}

func TestJoinGame_ReleasesLockOnCreateFailure(t *testing.T) {
	svc, m := newTestGameService()

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7}, nil)
	m.participants.On("GetActiveByUserInGame", uint(2), uint(7)).Return(nil, apperrors.ErrNotFound)
	m.cache.On("SetNX", "active_participant:user:2", mock.Anything, mock.Anything).Return(true, nil)
	m.participants.On("Create", mock.AnythingOfType("*entity.Participant")).Return(repository.ErrAlreadyInGame)
	m.cache.On("Delete", "active_participant:user:2").Return(nil)

	_, err := svc.JoinGame(7, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "Сработавший unique index БД тоже отдается как конфликт")
	m.cache.AssertCalled(t, "Delete", "active_participant:user:2")
}

// ============================================================================
// Запуск игры
// ============================================================================

func TestStartGame_Success(t *testing.T) {
	svc, m := newTestGameService()

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7, GameMasterID: 9, RoomName: "abc123xy"}, nil)
	m.games.On("AtomicStart", uint(7)).Return(nil)

	require.NoError(t, svc.StartGame(7, 9))

	_, ok := m.registry.Get(7)
	assert.True(t, ok, "Запуск регистрирует сессию комнаты")
}

func TestStartGame_AlreadyStarted(t *testing.T) {
	svc, m := newTestGameService()

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7, GameMasterID: 9}, nil)
	m.games.On("AtomicStart", uint(7)).Return(repository.ErrGameAlreadyStarted)

	err := svc.StartGame(7, 9)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "Повторный запуск дает конфликт")
}

func TestStartGame_NotMaster(t *testing.T) {
	svc, m := newTestGameService()

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7, GameMasterID: 9}, nil)

	err := svc.StartGame(7, 2)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.games.AssertNotCalled(t, "AtomicStart", mock.Anything)
}

// ============================================================================
// Завершение раунда
// ============================================================================

func TestCheckRoundCompleted_Advances(t *testing.T) {
	svc, m := newTestGameService()

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7, QuizID: 100, CurrentRound: 1}, nil)
	m.questions.On("CountFresh", uint(100), 1).Return(int64(0), nil)
	m.games.On("AdvanceRound", uint(7), 1).Return(true, nil)

	completed, round, err := svc.CheckRoundCompleted(7)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 2, round)
}

func TestCheckRoundCompleted_QuestionsRemain(t *testing.T) {
	svc, m := newTestGameService()

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7, QuizID: 100, CurrentRound: 1}, nil)
	m.questions.On("CountFresh", uint(100), 1).Return(int64(3), nil)

	completed, round, err := svc.CheckRoundCompleted(7)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, 1, round)
	m.games.AssertNotCalled(t, "AdvanceRound", mock.Anything, mock.Anything)
}

// ============================================================================
// Супер-раунд
// ============================================================================

func TestSubmitWager_Validation(t *testing.T) {
	svc, m := newTestGameService()

	m.participants.On("GetActiveByUser", uint(2)).Return(&entity.Participant{ID: 5, Score: 300}, nil)

	_, err := svc.SubmitWager(2, -10)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Отрицательная ставка отклоняется")

	_, err = svc.SubmitWager(2, 400)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Ставка выше текущего счета отклоняется")

	m.participants.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

func TestSubmitWager_Accepted(t *testing.T) {
	svc, m := newTestGameService()

	m.participants.On("GetActiveByUser", uint(2)).Return(&entity.Participant{ID: 5, Score: 300}, nil)
	m.participants.On("UpdateFields", uint(5), map[string]interface{}{"super_bet": 300}).Return(nil)

	participant, err := svc.SubmitWager(2, 300)
	require.NoError(t, err)
	require.NotNil(t, participant.SuperBet)
	assert.Equal(t, 300, *participant.SuperBet, "Ставка в размере всего счета допустима")
}

func TestResolveWager(t *testing.T) {
	svc, m := newTestGameService()

	bet := 200
	answeredAt := time.Now()
	m.participants.On("GetActiveByUserInGame", uint(2), uint(7)).
		Return(&entity.Participant{ID: 5, Score: 300, SuperBet: &bet, Ready: true, AnswerTime: &answeredAt}, nil).Once()
	m.participants.On("Update", mock.AnythingOfType("*entity.Participant")).Return(nil)
	m.cache.On("Delete", "game:7:dashboard").Return(nil)

	participant, err := svc.ResolveWager(7, 2, true)
	require.NoError(t, err)
	assert.Equal(t, 500, participant.Score)
	assert.False(t, participant.Ready, "После подведения итога готовность снимается")
	assert.Nil(t, participant.AnswerTime)

	m.participants.On("GetActiveByUserInGame", uint(2), uint(7)).
		Return(&entity.Participant{ID: 5, Score: 300, SuperBet: &bet, Ready: true, AnswerTime: &answeredAt}, nil).Once()

	participant, err = svc.ResolveWager(7, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 100, participant.Score)
	assert.False(t, participant.Ready)
	assert.Nil(t, participant.AnswerTime)
}

// ============================================================================
// Итоги и завершение игры
// ============================================================================

func TestResultsTable_ZeroAttemptsAccuracy(t *testing.T) {
	svc, m := newTestGameService()

	m.participants.On("ListByGameByScore", uint(7)).Return([]entity.Participant{
		{UserID: 2, Score: 900, AnswerAttempts: 4, CorrectAnswers: 3, User: entity.User{Username: "alice"}},
		{UserID: 3, Score: 0, AnswerAttempts: 0, CorrectAnswers: 0, User: entity.User{Username: "bob"}},
	}, nil)

	rows, err := svc.ResultsTable(7)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 75, rows[0].Accuracy)
	assert.Equal(t, 0, rows[1].Accuracy, "Точность без попыток определена как ноль")
}

func TestEndGame_DeactivatesAndCleansUp(t *testing.T) {
	svc, m := newTestGameService()

	m.registry.Register(7, "game_abc123xy")

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7, QuizID: 100, GameMasterID: 9}, nil)
	m.participants.On("ListByGame", uint(7)).Return([]entity.Participant{
		{ID: 1, UserID: 11},
		{ID: 2, UserID: 12},
	}, nil)
	m.games.On("Finish", uint(7), uint(100)).Return(nil)
	m.cache.On("Delete", "active_participant:user:11").Return(nil)
	m.cache.On("Delete", "active_participant:user:12").Return(nil)
	m.cache.On("Delete", "game:7:dashboard").Return(nil)

	require.NoError(t, svc.EndGame(7, 9))

	m.games.AssertCalled(t, "Finish", uint(7), uint(100))
	m.cache.AssertExpectations(t)

	_, ok := m.registry.Get(7)
	assert.False(t, ok, "Сессия комнаты убрана из реестра")
}

func TestEndGame_NotMaster(t *testing.T) {
	svc, m := newTestGameService()

	m.games.On("GetByID", uint(7)).Return(&entity.QuizGame{ID: 7, QuizID: 100, GameMasterID: 9}, nil)

	err := svc.EndGame(7, 2)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.games.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything)
}
