package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// Моки репозиториев для тестов сервисов. Методы, возвращающие сущности,
// аккуратно обходят typed nil из testify.

// MockUserRepo реализует repository.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) UpdatePassword(userID uint, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

func (m *MockUserRepo) List(limit, offset int) ([]entity.User, error) {
	args := m.Called(limit, offset)
	if users, ok := args.Get(0).([]entity.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSectionRepo реализует repository.SectionRepository
type MockSectionRepo struct {
	mock.Mock
}

func (m *MockSectionRepo) Create(section *entity.Section) error {
	args := m.Called(section)
	return args.Error(0)
}

func (m *MockSectionRepo) GetByID(id uint) (*entity.Section, error) {
	args := m.Called(id)
	if section, ok := args.Get(0).(*entity.Section); ok {
		return section, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSectionRepo) List() ([]entity.Section, error) {
	args := m.Called()
	if sections, ok := args.Get(0).([]entity.Section); ok {
		return sections, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSectionRepo) Update(section *entity.Section) error {
	args := m.Called(section)
	return args.Error(0)
}

func (m *MockSectionRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockQuizRepo реализует repository.QuizRepository
type MockQuizRepo struct {
	mock.Mock
}

func (m *MockQuizRepo) Create(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) CreateWithContent(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if quiz, ok := args.Get(0).(*entity.Quiz); ok {
		return quiz, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizRepo) GetWithThemes(id uint) (*entity.Quiz, error) {
	args := m.Called(id)
	if quiz, ok := args.Get(0).(*entity.Quiz); ok {
		return quiz, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizRepo) ListByCreator(creatorID uint) ([]entity.Quiz, error) {
	args := m.Called(creatorID)
	if quizzes, ok := args.Get(0).([]entity.Quiz); ok {
		return quizzes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizRepo) ListPlayable() ([]entity.Quiz, error) {
	args := m.Called()
	if quizzes, ok := args.Get(0).([]entity.Quiz); ok {
		return quizzes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuizRepo) Update(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) UpdateFields(quizID uint, updates map[string]interface{}) error {
	args := m.Called(quizID, updates)
	return args.Error(0)
}

func (m *MockQuizRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockThemeRepo реализует repository.ThemeRepository
type MockThemeRepo struct {
	mock.Mock
}

func (m *MockThemeRepo) Create(theme *entity.Theme) error {
	args := m.Called(theme)
	return args.Error(0)
}

func (m *MockThemeRepo) GetByID(id uint) (*entity.Theme, error) {
	args := m.Called(id)
	if theme, ok := args.Get(0).(*entity.Theme); ok {
		return theme, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThemeRepo) GetWithQuestions(id uint) (*entity.Theme, error) {
	args := m.Called(id)
	if theme, ok := args.Get(0).(*entity.Theme); ok {
		return theme, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThemeRepo) ListByQuiz(quizID uint) ([]entity.Theme, error) {
	args := m.Called(quizID)
	if themes, ok := args.Get(0).([]entity.Theme); ok {
		return themes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThemeRepo) CountByRound(quizID uint, round int) (int64, error) {
	args := m.Called(quizID, round)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockThemeRepo) Update(theme *entity.Theme) error {
	args := m.Called(theme)
	return args.Error(0)
}

func (m *MockThemeRepo) UpdateFields(themeID uint, updates map[string]interface{}) error {
	args := m.Called(themeID, updates)
	return args.Error(0)
}

func (m *MockThemeRepo) SwapRounds(firstID, secondID uint) error {
	args := m.Called(firstID, secondID)
	return args.Error(0)
}

func (m *MockThemeRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if question, ok := args.Get(0).(*entity.Question); ok {
		return question, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuestionRepo) ListByTheme(themeID uint) ([]entity.Question, error) {
	args := m.Called(themeID)
	if questions, ok := args.Get(0).([]entity.Question); ok {
		return questions, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockQuestionRepo) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) UpdateFields(questionID uint, updates map[string]interface{}) error {
	args := m.Called(questionID, updates)
	return args.Error(0)
}

func (m *MockQuestionRepo) SwapValues(firstID, secondID uint) error {
	args := m.Called(firstID, secondID)
	return args.Error(0)
}

func (m *MockQuestionRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockInGameQuestionRepo реализует repository.InGameQuestionRepository
type MockInGameQuestionRepo struct {
	mock.Mock
}

func (m *MockInGameQuestionRepo) GetByID(id uint) (*entity.InGameQuestion, error) {
	args := m.Called(id)
	if question, ok := args.Get(0).(*entity.InGameQuestion); ok {
		return question, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInGameQuestionRepo) GetWithTheme(id uint) (*entity.InGameQuestion, error) {
	args := m.Called(id)
	if question, ok := args.Get(0).(*entity.InGameQuestion); ok {
		return question, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInGameQuestionRepo) ListThemesForRound(quizID uint, round int) ([]entity.Theme, error) {
	args := m.Called(quizID, round)
	if themes, ok := args.Get(0).([]entity.Theme); ok {
		return themes, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInGameQuestionRepo) CountFresh(quizID uint, round int) (int64, error) {
	args := m.Called(quizID, round)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInGameQuestionRepo) MarkPlayed(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockGameRepo реализует repository.GameRepository
type MockGameRepo struct {
	mock.Mock
}

func (m *MockGameRepo) Create(game *entity.QuizGame) error {
	args := m.Called(game)
	return args.Error(0)
}

func (m *MockGameRepo) GetByID(id uint) (*entity.QuizGame, error) {
	args := m.Called(id)
	if game, ok := args.Get(0).(*entity.QuizGame); ok {
		return game, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepo) GetByRoomName(roomName string) (*entity.QuizGame, error) {
	args := m.Called(roomName)
	if game, ok := args.Get(0).(*entity.QuizGame); ok {
		return game, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepo) GetWithParticipants(id uint) (*entity.QuizGame, error) {
	args := m.Called(id)
	if game, ok := args.Get(0).(*entity.QuizGame); ok {
		return game, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepo) ListAvailable() ([]entity.QuizGame, error) {
	args := m.Called()
	if games, ok := args.Get(0).([]entity.QuizGame); ok {
		return games, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepo) ListByMaster(masterID uint) ([]entity.QuizGame, error) {
	args := m.Called(masterID)
	if games, ok := args.Get(0).([]entity.QuizGame); ok {
		return games, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGameRepo) Update(game *entity.QuizGame) error {
	args := m.Called(game)
	return args.Error(0)
}

func (m *MockGameRepo) UpdateFields(gameID uint, updates map[string]interface{}) error {
	args := m.Called(gameID, updates)
	return args.Error(0)
}

func (m *MockGameRepo) AtomicStart(gameID uint) error {
	args := m.Called(gameID)
	return args.Error(0)
}

func (m *MockGameRepo) AdvanceRound(gameID uint, fromRound int) (bool, error) {
	args := m.Called(gameID, fromRound)
	return args.Bool(0), args.Error(1)
}

func (m *MockGameRepo) Finish(gameID, quizID uint) error {
	args := m.Called(gameID, quizID)
	return args.Error(0)
}

func (m *MockGameRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockParticipantRepo реализует repository.ParticipantRepository
type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) Create(participant *entity.Participant) error {
	args := m.Called(participant)
	return args.Error(0)
}

func (m *MockParticipantRepo) GetByID(id uint) (*entity.Participant, error) {
	args := m.Called(id)
	if participant, ok := args.Get(0).(*entity.Participant); ok {
		return participant, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockParticipantRepo) GetActiveByUser(userID uint) (*entity.Participant, error) {
	args := m.Called(userID)
	if participant, ok := args.Get(0).(*entity.Participant); ok {
		return participant, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockParticipantRepo) GetActiveByUserInGame(userID, gameID uint) (*entity.Participant, error) {
	args := m.Called(userID, gameID)
	if participant, ok := args.Get(0).(*entity.Participant); ok {
		return participant, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockParticipantRepo) ListByGame(gameID uint) ([]entity.Participant, error) {
	args := m.Called(gameID)
	if participants, ok := args.Get(0).([]entity.Participant); ok {
		return participants, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockParticipantRepo) ListByGameByScore(gameID uint) ([]entity.Participant, error) {
	args := m.Called(gameID)
	if participants, ok := args.Get(0).([]entity.Participant); ok {
		return participants, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockParticipantRepo) Update(participant *entity.Participant) error {
	args := m.Called(participant)
	return args.Error(0)
}

func (m *MockParticipantRepo) UpdateFields(participantID uint, updates map[string]interface{}) error {
	args := m.Called(participantID, updates)
	return args.Error(0)
}

func (m *MockParticipantRepo) AddScore(participantID uint, delta int) error {
	args := m.Called(participantID, delta)
	return args.Error(0)
}

func (m *MockParticipantRepo) MarkReady(participantID uint, at time.Time) error {
	args := m.Called(participantID, at)
	return args.Error(0)
}

func (m *MockParticipantRepo) ResetReady(gameID uint) error {
	args := m.Called(gameID)
	return args.Error(0)
}

func (m *MockParticipantRepo) FirstReady(gameID uint, excludeIDs []uint) (*entity.Participant, error) {
	args := m.Called(gameID, excludeIDs)
	if participant, ok := args.Get(0).(*entity.Participant); ok {
		return participant, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockParticipantRepo) DeactivateByGame(gameID uint) error {
	args := m.Called(gameID)
	return args.Error(0)
}

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}


func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}



func (m *MockCacheRepo) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}
