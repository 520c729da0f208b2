package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

type quizServiceMocks struct {
	quizzes   *MockQuizRepo
	sections  *MockSectionRepo
	themes    *MockThemeRepo
	questions *MockQuestionRepo
}

func newTestQuizService() (*QuizService, *quizServiceMocks) {
	m := &quizServiceMocks{
		quizzes:   new(MockQuizRepo),
		sections:  new(MockSectionRepo),
		themes:    new(MockThemeRepo),
		questions: new(MockQuestionRepo),
	}
	return NewQuizService(m.quizzes, m.sections, m.themes, m.questions), m
}

// ownedQuizFixture настраивает квиз #3, которым владеет пользователь #9
func (m *quizServiceMocks) ownedQuizFixture() {
	creatorID := uint(9)
	m.quizzes.On("GetByID", uint(3)).Return(&entity.Quiz{ID: 3, CreatorID: &creatorID}, nil)
}

// ============================================================================
// Владение квизом
// ============================================================================

func TestUpdateQuiz_ForeignQuiz(t *testing.T) {
	svc, m := newTestQuizService()
	m.ownedQuizFixture()

	_, err := svc.UpdateQuiz(3, 2, "Новое имя", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.quizzes.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

func TestDeleteQuiz_SystemCopy(t *testing.T) {
	svc, m := newTestQuizService()

	// У игровой копии нет владельца, удалять ее через авторинг нельзя
	m.quizzes.On("GetByID", uint(3)).Return(&entity.Quiz{ID: 3, CreatorID: nil, Completed: true}, nil)

	err := svc.DeleteQuiz(3, 9)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	m.quizzes.AssertNotCalled(t, "Delete", mock.Anything)
}

// ============================================================================
// Темы и расстановка по раундам
// ============================================================================

func TestCreateTheme_DuplicateName(t *testing.T) {
	svc, m := newTestQuizService()
	m.ownedQuizFixture()

	m.themes.On("Create", mock.AnythingOfType("*entity.Theme")).Return(apperrors.ErrConflict)

	_, err := svc.CreateTheme(3, 9, "История")
	assert.ErrorIs(t, err, apperrors.ErrConflict, "Дубликат имени темы внутри квиза дает конфликт")
}

func TestArrangeTheme_Assigns(t *testing.T) {
	svc, m := newTestQuizService()
	m.ownedQuizFixture()

	m.themes.On("GetByID", uint(5)).Return(&entity.Theme{ID: 5, QuizID: 3, Name: "История"}, nil)
	m.themes.On("CountByRound", uint(3), 2).Return(int64(2), nil)
	m.themes.On("UpdateFields", uint(5), map[string]interface{}{"round": 2}).Return(nil)

	theme, err := svc.ArrangeTheme(5, 9, 2)
	require.NoError(t, err)
	require.NotNil(t, theme.Round)
	assert.Equal(t, 2, *theme.Round)
}

func TestArrangeTheme_RoundFull(t *testing.T) {
	svc, m := newTestQuizService()
	m.ownedQuizFixture()

	m.themes.On("GetByID", uint(5)).Return(&entity.Theme{ID: 5, QuizID: 3, Name: "История"}, nil)
	// Раунд уже содержит максимум тем
	m.themes.On("CountByRound", uint(3), 2).Return(int64(entity.MaxThemesPerRound), nil)

	_, err := svc.ArrangeTheme(5, 9, 2)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	// Переполненный раунд ничего не меняет
	m.themes.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

func TestArrangeTheme_InvalidRound(t *testing.T) {
	svc, m := newTestQuizService()

	_, err := svc.ArrangeTheme(5, 9, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.themes.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestSwapThemeRounds_DifferentQuizzes(t *testing.T) {
	svc, m := newTestQuizService()
	m.ownedQuizFixture()

	m.themes.On("GetByID", uint(5)).Return(&entity.Theme{ID: 5, QuizID: 3}, nil)
	m.themes.On("GetByID", uint(6)).Return(&entity.Theme{ID: 6, QuizID: 4}, nil)

	err := svc.SwapThemeRounds(5, 6, 9)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.themes.AssertNotCalled(t, "SwapRounds", mock.Anything, mock.Anything)
}

// ============================================================================
// Вопросы: лестница стоимостей
// ============================================================================

func TestCreateQuestion_ValueLadder(t *testing.T) {
	svc, m := newTestQuizService()
	m.ownedQuizFixture()

	m.themes.On("GetByID", uint(5)).Return(&entity.Theme{ID: 5, QuizID: 3}, nil)
	m.questions.On("ListByTheme", uint(5)).Return([]entity.Question{
		{Value: 500}, {Value: 400}, {Value: 300},
	}, nil)

	var created *entity.Question
	m.questions.On("Create", mock.AnythingOfType("*entity.Question")).
		Run(func(args mock.Arguments) {
			created = args.Get(0).(*entity.Question)
		}).Return(nil)

	question, err := svc.CreateQuestion(5, 9, "Кто написал Илиаду?", entity.QuestionTypeText, "", "")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 200, question.Value, "После 500, 400 и 300 свободна ступень 200")
}

func TestCreateQuestion_FirstGetsTop(t *testing.T) {
	svc, m := newTestQuizService()
	m.ownedQuizFixture()

	m.themes.On("GetByID", uint(5)).Return(&entity.Theme{ID: 5, QuizID: 3}, nil)
	m.questions.On("ListByTheme", uint(5)).Return([]entity.Question{}, nil)
	m.questions.On("Create", mock.AnythingOfType("*entity.Question")).Return(nil)

	question, err := svc.CreateQuestion(5, 9, "Первый вопрос", entity.QuestionTypeText, "", "")
	require.NoError(t, err)
	assert.Equal(t, 500, question.Value)
}

func TestCreateQuestion_UnknownType(t *testing.T) {
	svc, m := newTestQuizService()

	_, err := svc.CreateQuestion(5, 9, "Вопрос", 99, "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.questions.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSwapQuestionValues_DifferentThemes(t *testing.T) {
	svc, m := newTestQuizService()
	m.ownedQuizFixture()

	m.themes.On("GetByID", uint(5)).Return(&entity.Theme{ID: 5, QuizID: 3}, nil)
	m.questions.On("GetByID", uint(10)).Return(&entity.Question{ID: 10, ThemeID: 5, Value: 500}, nil)
	m.questions.On("GetByID", uint(11)).Return(&entity.Question{ID: 11, ThemeID: 6, Value: 400}, nil)

	err := svc.SwapQuestionValues(10, 11, 9)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	m.questions.AssertNotCalled(t, "SwapValues", mock.Anything, mock.Anything)
}
