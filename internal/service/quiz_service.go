package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// QuizService предоставляет методы для авторинга квизов:
// разделы, квизы, темы, вопросы и их расстановка по раундам.
type QuizService struct {
	quizRepo     repository.QuizRepository
	sectionRepo  repository.SectionRepository
	themeRepo    repository.ThemeRepository
	questionRepo repository.QuestionRepository
}

// NewQuizService создает новый сервис авторинга
func NewQuizService(
	quizRepo repository.QuizRepository,
	sectionRepo repository.SectionRepository,
	themeRepo repository.ThemeRepository,
	questionRepo repository.QuestionRepository,
) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		sectionRepo:  sectionRepo,
		themeRepo:    themeRepo,
		questionRepo: questionRepo,
	}
}

// ListSections возвращает все разделы
func (s *QuizService) ListSections() ([]entity.Section, error) {
	return s.sectionRepo.List()
}

// CreateSection создает новый раздел
func (s *QuizService) CreateSection(name, color string) (*entity.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: section name is required", apperrors.ErrValidation)
	}

	section := &entity.Section{Name: name, SpecialColor: color}
	if err := s.sectionRepo.Create(section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return section, nil
}

// QuestionTypes возвращает поддерживаемые типы вопросов
func (s *QuizService) QuestionTypes() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": entity.QuestionTypeText, "name": "text"},
		{"id": entity.QuestionTypeImage, "name": "image"},
		{"id": entity.QuestionTypeAudio, "name": "audio"},
	}
}

// CreateQuiz создает новый авторский квиз
func (s *QuizService) CreateQuiz(title string, sectionID, creatorID uint) (*entity.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: quiz title is required", apperrors.ErrValidation)
	}

	// Раздел должен существовать
	if _, err := s.sectionRepo.GetByID(sectionID); err != nil {
		return nil, err
	}

	quiz := &entity.Quiz{
		Title:     title,
		SectionID: sectionID,
		CreatorID: &creatorID,
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	log.Printf("[QuizService] Квиз #%d (%s) создан пользователем #%d", quiz.ID, quiz.Title, creatorID)
	return quiz, nil
}

// GetQuiz возвращает квиз с темами и вопросами
func (s *QuizService) GetQuiz(quizID uint) (*entity.Quiz, error) {
	return s.quizRepo.GetWithThemes(quizID)
}

// ListQuizzesByCreator возвращает квизы автора
func (s *QuizService) ListQuizzesByCreator(creatorID uint) ([]entity.Quiz, error) {
	return s.quizRepo.ListByCreator(creatorID)
}

// ListPlayableQuizzes возвращает завершенные авторские квизы для запуска игры
func (s *QuizService) ListPlayableQuizzes() ([]entity.Quiz, error) {
	return s.quizRepo.ListPlayable()
}

// UpdateQuiz обновляет квиз. Менять чужой квиз нельзя.
func (s *QuizService) UpdateQuiz(quizID, userID uint, title string, sectionID *uint, completed *bool) (*entity.Quiz, error) {
	quiz, err := s.ownedQuiz(quizID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if title = strings.TrimSpace(title); title != "" {
		updates["title"] = title
	}
	if sectionID != nil {
		if _, err := s.sectionRepo.GetByID(*sectionID); err != nil {
			return nil, err
		}
		updates["section_id"] = *sectionID
	}
	if completed != nil {
		updates["completed"] = *completed
	}
	if len(updates) == 0 {
		return quiz, nil
	}

	if err := s.quizRepo.UpdateFields(quizID, updates); err != nil {
		return nil, fmt.Errorf("failed to update quiz #%d: %w", quizID, err)
	}
	return s.quizRepo.GetByID(quizID)
}

// DeleteQuiz удаляет квиз вместе с темами и вопросами
func (s *QuizService) DeleteQuiz(quizID, userID uint) error {
	if _, err := s.ownedQuiz(quizID, userID); err != nil {
		return err
	}
	return s.quizRepo.Delete(quizID)
}

// ownedQuiz возвращает квиз, если им владеет userID
func (s *QuizService) ownedQuiz(quizID, userID uint) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatorID == nil || *quiz.CreatorID != userID {
		return nil, fmt.Errorf("%w: quiz #%d belongs to another user", apperrors.ErrForbidden, quizID)
	}
	return quiz, nil
}

// CreateTheme создает тему внутри квиза.
// Дубликат имени внутри одного квиза превращается в ErrConflict.
func (s *QuizService) CreateTheme(quizID, userID uint, name string) (*entity.Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: theme name is required", apperrors.ErrValidation)
	}

	if _, err := s.ownedQuiz(quizID, userID); err != nil {
		return nil, err
	}

	theme := &entity.Theme{Name: name, QuizID: quizID}
	if err := s.themeRepo.Create(theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// ListThemes возвращает темы квиза
func (s *QuizService) ListThemes(quizID uint) ([]entity.Theme, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	return s.themeRepo.ListByQuiz(quizID)
}

// GetTheme возвращает тему с вопросами
func (s *QuizService) GetTheme(themeID uint) (*entity.Theme, error) {
	return s.themeRepo.GetWithQuestions(themeID)
}

// RenameTheme переименовывает тему
func (s *QuizService) RenameTheme(themeID, userID uint, name string) (*entity.Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: theme name is required", apperrors.ErrValidation)
	}

	theme, err := s.ownedTheme(themeID, userID)
	if err != nil {
		return nil, err
	}

	theme.Name = name
	if err := s.themeRepo.Update(theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// DeleteTheme удаляет тему вместе с вопросами
func (s *QuizService) DeleteTheme(themeID, userID uint) error {
	if _, err := s.ownedTheme(themeID, userID); err != nil {
		return err
	}
	return s.themeRepo.Delete(themeID)
}

// ownedTheme возвращает тему, если ее квизом владеет userID
func (s *QuizService) ownedTheme(themeID, userID uint) (*entity.Theme, error) {
	theme, err := s.themeRepo.GetByID(themeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedQuiz(theme.QuizID, userID); err != nil {
		return nil, err
	}
	return theme, nil
}

// ArrangeTheme закрепляет тему за раундом.
// В одном раунде квиза не может быть больше пяти тем: при переполнении
// возвращается ErrConflict и ничего не меняется.
func (s *QuizService) ArrangeTheme(themeID, userID uint, round int) (*entity.Theme, error) {
	if round < 1 {
		return nil, fmt.Errorf("%w: round must be positive", apperrors.ErrValidation)
	}

	theme, err := s.ownedTheme(themeID, userID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.themeRepo.CountByRound(theme.QuizID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to count themes in round %d: %w", round, err)
	}
	if occupied >= entity.MaxThemesPerRound {
		return nil, fmt.Errorf("%w: round %d already holds %d themes", apperrors.ErrConflict, round, entity.MaxThemesPerRound)
	}

	if err := s.themeRepo.UpdateFields(themeID, map[string]interface{}{"round": round}); err != nil {
		return nil, err
	}
	theme.Round = &round
	return theme, nil
}

// SwapThemeRounds меняет раунды двух тем местами
func (s *QuizService) SwapThemeRounds(firstID, secondID, userID uint) error {
	first, err := s.ownedTheme(firstID, userID)
	if err != nil {
		return err
	}
	second, err := s.themeRepo.GetByID(secondID)
	if err != nil {
		return err
	}
	if first.QuizID != second.QuizID {
		return fmt.Errorf("%w: themes belong to different quizzes", apperrors.ErrValidation)
	}
	return s.themeRepo.SwapRounds(firstID, secondID)
}

// CreateQuestion создает вопрос темы.
// Стоимость подбирается лестницей: самая высокая свободная ступень от 500
// вниз с шагом 100, ноль при заполненной лестнице.
func (s *QuizService) CreateQuestion(themeID, userID uint, text string, qType int, image, audio string) (*entity.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if qType < entity.QuestionTypeText || qType > entity.QuestionTypeAudio {
		return nil, fmt.Errorf("%w: unknown question type %d", apperrors.ErrValidation, qType)
	}

	if _, err := s.ownedTheme(themeID, userID); err != nil {
		return nil, err
	}

	existing, err := s.questionRepo.ListByTheme(themeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list theme questions: %w", err)
	}
	taken := make([]int, 0, len(existing))
	for _, q := range existing {
		taken = append(taken, q.Value)
	}

	question := &entity.Question{
		Text:    text,
		Value:   entity.NextQuestionValue(taken),
		Type:    qType,
		ThemeID: themeID,
		Image:   image,
		Audio:   audio,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// ListQuestions возвращает вопросы темы
func (s *QuizService) ListQuestions(themeID uint) ([]entity.Question, error) {
	if _, err := s.themeRepo.GetByID(themeID); err != nil {
		return nil, err
	}
	return s.questionRepo.ListByTheme(themeID)
}

// GetQuestion возвращает вопрос по ID
func (s *QuizService) GetQuestion(questionID uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(questionID)
}

// UpdateQuestion обновляет текст и медиа вопроса
func (s *QuizService) UpdateQuestion(questionID, userID uint, text string, image, audio *string) (*entity.Question, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedTheme(question.ThemeID, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if text = strings.TrimSpace(text); text != "" {
		updates["text"] = text
	}
	if image != nil {
		updates["image"] = *image
	}
	if audio != nil {
		updates["audio"] = *audio
	}
	if len(updates) == 0 {
		return question, nil
	}

	if err := s.questionRepo.UpdateFields(questionID, updates); err != nil {
		return nil, err
	}
	return s.questionRepo.GetByID(questionID)
}

// DeleteQuestion удаляет вопрос
func (s *QuizService) DeleteQuestion(questionID, userID uint) error {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return err
	}
	if _, err := s.ownedTheme(question.ThemeID, userID); err != nil {
		return err
	}
	return s.questionRepo.Delete(questionID)
}

// SwapQuestionValues меняет стоимости двух вопросов местами
func (s *QuizService) SwapQuestionValues(firstID, secondID, userID uint) error {
	first, err := s.questionRepo.GetByID(firstID)
	if err != nil {
		return err
	}
	if _, err := s.ownedTheme(first.ThemeID, userID); err != nil {
		return err
	}
	second, err := s.questionRepo.GetByID(secondID)
	if err != nil {
		return err
	}
	if first.ThemeID != second.ThemeID {
		return fmt.Errorf("%w: questions belong to different themes", apperrors.ErrValidation)
	}
	return s.questionRepo.SwapValues(firstID, secondID)
}
