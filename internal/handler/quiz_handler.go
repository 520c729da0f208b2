package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizroom-api/internal/handler/dto"
	"github.com/yourusername/quizroom-api/internal/service"
)

// QuizHandler обрабатывает запросы авторинга: разделы, квизы, темы, вопросы
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик авторинга
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// ListSections возвращает все разделы
func (h *QuizHandler) ListSections(c *gin.Context) {
	sections, err := h.quizService.ListSections()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSectionListResponse(sections))
}

// CreateSectionRequest представляет запрос на создание раздела
type CreateSectionRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=64"`
	Color string `json:"color" binding:"omitempty,max=10"`
}

// CreateSection обрабатывает запрос на создание раздела
func (h *QuizHandler) CreateSection(c *gin.Context) {
	var req CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.quizService.CreateSection(req.Name, req.Color)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSectionResponse(section))
}

// ListQuestionTypes возвращает поддерживаемые типы вопросов
func (h *QuizHandler) ListQuestionTypes(c *gin.Context) {
	c.JSON(http.StatusOK, h.quizService.QuestionTypes())
}

// CreateQuizRequest представляет запрос на создание квиза
type CreateQuizRequest struct {
	Title     string `json:"title" binding:"required,min=1,max=64"`
	SectionID uint   `json:"section_id" binding:"required"`
}

// CreateQuiz обрабатывает запрос на создание квиза
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(req.Title, req.SectionID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz))
}

// ListQuizzes возвращает квизы текущего пользователя
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListQuizzesByCreator(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizListResponse(quizzes))
}

// ListPlayableQuizzes возвращает завершенные квизы, из которых можно создать игру
func (h *QuizHandler) ListPlayableQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListPlayableQuizzes()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizListResponse(quizzes))
}

// GetQuiz возвращает квиз с темами и вопросами
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetQuiz(quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz))
}

// UpdateQuizRequest представляет запрос на изменение квиза
type UpdateQuizRequest struct {
	Title     string `json:"title" binding:"omitempty,max=64"`
	SectionID *uint  `json:"section_id"`
	Completed *bool  `json:"completed"`
}

// UpdateQuiz обрабатывает запрос на изменение квиза
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(quizID, currentUserID(c), req.Title, req.SectionID, req.Completed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz))
}

// DeleteQuiz обрабатывает запрос на удаление квиза
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.DeleteQuiz(quizID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}

// ListThemes возвращает темы квиза
func (h *QuizHandler) ListThemes(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	themes, err := h.quizService.ListThemes(quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewThemeListResponse(themes))
}

// CreateThemeRequest представляет запрос на создание темы
type CreateThemeRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"`
}

// CreateTheme обрабатывает запрос на создание темы.
// Дубликат имени внутри квиза дает 409.
func (h *QuizHandler) CreateTheme(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	theme, err := h.quizService.CreateTheme(quizID, currentUserID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewThemeResponse(theme))
}

// GetTheme возвращает тему с вопросами
func (h *QuizHandler) GetTheme(c *gin.Context) {
	themeID := c.MustGet("themeID").(uint)

	theme, err := h.quizService.GetTheme(themeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewThemeResponse(theme))
}

// RenameTheme обрабатывает запрос на переименование темы
func (h *QuizHandler) RenameTheme(c *gin.Context) {
	themeID := c.MustGet("themeID").(uint)

	var req CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	theme, err := h.quizService.RenameTheme(themeID, currentUserID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewThemeResponse(theme))
}

// DeleteTheme обрабатывает запрос на удаление темы
func (h *QuizHandler) DeleteTheme(c *gin.Context) {
	themeID := c.MustGet("themeID").(uint)

	if err := h.quizService.DeleteTheme(themeID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Theme deleted"})
}

// ArrangeThemeRequest представляет запрос на закрепление темы за раундом
type ArrangeThemeRequest struct {
	Round int `json:"round" binding:"required,min=1"`
}

// ArrangeTheme закрепляет тему за раундом. Переполненный раунд дает 409.
func (h *QuizHandler) ArrangeTheme(c *gin.Context) {
	themeID := c.MustGet("themeID").(uint)

	var req ArrangeThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	theme, err := h.quizService.ArrangeTheme(themeID, currentUserID(c), req.Round)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewThemeResponse(theme))
}

// SwapRequest представляет запрос на обмен двух сущностей местами
type SwapRequest struct {
	FirstID  uint `json:"first_id" binding:"required"`
	SecondID uint `json:"second_id" binding:"required"`
}

// SwapThemeRounds меняет раунды двух тем местами
func (h *QuizHandler) SwapThemeRounds(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.quizService.SwapThemeRounds(req.FirstID, req.SecondID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rounds swapped"})
}

// ListQuestions возвращает вопросы темы
func (h *QuizHandler) ListQuestions(c *gin.Context) {
	themeID := c.MustGet("themeID").(uint)

	questions, err := h.quizService.ListQuestions(themeID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, dto.NewQuestionResponse(&questions[i]))
	}
	c.JSON(http.StatusOK, out)
}

// CreateQuestionRequest представляет запрос на создание вопроса
type CreateQuestionRequest struct {
	Text  string `json:"text" binding:"required,min=1,max=512"`
	Type  int    `json:"type" binding:"required,min=1,max=3"`
	Image string `json:"image" binding:"omitempty,max=255"`
	Audio string `json:"audio" binding:"omitempty,max=255"`
}

// CreateQuestion обрабатывает запрос на создание вопроса.
// Стоимость назначается сервером по лестнице стоимостей темы.
func (h *QuizHandler) CreateQuestion(c *gin.Context) {
	themeID := c.MustGet("themeID").(uint)

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.quizService.CreateQuestion(themeID, currentUserID(c), req.Text, req.Type, req.Image, req.Audio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuestionResponse(question))
}

// GetQuestion возвращает вопрос по ID
func (h *QuizHandler) GetQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	question, err := h.quizService.GetQuestion(questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// UpdateQuestionRequest представляет запрос на изменение вопроса
type UpdateQuestionRequest struct {
	Text  string  `json:"text" binding:"omitempty,max=512"`
	Image *string `json:"image"`
	Audio *string `json:"audio"`
}

// UpdateQuestion обрабатывает запрос на изменение вопроса
func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.quizService.UpdateQuestion(questionID, currentUserID(c), req.Text, req.Image, req.Audio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// DeleteQuestion обрабатывает запрос на удаление вопроса
func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.quizService.DeleteQuestion(questionID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// SwapQuestionValues меняет стоимости двух вопросов местами
func (h *QuizHandler) SwapQuestionValues(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.quizService.SwapQuestionValues(req.FirstID, req.SecondID, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Values swapped"})
}
