package dto

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// mediaPrefix добавляется к сохраненным путям медиафайлов при отдаче клиенту
const mediaPrefix = "/api"

// SectionResponse — представление раздела
type SectionResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NewSectionResponse строит ответ из сущности раздела
func NewSectionResponse(section *entity.Section) SectionResponse {
	return SectionResponse{
		ID:    section.ID,
		Name:  section.Name,
		Color: section.SpecialColor,
	}
}

// NewSectionListResponse строит список ответов разделов
func NewSectionListResponse(sections []entity.Section) []SectionResponse {
	out := make([]SectionResponse, 0, len(sections))
	for i := range sections {
		out = append(out, NewSectionResponse(&sections[i]))
	}
	return out
}

// QuizResponse — представление квиза
type QuizResponse struct {
	ID        uint             `json:"id"`
	Title     string           `json:"title"`
	SectionID uint             `json:"section_id"`
	CreatorID *uint            `json:"creator_id,omitempty"`
	Completed bool             `json:"completed"`
	Themes    []ThemeResponse  `json:"themes,omitempty"`
	Section   *SectionResponse `json:"section,omitempty"`
}

// NewQuizResponse строит ответ из сущности квиза
func NewQuizResponse(quiz *entity.Quiz) QuizResponse {
	resp := QuizResponse{
		ID:        quiz.ID,
		Title:     quiz.Title,
		SectionID: quiz.SectionID,
		CreatorID: quiz.CreatorID,
		Completed: quiz.Completed,
	}
	if quiz.Section.ID != 0 {
		section := NewSectionResponse(&quiz.Section)
		resp.Section = &section
	}
	for i := range quiz.Themes {
		resp.Themes = append(resp.Themes, NewThemeResponse(&quiz.Themes[i]))
	}
	return resp
}

// NewQuizListResponse строит список ответов квизов
func NewQuizListResponse(quizzes []entity.Quiz) []QuizResponse {
	out := make([]QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, NewQuizResponse(&quizzes[i]))
	}
	return out
}

// ThemeResponse — представление темы
type ThemeResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	Round     *int               `json:"round"`
	QuizID    uint               `json:"quiz_id"`
	Questions []QuestionResponse `json:"questions,omitempty"`
}

// NewThemeResponse строит ответ из сущности темы
func NewThemeResponse(theme *entity.Theme) ThemeResponse {
	resp := ThemeResponse{
		ID:     theme.ID,
		Name:   theme.Name,
		Round:  theme.Round,
		QuizID: theme.QuizID,
	}
	for i := range theme.Questions {
		resp.Questions = append(resp.Questions, NewQuestionResponse(&theme.Questions[i]))
	}
	return resp
}

// NewThemeListResponse строит список ответов тем
func NewThemeListResponse(themes []entity.Theme) []ThemeResponse {
	out := make([]ThemeResponse, 0, len(themes))
	for i := range themes {
		out = append(out, NewThemeResponse(&themes[i]))
	}
	return out
}

// QuestionResponse — представление вопроса; медиа отдается с префиксом /api
type QuestionResponse struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	Value   int    `json:"value"`
	Type    int    `json:"type"`
	ThemeID uint   `json:"theme_id"`
	Image   string `json:"image,omitempty"`
	Audio   string `json:"audio,omitempty"`
}

// mediaURL превращает сохраненный путь в клиентский URL
func mediaURL(path string) string {
	if path == "" {
		return ""
	}
	return mediaPrefix + path
}

// NewQuestionResponse строит ответ из авторского вопроса
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:      q.ID,
		Text:    q.Text,
		Value:   q.Value,
		Type:    q.Type,
		ThemeID: q.ThemeID,
		Image:   mediaURL(q.Image),
		Audio:   mediaURL(q.Audio),
	}
}

// InGameQuestionResponse — представление игрового вопроса
type InGameQuestionResponse struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	Value   int    `json:"value"`
	Type    int    `json:"type"`
	ThemeID uint   `json:"theme_id"`
	Image   string `json:"image,omitempty"`
	Audio   string `json:"audio,omitempty"`
	Fresh   bool   `json:"fresh"`
}

// NewInGameQuestionResponse строит ответ из игрового вопроса
func NewInGameQuestionResponse(q *entity.InGameQuestion) InGameQuestionResponse {
	return InGameQuestionResponse{
		ID:      q.ID,
		Text:    q.Text,
		Value:   q.Value,
		Type:    q.Type,
		ThemeID: q.ThemeID,
		Image:   mediaURL(q.Image),
		Audio:   mediaURL(q.Audio),
		Fresh:   q.Fresh,
	}
}

// RoundThemeResponse — тема текущего раунда с игровыми вопросами
type RoundThemeResponse struct {
	ID        uint                     `json:"id"`
	Name      string                   `json:"name"`
	Questions []InGameQuestionResponse `json:"questions"`
}

// NewRoundThemeListResponse группирует игровые вопросы раунда по темам
func NewRoundThemeListResponse(themes []entity.Theme) []RoundThemeResponse {
	out := make([]RoundThemeResponse, 0, len(themes))
	for i := range themes {
		theme := &themes[i]
		resp := RoundThemeResponse{
			ID:        theme.ID,
			Name:      theme.Name,
			Questions: make([]InGameQuestionResponse, 0, len(theme.InGameQuestions)),
		}
		for j := range theme.InGameQuestions {
			resp.Questions = append(resp.Questions, NewInGameQuestionResponse(&theme.InGameQuestions[j]))
		}
		out = append(out, resp)
	}
	return out
}
