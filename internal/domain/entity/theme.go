package entity

import (
	"time"
)

// MaxThemesPerRound — максимум тем одного квиза в одном раунде
const MaxThemesPerRound = 5

// Theme представляет именованную категорию вопросов внутри квиза.
// Round равен nil, пока тема не распределена по раундам.
type Theme struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:64;not null;index:idx_themes_quiz_name,unique" json:"name"`
	Round  *int   `json:"round"`
	QuizID uint   `gorm:"not null;index;index:idx_themes_quiz_name,unique" json:"quiz_id"`

	Questions       []Question       `gorm:"foreignKey:ThemeID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	InGameQuestions []InGameQuestion `gorm:"foreignKey:ThemeID;constraint:OnDelete:CASCADE" json:"in_game_questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Theme) TableName() string {
	return "themes"
}

// IsArranged проверяет, назначен ли теме раунд
func (t *Theme) IsArranged() bool {
	return t.Round != nil
}
