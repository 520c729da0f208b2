package entity

import (
	"time"
)

// Типы вопросов
const (
	QuestionTypeText  = 1
	QuestionTypeImage = 2
	QuestionTypeAudio = 3
)

// Лестница стоимостей вопросов внутри темы: {100..500} без дубликатов
const (
	QuestionValueMax  = 500
	QuestionValueStep = 100
)

// Question представляет авторский вопрос. Игровые экземпляры не трогают
// авторскую копию — для них существует InGameQuestion.
type Question struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Text    string `gorm:"size:512;not null" json:"text"`
	Value   int    `gorm:"not null;default:0" json:"value"`
	Type    int    `gorm:"not null;default:1" json:"type"`
	ThemeID uint   `gorm:"not null;index" json:"theme_id"`
	Image   string `gorm:"size:255;not null;default:''" json:"image,omitempty"`
	Audio   string `gorm:"size:255;not null;default:''" json:"audio,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// InGameQuestion — игровая копия вопроса. Fresh=true, пока вопрос не разыгран
// (ответ, «никто», супер-раунд).
type InGameQuestion struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Text    string `gorm:"size:512;not null" json:"text"`
	Value   int    `gorm:"not null;default:0" json:"value"`
	Type    int    `gorm:"not null;default:1" json:"type"`
	ThemeID uint   `gorm:"not null;index" json:"theme_id"`
	Image   string `gorm:"size:255;not null;default:''" json:"image,omitempty"`
	Audio   string `gorm:"size:255;not null;default:''" json:"audio,omitempty"`
	Fresh   bool   `gorm:"not null;default:true" json:"fresh"`

	Theme Theme `gorm:"foreignKey:ThemeID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (InGameQuestion) TableName() string {
	return "in_game_questions"
}

// NextQuestionValue подбирает стоимость для нового вопроса темы:
// самая высокая незанятая ступень лестницы, по убыванию от 500.
// Возвращает 0, если лестница заполнена.
func NextQuestionValue(taken []int) int {
	used := make(map[int]bool, len(taken))
	for _, v := range taken {
		used[v] = true
	}
	for value := QuestionValueMax; value > 0; value -= QuestionValueStep {
		if !used[value] {
			return value
		}
	}
	return 0
}
