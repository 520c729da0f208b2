package entity

import (
	"time"
)

// Participant представляет членство пользователя в одной игре.
// Запись никогда не удаляется физически: при завершении игры Active
// сбрасывается в false, а после удаления игры GameID обнуляется
// (ON DELETE SET NULL), и строка остается как история счета.
// Partial unique index idx_participants_single_active гарантирует
// не более одной активной записи на пользователя во всей системе.
type Participant struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"not null;index" json:"user_id"`
	GameID *uint `gorm:"index" json:"game_id,omitempty"`
	Score  int   `gorm:"not null;default:0" json:"score"`
	Active bool  `gorm:"not null;default:true" json:"active"`

	// Поля супер-раунда: ставка и текстовый ответ игрока
	SuperBet    *int    `json:"super_bet,omitempty"`
	SuperAnswer *string `gorm:"size:128" json:"super_answer,omitempty"`

	// Готовность к ответу («кнопка») и момент нажатия — для порядка ответов
	Ready      bool       `gorm:"not null;default:false" json:"ready"`
	AnswerTime *time.Time `json:"answer_time,omitempty"`

	AnswerAttempts int `gorm:"not null;default:0" json:"answer_attempts"`
	CorrectAnswers int `gorm:"not null;default:0" json:"correct_answers"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Participant) TableName() string {
	return "participants"
}
