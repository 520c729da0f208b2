package entity

import (
	"time"
)

// Quiz представляет авторский шаблон квиза.
// Когда квиз клонируется в игру, создается новая запись с Completed=true —
// такая копия принадлежит системе (CreatorID=nil) и удаляется вместе с игрой.
type Quiz struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"size:64;not null" json:"title"`
	CreatorID *uint  `gorm:"index" json:"creator_id,omitempty"`
	SectionID uint   `gorm:"not null;index" json:"section_id"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`

	Section Section `gorm:"foreignKey:SectionID" json:"-"`
	Themes  []Theme `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"themes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// IsCompleted проверяет, является ли квиз игровой копией (архивной)
func (q *Quiz) IsCompleted() bool {
	return q.Completed
}
