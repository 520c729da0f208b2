package entity

// Section представляет тематическую секцию, к которой относится квиз
type Section struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:64;not null" json:"name"`
	SpecialColor string `gorm:"size:10;not null" json:"color"`
}

// TableName определяет имя таблицы для GORM
func (Section) TableName() string {
	return "sections"
}
