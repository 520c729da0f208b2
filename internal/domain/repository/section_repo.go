package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// SectionRepository определяет методы для работы с разделами квизов
type SectionRepository interface {
	Create(section *entity.Section) error
	GetByID(id uint) (*entity.Section, error)
	List() ([]entity.Section, error)
	Update(section *entity.Section) error
	Delete(id uint) error
}
