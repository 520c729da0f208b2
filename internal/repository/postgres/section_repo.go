package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// SectionRepo реализует repository.SectionRepository
type SectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo создает новый репозиторий разделов
func NewSectionRepo(db *gorm.DB) *SectionRepo {
	return &SectionRepo{db: db}
}

// Create создает новый раздел
func (r *SectionRepo) Create(section *entity.Section) error {
	return r.db.Create(section).Error
}

// GetByID возвращает раздел по ID
func (r *SectionRepo) GetByID(id uint) (*entity.Section, error) {
	var section entity.Section
	err := r.db.First(&section, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// List возвращает все разделы по алфавиту
func (r *SectionRepo) List() ([]entity.Section, error) {
	var sections []entity.Section
	err := r.db.Order("name").Find(&sections).Error
	return sections, err
}

// Update обновляет информацию о разделе
func (r *SectionRepo) Update(section *entity.Section) error {
	return r.db.Save(section).Error
}

// Delete удаляет раздел
func (r *SectionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Section{}, id).Error
}
