package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// ActivityRepository определяет методы для работы с активностями
type ActivityRepository interface {
	Create(activity *entity.Activity) error
	GetByID(id uint) (*entity.Activity, error)
	// GetActive возвращает все активности в активном состоянии
	GetActive() ([]entity.Activity, error)
	List(limit, offset int) ([]entity.Activity, error)
	Update(activity *entity.Activity) error
	Delete(id uint) error

	// AtomicActivate атомарно переводит активность inactive → active и
	// обновляет activated_at. RowsAffected == 0 означает, что активность
	// уже была активна (ErrActivityAlreadyActive).
	AtomicActivate(activityID uint, activatedAt time.Time) error
	// AtomicDeactivate атомарно переводит активность active → inactive
	// в рамках переданной транзакции. RowsAffected == 0 означает, что
	// активность не была активна (ErrActivityNotActive).
	AtomicDeactivate(tx *gorm.DB, activityID uint) error

	// GetCoefficients возвращает снапшот коэффициентов активности в порядке хранения
	GetCoefficients(activityID uint) ([]entity.ActivityClassLevelCoefficient, error)
	CreateCoefficients(coefficients []entity.ActivityClassLevelCoefficient) error
	// ReplaceCoefficients удаляет текущий снапшот активности и записывает новый
	ReplaceCoefficients(activityID uint, coefficients []entity.ActivityClassLevelCoefficient) error
}
