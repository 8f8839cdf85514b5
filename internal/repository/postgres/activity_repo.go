package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/domain/repository"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// ActivityRepo реализует repository.ActivityRepository
type ActivityRepo struct {
	db *gorm.DB
}

// NewActivityRepo создает новый репозиторий активностей
func NewActivityRepo(db *gorm.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Create создает новую активность
func (r *ActivityRepo) Create(activity *entity.Activity) error {
	return r.db.Create(activity).Error
}

// GetByID возвращает активность по ID
func (r *ActivityRepo) GetByID(id uint) (*entity.Activity, error) {
	var activity entity.Activity
	err := r.db.First(&activity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// GetActive возвращает все активности в активном состоянии
func (r *ActivityRepo) GetActive() ([]entity.Activity, error) {
	var activities []entity.Activity
	err := r.db.Where("is_active = ?", true).Order("activated_at").Find(&activities).Error
	return activities, err
}

// List возвращает список активностей с пагинацией, новые первыми
func (r *ActivityRepo) List(limit, offset int) ([]entity.Activity, error) {
	var activities []entity.Activity
	err := r.db.Limit(limit).Offset(offset).Order("id DESC").Find(&activities).Error
	return activities, err
}

// Update обновляет информацию об активности
func (r *ActivityRepo) Update(activity *entity.Activity) error {
	return r.db.Save(activity).Error
}

// Delete удаляет активность
func (r *ActivityRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Activity{}, id).Error
}

// AtomicActivate атомарно переводит активность inactive → active.
// activated_at обновляется на КАЖДОМ ребре активации: окно нового прогона
// в истории должно считаться от свежей активации.
// - RowsAffected == 0 → активность уже активна (или не существует)
func (r *ActivityRepo) AtomicActivate(activityID uint, activatedAt time.Time) error {
	result := r.db.Model(&entity.Activity{}).
		Where("id = ? AND is_active = ?", activityID, false).
		Updates(map[string]interface{}{
			"is_active":    true,
			"activated_at": activatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("activate activity #%d failed: %w", activityID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: activity #%d", repository.ErrActivityAlreadyActive, activityID)
	}
	return nil
}

// AtomicDeactivate атомарно переводит активность active → inactive в рамках
// транзакции деактивации. Условный UPDATE гарантирует не более одного
// прохода архивации на ребро деактивации даже при конкурентных вызовах.
func (r *ActivityRepo) AtomicDeactivate(tx *gorm.DB, activityID uint) error {
	result := tx.Model(&entity.Activity{}).
		Where("id = ? AND is_active = ?", activityID, true).
		Update("is_active", false)

	if result.Error != nil {
		return fmt.Errorf("deactivate activity #%d failed: %w", activityID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: activity #%d", repository.ErrActivityNotActive, activityID)
	}
	return nil
}

// GetCoefficients возвращает снапшот коэффициентов активности в порядке хранения
func (r *ActivityRepo) GetCoefficients(activityID uint) ([]entity.ActivityClassLevelCoefficient, error) {
	var coefficients []entity.ActivityClassLevelCoefficient
	err := r.db.Where("activity_id = ?", activityID).Order("id").Find(&coefficients).Error
	return coefficients, err
}

// CreateCoefficients записывает снапшот коэффициентов активности
func (r *ActivityRepo) CreateCoefficients(coefficients []entity.ActivityClassLevelCoefficient) error {
	if len(coefficients) == 0 {
		return nil
	}
	return r.db.Create(&coefficients).Error
}

// ReplaceCoefficients удаляет текущий снапшот активности и записывает новый
// одной транзакцией (ручная синхронизация с актуальными правилами классов)
func (r *ActivityRepo) ReplaceCoefficients(activityID uint, coefficients []entity.ActivityClassLevelCoefficient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", activityID).
			Delete(&entity.ActivityClassLevelCoefficient{}).Error; err != nil {
			return err
		}
		if len(coefficients) == 0 {
			return nil
		}
		return tx.Create(&coefficients).Error
	})
}
