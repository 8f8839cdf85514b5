package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// HistoryRepo реализует repository.HistoryRepository
type HistoryRepo struct {
	db *gorm.DB
}

// NewHistoryRepo создает новый репозиторий истории активностей
func NewHistoryRepo(db *gorm.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// CreateTx создает запись истории вместе с участниками в рамках транзакции
// деактивации: история должна существовать до очистки живого журнала.
func (r *HistoryRepo) CreateTx(tx *gorm.DB, history *entity.ActivityHistory) error {
	return tx.Create(history).Error
}

// GetByID возвращает запись истории по ID
func (r *HistoryRepo) GetByID(id uint) (*entity.ActivityHistory, error) {
	var history entity.ActivityHistory
	err := r.db.First(&history, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &history, nil
}

// GetWithParticipants возвращает запись истории вместе с агрегатами участников
func (r *HistoryRepo) GetWithParticipants(id uint) (*entity.ActivityHistory, error) {
	var history entity.ActivityHistory
	err := r.db.Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("activity_history_participants.player_nickname")
	}).First(&history, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &history, nil
}

// ListByActivity возвращает историю прогонов одной активности, новые первыми
func (r *HistoryRepo) ListByActivity(activityID uint) ([]entity.ActivityHistory, error) {
	var histories []entity.ActivityHistory
	err := r.db.Where("original_activity_id = ?", activityID).
		Order("activity_ended_at DESC").
		Find(&histories).Error
	return histories, err
}

// List возвращает список записей истории с пагинацией и total count
func (r *HistoryRepo) List(limit, offset int) ([]entity.ActivityHistory, int64, error) {
	var histories []entity.ActivityHistory
	var total int64

	query := r.db.Model(&entity.ActivityHistory{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("activity_ended_at DESC").Find(&histories).Error
	if err != nil {
		return nil, 0, err
	}
	return histories, total, nil
}

// MarkExported помечает запись истории как выгруженную в таблицу
func (r *HistoryRepo) MarkExported(historyID uint) error {
	result := r.db.Model(&entity.ActivityHistory{}).
		Where("id = ?", historyID).
		Update("is_exported", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет запись истории
func (r *HistoryRepo) Delete(id uint) error {
	return r.db.Delete(&entity.ActivityHistory{}, id).Error
}
