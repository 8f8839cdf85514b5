package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// ParticipationRepo реализует repository.ParticipationRepository
type ParticipationRepo struct {
	db *gorm.DB
}

// NewParticipationRepo создает новый репозиторий журнала участия
func NewParticipationRepo(db *gorm.DB) *ParticipationRepo {
	return &ParticipationRepo{db: db}
}

// Create создает новую сессию участия. Уникальности по (activity, player)
// нет: повторный вход в ту же активность разрешен.
func (r *ParticipationRepo) Create(participation *entity.Participation) error {
	return r.db.Create(participation).Error
}

// GetByID возвращает сессию участия по ID
func (r *ParticipationRepo) GetByID(id uint) (*entity.Participation, error) {
	var participation entity.Participation
	err := r.db.First(&participation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participation, nil
}

// GetByActivity возвращает все сессии участия активности
func (r *ParticipationRepo) GetByActivity(activityID uint) ([]entity.Participation, error) {
	return r.getByActivity(r.db, activityID)
}

// GetOpenByActivity возвращает незавершенные сессии активности
func (r *ParticipationRepo) GetOpenByActivity(activityID uint) ([]entity.Participation, error) {
	return r.getOpenByActivity(r.db, activityID)
}

// GetOpenByPlayerAndActivity возвращает открытые сессии игрока в активности
func (r *ParticipationRepo) GetOpenByPlayerAndActivity(playerID, activityID uint) ([]entity.Participation, error) {
	var participations []entity.Participation
	err := r.db.
		Where("player_id = ? AND activity_id = ? AND completed_at IS NULL", playerID, activityID).
		Order("joined_at").
		Find(&participations).Error
	return participations, err
}

// GetByPlayer возвращает все сессии игрока, новые первыми
func (r *ParticipationRepo) GetByPlayer(playerID uint) ([]entity.Participation, error) {
	var participations []entity.Participation
	err := r.db.Where("player_id = ?", playerID).Order("joined_at DESC").Find(&participations).Error
	return participations, err
}

// Update обновляет сессию участия
func (r *ParticipationRepo) Update(participation *entity.Participation) error {
	return r.db.Save(participation).Error
}

// UpdateAdditionalPoints атомарно увеличивает additional_points на delta
func (r *ParticipationRepo) UpdateAdditionalPoints(participationID uint, delta float64) error {
	result := r.db.Model(&entity.Participation{}).
		Where("id = ?", participationID).
		Update("additional_points", gorm.Expr("additional_points + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetByActivityTx возвращает все сессии активности в рамках транзакции
func (r *ParticipationRepo) GetByActivityTx(tx *gorm.DB, activityID uint) ([]entity.Participation, error) {
	return r.getByActivity(tx, activityID)
}

// GetOpenByActivityTx возвращает незавершенные сессии в рамках транзакции
func (r *ParticipationRepo) GetOpenByActivityTx(tx *gorm.DB, activityID uint) ([]entity.Participation, error) {
	return r.getOpenByActivity(tx, activityID)
}

// UpdateTx сохраняет сессию участия в рамках транзакции
func (r *ParticipationRepo) UpdateTx(tx *gorm.DB, participation *entity.Participation) error {
	return tx.Save(participation).Error
}

// DeleteByActivityTx удаляет все сессии активности в рамках транзакции.
// Живой журнал — рабочее состояние; после архивации постоянной записью
// становится история.
func (r *ParticipationRepo) DeleteByActivityTx(tx *gorm.DB, activityID uint) error {
	return tx.Where("activity_id = ?", activityID).Delete(&entity.Participation{}).Error
}

func (r *ParticipationRepo) getByActivity(db *gorm.DB, activityID uint) ([]entity.Participation, error) {
	var participations []entity.Participation
	err := db.Where("activity_id = ?", activityID).Order("joined_at").Find(&participations).Error
	return participations, err
}

func (r *ParticipationRepo) getOpenByActivity(db *gorm.DB, activityID uint) ([]entity.Participation, error) {
	var participations []entity.Participation
	err := db.Where("activity_id = ? AND completed_at IS NULL", activityID).
		Order("joined_at").
		Find(&participations).Error
	return participations, err
}
