package repository

import (
	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// ParticipationRepository определяет методы для работы с журналом участия
type ParticipationRepository interface {
	Create(participation *entity.Participation) error
	GetByID(id uint) (*entity.Participation, error)
	// GetByActivity возвращает все сессии участия активности (открытые и закрытые)
	GetByActivity(activityID uint) ([]entity.Participation, error)
	// GetOpenByActivity возвращает сессии с completed_at IS NULL
	GetOpenByActivity(activityID uint) ([]entity.Participation, error)
	// GetOpenByPlayerAndActivity возвращает открытые сессии игрока в активности
	GetOpenByPlayerAndActivity(playerID, activityID uint) ([]entity.Participation, error)
	// GetByPlayer возвращает все сессии игрока, новые первыми
	GetByPlayer(playerID uint) ([]entity.Participation, error)
	Update(participation *entity.Participation) error
	// UpdateAdditionalPoints атомарно увеличивает additional_points на delta
	UpdateAdditionalPoints(participationID uint, delta float64) error

	// Транзакционные варианты для шага деактивации: архив должен читать
	// полностью завершенные строки до очистки журнала.
	GetByActivityTx(tx *gorm.DB, activityID uint) ([]entity.Participation, error)
	GetOpenByActivityTx(tx *gorm.DB, activityID uint) ([]entity.Participation, error)
	UpdateTx(tx *gorm.DB, participation *entity.Participation) error
	DeleteByActivityTx(tx *gorm.DB, activityID uint) error
}
