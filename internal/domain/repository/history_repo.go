package repository

import (
	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// HistoryRepository определяет методы для работы с историей активностей
type HistoryRepository interface {
	// CreateTx создает запись истории вместе с участниками в рамках транзакции
	CreateTx(tx *gorm.DB, history *entity.ActivityHistory) error
	GetByID(id uint) (*entity.ActivityHistory, error)
	GetWithParticipants(id uint) (*entity.ActivityHistory, error)
	// ListByActivity возвращает историю прогонов одной активности, новые первыми
	ListByActivity(activityID uint) ([]entity.ActivityHistory, error)
	List(limit, offset int) ([]entity.ActivityHistory, int64, error)
	MarkExported(historyID uint) error
	Delete(id uint) error
}
