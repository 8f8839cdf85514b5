package repository

import (
	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// GameClassRepository определяет методы для работы с игровыми классами
type GameClassRepository interface {
	Create(gameClass *entity.GameClass) error
	GetByID(id uint) (*entity.GameClass, error)
	GetByName(name string) (*entity.GameClass, error)
	List() ([]entity.GameClass, error)
	// ListWithRules возвращает все классы вместе с их правилами коэффициентов
	ListWithRules() ([]entity.GameClass, error)
	Delete(id uint) error

	// GetRules возвращает правила коэффициентов класса в порядке хранения.
	// Порядок важен: разрешение коэффициента берет первое совпадение.
	GetRules(gameClassID uint) ([]entity.LevelCoefficientRule, error)
	CreateRule(rule *entity.LevelCoefficientRule) error
	DeleteRule(ruleID uint) error
}
