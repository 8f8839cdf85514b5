package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// GameClassRepo реализует repository.GameClassRepository
type GameClassRepo struct {
	db *gorm.DB
}

// NewGameClassRepo создает новый репозиторий игровых классов
func NewGameClassRepo(db *gorm.DB) *GameClassRepo {
	return &GameClassRepo{db: db}
}

// Create создает новый игровой класс
func (r *GameClassRepo) Create(gameClass *entity.GameClass) error {
	err := r.db.Create(gameClass).Error
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: game class %q already exists", apperrors.ErrConflict, gameClass.Name)
	}
	return err
}

// GetByID возвращает игровой класс по ID
func (r *GameClassRepo) GetByID(id uint) (*entity.GameClass, error) {
	var gameClass entity.GameClass
	err := r.db.First(&gameClass, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &gameClass, nil
}

// GetByName возвращает игровой класс по названию
func (r *GameClassRepo) GetByName(name string) (*entity.GameClass, error) {
	var gameClass entity.GameClass
	err := r.db.Where("name = ?", name).First(&gameClass).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &gameClass, nil
}

// List возвращает все игровые классы
func (r *GameClassRepo) List() ([]entity.GameClass, error) {
	var classes []entity.GameClass
	err := r.db.Order("id").Find(&classes).Error
	return classes, err
}

// ListWithRules возвращает все классы вместе с правилами коэффициентов
func (r *GameClassRepo) ListWithRules() ([]entity.GameClass, error) {
	var classes []entity.GameClass
	err := r.db.Preload("Rules", func(db *gorm.DB) *gorm.DB {
		return db.Order("level_coefficient_rules.id")
	}).Order("id").Find(&classes).Error
	return classes, err
}

// Delete удаляет игровой класс
func (r *GameClassRepo) Delete(id uint) error {
	return r.db.Delete(&entity.GameClass{}, id).Error
}

// GetRules возвращает правила коэффициентов класса в порядке хранения
func (r *GameClassRepo) GetRules(gameClassID uint) ([]entity.LevelCoefficientRule, error) {
	var rules []entity.LevelCoefficientRule
	err := r.db.Where("game_class_id = ?", gameClassID).Order("id").Find(&rules).Error
	return rules, err
}

// CreateRule создает правило коэффициента для класса
func (r *GameClassRepo) CreateRule(rule *entity.LevelCoefficientRule) error {
	err := r.db.Create(rule).Error
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: rule %d-%d for class #%d", apperrors.ErrConflict, rule.MinLevel, rule.MaxLevel, rule.GameClassID)
	}
	return err
}

// DeleteRule удаляет правило коэффициента
func (r *GameClassRepo) DeleteRule(ruleID uint) error {
	return r.db.Delete(&entity.LevelCoefficientRule{}, ruleID).Error
}
