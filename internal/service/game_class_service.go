package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/domain/repository"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// GameClassService управляет каталогом игровых классов и их правилами
// коэффициентов
type GameClassService struct {
	gameClassRepo repository.GameClassRepository
}

// NewGameClassService создает новый сервис игровых классов
func NewGameClassService(gameClassRepo repository.GameClassRepository) *GameClassService {
	return &GameClassService{gameClassRepo: gameClassRepo}
}

// Create создает новый игровой класс. Название уникально.
func (s *GameClassService) Create(name string) (*entity.GameClass, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: class name is empty", apperrors.ErrValidation)
	}

	gameClass := &entity.GameClass{Name: name}
	if err := s.gameClassRepo.Create(gameClass); err != nil {
		return nil, err
	}
	log.Printf("[GameClassService] Создан игровой класс #%d (%s)", gameClass.ID, name)
	return gameClass, nil
}

// GetByID возвращает игровой класс по ID
func (s *GameClassService) GetByID(gameClassID uint) (*entity.GameClass, error) {
	return s.gameClassRepo.GetByID(gameClassID)
}

// List возвращает все игровые классы
func (s *GameClassService) List() ([]entity.GameClass, error) {
	return s.gameClassRepo.List()
}

// ListWithRules возвращает все классы вместе с правилами коэффициентов
func (s *GameClassService) ListWithRules() ([]entity.GameClass, error) {
	return s.gameClassRepo.ListWithRules()
}

// AddRule добавляет классу правило коэффициента для диапазона уровней.
// Новое правило не может пересекаться по диапазону с существующими
// правилами того же класса — ErrOverlappingLevelRange.
func (s *GameClassService) AddRule(gameClassID uint, minLevel, maxLevel int, coefficient float64) (*entity.LevelCoefficientRule, error) {
	if minLevel < 1 || maxLevel < minLevel {
		return nil, fmt.Errorf("%w: invalid level range %d-%d", apperrors.ErrValidation, minLevel, maxLevel)
	}
	if coefficient <= 0 {
		return nil, fmt.Errorf("%w: coefficient must be positive, got %g", apperrors.ErrValidation, coefficient)
	}

	if _, err := s.gameClassRepo.GetByID(gameClassID); err != nil {
		return nil, err
	}

	existing, err := s.gameClassRepo.GetRules(gameClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rules for class #%d: %w", gameClassID, err)
	}
	for _, rule := range existing {
		if rule.Overlaps(minLevel, maxLevel) {
			return nil, fmt.Errorf("%w: %d-%d overlaps %d-%d for class #%d",
				repository.ErrOverlappingLevelRange, minLevel, maxLevel, rule.MinLevel, rule.MaxLevel, gameClassID)
		}
	}

	rule := &entity.LevelCoefficientRule{
		GameClassID: gameClassID,
		MinLevel:    minLevel,
		MaxLevel:    maxLevel,
		Coefficient: coefficient,
	}
	if err := s.gameClassRepo.CreateRule(rule); err != nil {
		return nil, err
	}
	log.Printf("[GameClassService] Классу #%d добавлено правило: уровни %d-%d, коэффициент %.2f",
		gameClassID, minLevel, maxLevel, coefficient)
	return rule, nil
}

// RemoveRule удаляет правило коэффициента
func (s *GameClassService) RemoveRule(ruleID uint) error {
	return s.gameClassRepo.DeleteRule(ruleID)
}
