package service

import (
	"fmt"

	"github.com/neonfoxik/GameBot/internal/domain/repository"
)

// NeutralCoefficient применяется, когда для уровня не нашлось ни одного правила
const NeutralCoefficient = 1.0

// CoefficientService разрешает коэффициенты класса/уровня.
// Правила просматриваются в порядке хранения, выигрывает первое правило,
// в диапазон которого попадает уровень.
type CoefficientService struct {
	gameClassRepo repository.GameClassRepository
	activityRepo  repository.ActivityRepository
}

// NewCoefficientService создает новый сервис коэффициентов
func NewCoefficientService(
	gameClassRepo repository.GameClassRepository,
	activityRepo repository.ActivityRepository,
) *CoefficientService {
	return &CoefficientService{
		gameClassRepo: gameClassRepo,
		activityRepo:  activityRepo,
	}
}

// ResolveForClass возвращает глобальный коэффициент класса для уровня.
// Если подходящего правила нет — нейтральный 1.0.
func (s *CoefficientService) ResolveForClass(gameClassID uint, level int) (float64, error) {
	if level < 1 {
		return 0, fmt.Errorf("%w: level must be >= 1, got %d", ErrInvalidLevel, level)
	}

	rules, err := s.gameClassRepo.GetRules(gameClassID)
	if err != nil {
		return 0, fmt.Errorf("failed to get rules for class #%d: %w", gameClassID, err)
	}

	for _, rule := range rules {
		if rule.Matches(level) {
			return rule.Coefficient, nil
		}
	}
	return NeutralCoefficient, nil
}

// ResolveForActivity возвращает коэффициент из снапшота активности для
// класса и уровня. Если подходящего правила нет — нейтральный 1.0.
func (s *CoefficientService) ResolveForActivity(activityID, gameClassID uint, level int) (float64, error) {
	if level < 1 {
		return 0, fmt.Errorf("%w: level must be >= 1, got %d", ErrInvalidLevel, level)
	}

	coefficients, err := s.activityRepo.GetCoefficients(activityID)
	if err != nil {
		return 0, fmt.Errorf("failed to get coefficients for activity #%d: %w", activityID, err)
	}

	for _, coef := range coefficients {
		if coef.GameClassID == gameClassID && coef.Matches(level) {
			return coef.Coefficient, nil
		}
	}
	return NeutralCoefficient, nil
}
