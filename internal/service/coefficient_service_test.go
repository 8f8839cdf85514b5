package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// ============================================================================
// Тесты для CoefficientService
// ============================================================================

func TestCoefficientService_ResolveForClass_FirstMatchWins(t *testing.T) {
	// Arrange: диапазоны пересекаются, выигрывает первое правило в порядке хранения
	mockGameClassRepo := new(MockGameClassRepository)
	mockGameClassRepo.On("GetRules", uint(1)).Return([]entity.LevelCoefficientRule{
		{ID: 10, GameClassID: 1, MinLevel: 1, MaxLevel: 10, Coefficient: 1.5},
		{ID: 11, GameClassID: 1, MinLevel: 5, MaxLevel: 15, Coefficient: 2.0},
	}, nil)

	svc := NewCoefficientService(mockGameClassRepo, nil)

	// Act: уровень 7 попадает в оба диапазона
	coef, err := svc.ResolveForClass(1, 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1.5, coef, "Должно выиграть первое подходящее правило")
	mockGameClassRepo.AssertExpectations(t)
}

func TestCoefficientService_ResolveForClass_NeutralFallback(t *testing.T) {
	// Arrange: ни одно правило не покрывает уровень
	mockGameClassRepo := new(MockGameClassRepository)
	mockGameClassRepo.On("GetRules", uint(1)).Return([]entity.LevelCoefficientRule{
		{ID: 10, GameClassID: 1, MinLevel: 1, MaxLevel: 5, Coefficient: 1.5},
	}, nil)

	svc := NewCoefficientService(mockGameClassRepo, nil)

	// Act
	coef, err := svc.ResolveForClass(1, 42)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, NeutralCoefficient, coef, "Без подходящего правила коэффициент нейтральный")
}

func TestCoefficientService_ResolveForClass_InclusiveBounds(t *testing.T) {
	mockGameClassRepo := new(MockGameClassRepository)
	mockGameClassRepo.On("GetRules", uint(1)).Return([]entity.LevelCoefficientRule{
		{ID: 10, GameClassID: 1, MinLevel: 3, MaxLevel: 7, Coefficient: 2.5},
	}, nil)

	svc := NewCoefficientService(mockGameClassRepo, nil)

	for _, level := range []int{3, 7} {
		coef, err := svc.ResolveForClass(1, level)
		require.NoError(t, err)
		assert.Equal(t, 2.5, coef, "Границы диапазона включительны, уровень %d", level)
	}

	coef, err := svc.ResolveForClass(1, 2)
	require.NoError(t, err)
	assert.Equal(t, NeutralCoefficient, coef)
}

func TestCoefficientService_ResolveForClass_InvalidLevel(t *testing.T) {
	svc := NewCoefficientService(new(MockGameClassRepository), nil)

	_, err := svc.ResolveForClass(1, 0)

	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestCoefficientService_ResolveForActivity_FiltersByClass(t *testing.T) {
	// Arrange: снапшот содержит правила нескольких классов
	mockActivityRepo := new(MockActivityRepository)
	mockActivityRepo.On("GetCoefficients", uint(5)).Return([]entity.ActivityClassLevelCoefficient{
		{ID: 1, ActivityID: 5, GameClassID: 1, MinLevel: 1, MaxLevel: 10, Coefficient: 1.5},
		{ID: 2, ActivityID: 5, GameClassID: 2, MinLevel: 1, MaxLevel: 10, Coefficient: 3.0},
	}, nil)

	svc := NewCoefficientService(nil, mockActivityRepo)

	// Act
	coef, err := svc.ResolveForActivity(5, 2, 4)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3.0, coef, "Должно использоваться правило нужного класса")
}

func TestCoefficientService_ResolveForActivity_NeutralFallback(t *testing.T) {
	mockActivityRepo := new(MockActivityRepository)
	mockActivityRepo.On("GetCoefficients", uint(5)).Return([]entity.ActivityClassLevelCoefficient{}, nil)

	svc := NewCoefficientService(nil, mockActivityRepo)

	coef, err := svc.ResolveForActivity(5, 1, 3)

	require.NoError(t, err)
	assert.Equal(t, NeutralCoefficient, coef)
}
