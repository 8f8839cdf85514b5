package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/domain/repository"
)

// ============================================================================
// Тесты для ParticipationService
// ============================================================================

func createTestParticipationService(
	participationRepo *MockParticipationRepository,
	activityRepo *MockActivityRepository,
	playerRepo *MockPlayerRepository,
	playerClassRepo *MockPlayerClassRepository,
	resolver *MockCoefficientResolver,
) *ParticipationService {
	return &ParticipationService{
		participationRepo: participationRepo,
		activityRepo:      activityRepo,
		playerRepo:        playerRepo,
		playerClassRepo:   playerClassRepo,
		resolver:          resolver,
	}
}

func testWarriorClass() *entity.PlayerClass {
	return &entity.PlayerClass{
		ID:          7,
		PlayerID:    2,
		GameClassID: 3,
		GameClass:   &entity.GameClass{ID: 3, Name: "Воин"},
		Level:       12,
	}
}

func TestParticipationService_Join_SnapshotsPlayerState(t *testing.T) {
	// Arrange
	mockParticipationRepo := new(MockParticipationRepository)
	mockActivityRepo := new(MockActivityRepository)
	mockPlayerRepo := new(MockPlayerRepository)
	mockPlayerClassRepo := new(MockPlayerClassRepository)

	mockActivityRepo.On("GetByID", uint(1)).Return(&entity.Activity{ID: 1, Name: "Рейд", IsActive: true}, nil)
	mockPlayerClassRepo.On("GetByID", uint(7)).Return(testWarriorClass(), nil)
	mockPlayerRepo.On("GetByID", uint(2)).Return(&entity.Player{ID: 2, GameNickname: "Shadow", TgName: "@shadow"}, nil)
	mockParticipationRepo.On("Create", mock.AnythingOfType("*entity.Participation")).Return(nil)

	svc := createTestParticipationService(mockParticipationRepo, mockActivityRepo, mockPlayerRepo, mockPlayerClassRepo, nil)

	// Act
	participation, err := svc.Join(1, 2, 7)

	// Assert: в сессии снапшоты, а не ссылки
	require.NoError(t, err)
	assert.Equal(t, "Shadow", participation.PlayerNickname)
	assert.Equal(t, "@shadow", participation.PlayerTgName)
	assert.Equal(t, "Воин", participation.ClassName)
	assert.Equal(t, 12, participation.ClassLevel)
	assert.Equal(t, uint(3), participation.GameClassID)
	assert.Nil(t, participation.CompletedAt)
	assert.False(t, participation.JoinedAt.IsZero())
	mockParticipationRepo.AssertExpectations(t)
}

func TestParticipationService_Join_InactiveActivity(t *testing.T) {
	// Arrange
	mockParticipationRepo := new(MockParticipationRepository)
	mockActivityRepo := new(MockActivityRepository)

	mockActivityRepo.On("GetByID", uint(1)).Return(&entity.Activity{ID: 1, IsActive: false}, nil)

	svc := createTestParticipationService(mockParticipationRepo, mockActivityRepo, nil, nil, nil)

	// Act
	participation, err := svc.Join(1, 2, 7)

	// Assert
	assert.ErrorIs(t, err, repository.ErrActivityNotActive)
	assert.Nil(t, participation)
	mockParticipationRepo.AssertNotCalled(t, "Create")
}

func TestParticipationService_Join_ClassNotOwned(t *testing.T) {
	// Arrange: класс принадлежит игроку #2, входит игрок #99
	mockParticipationRepo := new(MockParticipationRepository)
	mockActivityRepo := new(MockActivityRepository)
	mockPlayerClassRepo := new(MockPlayerClassRepository)

	mockActivityRepo.On("GetByID", uint(1)).Return(&entity.Activity{ID: 1, IsActive: true}, nil)
	mockPlayerClassRepo.On("GetByID", uint(7)).Return(testWarriorClass(), nil)

	svc := createTestParticipationService(mockParticipationRepo, mockActivityRepo, nil, mockPlayerClassRepo, nil)

	// Act
	participation, err := svc.Join(1, 99, 7)

	// Assert
	assert.ErrorIs(t, err, ErrClassNotOwned)
	assert.Nil(t, participation)
	mockParticipationRepo.AssertNotCalled(t, "Create")
}

func TestParticipationService_Complete_ScoresFromSnapshot(t *testing.T) {
	// Arrange: базовый 2.0, коэффициент класса 1.5, сессия длится ~100 секунд
	mockParticipationRepo := new(MockParticipationRepository)
	mockActivityRepo := new(MockActivityRepository)
	mockResolver := new(MockCoefficientResolver)

	joinedAt := time.Now().Add(-100 * time.Second)
	mockParticipationRepo.On("GetByID", uint(5)).Return(&entity.Participation{
		ID:          5,
		ActivityID:  1,
		PlayerID:    2,
		GameClassID: 3,
		ClassLevel:  12,
		JoinedAt:    joinedAt,
	}, nil)
	mockActivityRepo.On("GetByID", uint(1)).Return(&entity.Activity{ID: 1, IsActive: true, BaseCoefficient: 2.0}, nil)
	// Разрешение идет по снапшотам класса и уровня из сессии
	mockResolver.On("ResolveForActivity", uint(1), uint(3), 12).Return(1.5, nil)
	mockParticipationRepo.On("Update", mock.AnythingOfType("*entity.Participation")).Return(nil)

	svc := createTestParticipationService(mockParticipationRepo, mockActivityRepo, nil, nil, mockResolver)

	// Act
	points, err := svc.Complete(5)

	// Assert: 2.0 × 1.5 × ~100с ≈ 300
	require.NoError(t, err)
	assert.InDelta(t, 300.0, points, 1.0)
	mockParticipationRepo.AssertExpectations(t)
	mockResolver.AssertExpectations(t)
}

func TestParticipationService_Complete_AlreadyCompleted(t *testing.T) {
	// Arrange
	mockParticipationRepo := new(MockParticipationRepository)
	completedAt := time.Now().Add(-time.Minute)
	mockParticipationRepo.On("GetByID", uint(5)).Return(&entity.Participation{
		ID:           5,
		CompletedAt:  &completedAt,
		PointsEarned: 300.0,
	}, nil)

	svc := createTestParticipationService(mockParticipationRepo, nil, nil, nil, nil)

	// Act
	points, err := svc.Complete(5)

	// Assert: повторное завершение запрещено, пересчета нет
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
	assert.Zero(t, points)
	mockParticipationRepo.AssertNotCalled(t, "Update")
}

func TestParticipationService_CompleteAllOpen_SharedTimestamp(t *testing.T) {
	// Arrange: две открытые сессии, деактивация в asOf
	mockParticipationRepo := new(MockParticipationRepository)
	mockActivityRepo := new(MockActivityRepository)

	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	activity := &entity.Activity{ID: 1, Name: "Рейд", BaseCoefficient: 2.0}

	open := []entity.Participation{
		{ID: 10, ActivityID: 1, GameClassID: 3, ClassLevel: 12, JoinedAt: asOf.Add(-100 * time.Second)},
		{ID: 11, ActivityID: 1, GameClassID: 3, ClassLevel: 2, JoinedAt: asOf.Add(-50 * time.Second)},
	}

	mockParticipationRepo.On("GetOpenByActivityTx", mock.Anything, uint(1)).Return(open, nil)
	mockActivityRepo.On("GetCoefficients", uint(1)).Return([]entity.ActivityClassLevelCoefficient{
		{ActivityID: 1, GameClassID: 3, MinLevel: 10, MaxLevel: 20, Coefficient: 1.5},
	}, nil)
	mockParticipationRepo.On("UpdateTx", mock.Anything, mock.AnythingOfType("*entity.Participation")).Return(nil)

	svc := createTestParticipationService(mockParticipationRepo, mockActivityRepo, nil, nil, nil)

	// Act
	completed, err := svc.CompleteAllOpen(nil, activity, asOf)

	// Assert
	require.NoError(t, err)
	require.Len(t, completed, 2)

	// Единая метка времени завершения
	assert.Equal(t, asOf, *completed[0].CompletedAt)
	assert.Equal(t, asOf, *completed[1].CompletedAt)

	// Уровень 12 попал в правило 10-20: 2.0 × 1.5 × 100с = 300.00
	assert.Equal(t, 300.0, completed[0].PointsEarned)
	// Уровень 2 без правила, нейтральный коэффициент: 2.0 × 1.0 × 50с = 100.00
	assert.Equal(t, 100.0, completed[1].PointsEarned)
}

func TestParticipationService_CompleteAllOpen_IgnoreOdds(t *testing.T) {
	// Arrange: ignore_odds обнуляет влияние коэффициента класса
	mockParticipationRepo := new(MockParticipationRepository)
	mockActivityRepo := new(MockActivityRepository)

	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	activity := &entity.Activity{ID: 1, BaseCoefficient: 2.0, IgnoreOdds: true}

	open := []entity.Participation{
		{ID: 10, ActivityID: 1, GameClassID: 3, ClassLevel: 12, JoinedAt: asOf.Add(-100 * time.Second)},
	}

	mockParticipationRepo.On("GetOpenByActivityTx", mock.Anything, uint(1)).Return(open, nil)
	mockActivityRepo.On("GetCoefficients", uint(1)).Return([]entity.ActivityClassLevelCoefficient{
		{ActivityID: 1, GameClassID: 3, MinLevel: 10, MaxLevel: 20, Coefficient: 1.5},
	}, nil)
	mockParticipationRepo.On("UpdateTx", mock.Anything, mock.AnythingOfType("*entity.Participation")).Return(nil)

	svc := createTestParticipationService(mockParticipationRepo, mockActivityRepo, nil, nil, nil)

	// Act
	completed, err := svc.CompleteAllOpen(nil, activity, asOf)

	// Assert: 2.0 × 100с = 200.00, коэффициент 1.5 игнорируется
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, 200.0, completed[0].PointsEarned)
}

func TestParticipationService_AddBonusPoints(t *testing.T) {
	// Arrange
	mockParticipationRepo := new(MockParticipationRepository)
	mockParticipationRepo.On("UpdateAdditionalPoints", uint(5), 50.0).Return(nil)

	svc := createTestParticipationService(mockParticipationRepo, nil, nil, nil, nil)

	// Act
	err := svc.AddBonusPoints(5, 50.0)

	// Assert
	require.NoError(t, err)
	mockParticipationRepo.AssertExpectations(t)
}

func TestParticipationService_GetProfileSummary(t *testing.T) {
	// Arrange
	mockParticipationRepo := new(MockParticipationRepository)
	mockPlayerRepo := new(MockPlayerRepository)
	mockPlayerClassRepo := new(MockPlayerClassRepository)

	completedAt := time.Now().Add(-time.Hour)
	mockPlayerRepo.On("GetByID", uint(2)).Return(&entity.Player{ID: 2, GameNickname: "Shadow"}, nil)
	mockPlayerClassRepo.On("GetByPlayer", uint(2)).Return([]entity.PlayerClass{*testWarriorClass()}, nil)
	mockParticipationRepo.On("GetByPlayer", uint(2)).Return([]entity.Participation{
		{ID: 1, PlayerID: 2, CompletedAt: &completedAt, PointsEarned: 300.0, AdditionalPoints: 50.0},
		{ID: 2, PlayerID: 2},
	}, nil)

	svc := createTestParticipationService(mockParticipationRepo, nil, mockPlayerRepo, mockPlayerClassRepo, nil)

	// Act
	summary, err := svc.GetProfileSummary(2)

	// Assert
	require.NoError(t, err)
	assert.Len(t, summary.Classes, 1)
	assert.Len(t, summary.Active, 1)
	assert.Len(t, summary.Completed, 1)
	assert.Equal(t, 350.0, summary.TotalPoints, "Суммарные поинты включают дополнительные")
}
