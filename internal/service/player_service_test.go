package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// ============================================================================
// Тесты для PlayerService
// ============================================================================

func TestPlayerService_Register_Success(t *testing.T) {
	// Arrange
	mockPlayerRepo := new(MockPlayerRepository)
	mockPlayerRepo.On("GetByTelegramID", "12345").Return(nil, apperrors.ErrNotFound)
	mockPlayerRepo.On("Create", mock.AnythingOfType("*entity.Player")).Return(nil)

	svc := NewPlayerService(mockPlayerRepo, nil, nil)

	// Act
	player, err := svc.Register("12345", "@shadow", "Shadow")

	// Assert: новый игрок без доступа, доступ выдает администратор
	require.NoError(t, err)
	assert.Equal(t, "Shadow", player.GameNickname)
	assert.Equal(t, "12345", player.TelegramID)
	assert.False(t, player.IsOurPlayer)
	mockPlayerRepo.AssertExpectations(t)
}

func TestPlayerService_Register_DuplicateTelegramID(t *testing.T) {
	// Arrange
	mockPlayerRepo := new(MockPlayerRepository)
	mockPlayerRepo.On("GetByTelegramID", "12345").Return(&entity.Player{ID: 2, TelegramID: "12345"}, nil)

	svc := NewPlayerService(mockPlayerRepo, nil, nil)

	// Act
	player, err := svc.Register("12345", "@shadow", "Shadow")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, player)
	mockPlayerRepo.AssertNotCalled(t, "Create")
}

func TestPlayerService_Register_EmptyNickname(t *testing.T) {
	svc := NewPlayerService(new(MockPlayerRepository), nil, nil)

	player, err := svc.Register("12345", "@shadow", "  ")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, player)
}

func TestPlayerService_RequireAccess(t *testing.T) {
	// Arrange
	mockPlayerRepo := new(MockPlayerRepository)
	mockPlayerRepo.On("GetByTelegramID", "1").Return(&entity.Player{ID: 1, TelegramID: "1", IsOurPlayer: true}, nil)
	mockPlayerRepo.On("GetByTelegramID", "2").Return(&entity.Player{ID: 2, TelegramID: "2", IsOurPlayer: false}, nil)
	mockPlayerRepo.On("GetByTelegramID", "3").Return(nil, apperrors.ErrNotFound)

	svc := NewPlayerService(mockPlayerRepo, nil, nil)

	// Act / Assert
	player, err := svc.RequireAccess("1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), player.ID)

	_, err = svc.RequireAccess("2")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.RequireAccess("3")
	assert.ErrorIs(t, err, ErrPlayerNotRegistered)
}

func TestPlayerService_SetClassLevel_NotOwned(t *testing.T) {
	// Arrange
	mockPlayerClassRepo := new(MockPlayerClassRepository)
	mockPlayerClassRepo.On("GetByID", uint(7)).Return(&entity.PlayerClass{ID: 7, PlayerID: 2}, nil)

	svc := NewPlayerService(nil, mockPlayerClassRepo, nil)

	// Act
	err := svc.SetClassLevel(99, 7, 15)

	// Assert
	assert.ErrorIs(t, err, ErrClassNotOwned)
	mockPlayerClassRepo.AssertNotCalled(t, "UpdateLevel")
}

func TestPlayerService_SetClassLevel_InvalidLevel(t *testing.T) {
	svc := NewPlayerService(nil, new(MockPlayerClassRepository), nil)

	err := svc.SetClassLevel(2, 7, 0)

	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestPlayerService_AddClass(t *testing.T) {
	// Arrange
	mockPlayerRepo := new(MockPlayerRepository)
	mockPlayerClassRepo := new(MockPlayerClassRepository)
	mockGameClassRepo := new(MockGameClassRepository)

	mockPlayerRepo.On("GetByID", uint(2)).Return(&entity.Player{ID: 2}, nil)
	mockGameClassRepo.On("GetByID", uint(3)).Return(&entity.GameClass{ID: 3, Name: "Воин"}, nil)
	mockPlayerClassRepo.On("Create", mock.AnythingOfType("*entity.PlayerClass")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.PlayerClass).ID = 7
	})
	mockPlayerClassRepo.On("GetByID", uint(7)).Return(testWarriorClass(), nil)

	svc := NewPlayerService(mockPlayerRepo, mockPlayerClassRepo, mockGameClassRepo)

	// Act
	playerClass, err := svc.AddClass(2, 3, 12)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Воин", playerClass.GameClass.Name)
	mockPlayerClassRepo.AssertExpectations(t)
}
