package service

import (
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// ============================================================================
// Общие моки репозиториев для тестов сервисного слоя
// ============================================================================

// MockActivityRepository реализует repository.ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(activity *entity.Activity) error {
	args := m.Called(activity)
	return args.Error(0)
}

func (m *MockActivityRepository) GetByID(id uint) (*entity.Activity, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Activity), args.Error(1)
}

func (m *MockActivityRepository) GetActive() ([]entity.Activity, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Activity), args.Error(1)
}

func (m *MockActivityRepository) List(limit, offset int) ([]entity.Activity, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Activity), args.Error(1)
}

func (m *MockActivityRepository) Update(activity *entity.Activity) error {
	args := m.Called(activity)
	return args.Error(0)
}

func (m *MockActivityRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockActivityRepository) AtomicActivate(activityID uint, activatedAt time.Time) error {
	args := m.Called(activityID, activatedAt)
	return args.Error(0)
}

func (m *MockActivityRepository) AtomicDeactivate(tx *gorm.DB, activityID uint) error {
	args := m.Called(tx, activityID)
	return args.Error(0)
}

func (m *MockActivityRepository) GetCoefficients(activityID uint) ([]entity.ActivityClassLevelCoefficient, error) {
	args := m.Called(activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ActivityClassLevelCoefficient), args.Error(1)
}

func (m *MockActivityRepository) CreateCoefficients(coefficients []entity.ActivityClassLevelCoefficient) error {
	args := m.Called(coefficients)
	return args.Error(0)
}

func (m *MockActivityRepository) ReplaceCoefficients(activityID uint, coefficients []entity.ActivityClassLevelCoefficient) error {
	args := m.Called(activityID, coefficients)
	return args.Error(0)
}

// MockParticipationRepository реализует repository.ParticipationRepository
type MockParticipationRepository struct {
	mock.Mock
}

func (m *MockParticipationRepository) Create(participation *entity.Participation) error {
	args := m.Called(participation)
	return args.Error(0)
}

func (m *MockParticipationRepository) GetByID(id uint) (*entity.Participation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participation), args.Error(1)
}

func (m *MockParticipationRepository) GetByActivity(activityID uint) ([]entity.Participation, error) {
	args := m.Called(activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participation), args.Error(1)
}

func (m *MockParticipationRepository) GetOpenByActivity(activityID uint) ([]entity.Participation, error) {
	args := m.Called(activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participation), args.Error(1)
}

func (m *MockParticipationRepository) GetOpenByPlayerAndActivity(playerID, activityID uint) ([]entity.Participation, error) {
	args := m.Called(playerID, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participation), args.Error(1)
}

func (m *MockParticipationRepository) GetByPlayer(playerID uint) ([]entity.Participation, error) {
	args := m.Called(playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participation), args.Error(1)
}

func (m *MockParticipationRepository) Update(participation *entity.Participation) error {
	args := m.Called(participation)
	return args.Error(0)
}

func (m *MockParticipationRepository) UpdateAdditionalPoints(participationID uint, delta float64) error {
	args := m.Called(participationID, delta)
	return args.Error(0)
}

func (m *MockParticipationRepository) GetByActivityTx(tx *gorm.DB, activityID uint) ([]entity.Participation, error) {
	args := m.Called(tx, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participation), args.Error(1)
}

func (m *MockParticipationRepository) GetOpenByActivityTx(tx *gorm.DB, activityID uint) ([]entity.Participation, error) {
	args := m.Called(tx, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Participation), args.Error(1)
}

func (m *MockParticipationRepository) UpdateTx(tx *gorm.DB, participation *entity.Participation) error {
	args := m.Called(tx, participation)
	return args.Error(0)
}

func (m *MockParticipationRepository) DeleteByActivityTx(tx *gorm.DB, activityID uint) error {
	args := m.Called(tx, activityID)
	return args.Error(0)
}

// MockPlayerRepository реализует repository.PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) Create(player *entity.Player) error {
	args := m.Called(player)
	return args.Error(0)
}

func (m *MockPlayerRepository) GetByID(id uint) (*entity.Player, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByTelegramID(telegramID string) (*entity.Player, error) {
	args := m.Called(telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByNickname(nickname string) (*entity.Player, error) {
	args := m.Called(nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Player), args.Error(1)
}

func (m *MockPlayerRepository) ListOurPlayers() ([]entity.Player, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Player), args.Error(1)
}

func (m *MockPlayerRepository) List() ([]entity.Player, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Player), args.Error(1)
}

func (m *MockPlayerRepository) Update(player *entity.Player) error {
	args := m.Called(player)
	return args.Error(0)
}

func (m *MockPlayerRepository) SetSelectedClass(playerID uint, playerClassID *uint) error {
	args := m.Called(playerID, playerClassID)
	return args.Error(0)
}

func (m *MockPlayerRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockPlayerClassRepository реализует repository.PlayerClassRepository
type MockPlayerClassRepository struct {
	mock.Mock
}

func (m *MockPlayerClassRepository) Create(playerClass *entity.PlayerClass) error {
	args := m.Called(playerClass)
	return args.Error(0)
}

func (m *MockPlayerClassRepository) GetByID(id uint) (*entity.PlayerClass, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PlayerClass), args.Error(1)
}

func (m *MockPlayerClassRepository) GetByPlayer(playerID uint) ([]entity.PlayerClass, error) {
	args := m.Called(playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PlayerClass), args.Error(1)
}

func (m *MockPlayerClassRepository) GetByPlayerAndClass(playerID, gameClassID uint) (*entity.PlayerClass, error) {
	args := m.Called(playerID, gameClassID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PlayerClass), args.Error(1)
}

func (m *MockPlayerClassRepository) UpdateLevel(playerClassID uint, level int) error {
	args := m.Called(playerClassID, level)
	return args.Error(0)
}

func (m *MockPlayerClassRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockGameClassRepository реализует repository.GameClassRepository
type MockGameClassRepository struct {
	mock.Mock
}

func (m *MockGameClassRepository) Create(gameClass *entity.GameClass) error {
	args := m.Called(gameClass)
	return args.Error(0)
}

func (m *MockGameClassRepository) GetByID(id uint) (*entity.GameClass, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameClass), args.Error(1)
}

func (m *MockGameClassRepository) GetByName(name string) (*entity.GameClass, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameClass), args.Error(1)
}

func (m *MockGameClassRepository) List() ([]entity.GameClass, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.GameClass), args.Error(1)
}

func (m *MockGameClassRepository) ListWithRules() ([]entity.GameClass, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.GameClass), args.Error(1)
}

func (m *MockGameClassRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockGameClassRepository) GetRules(gameClassID uint) ([]entity.LevelCoefficientRule, error) {
	args := m.Called(gameClassID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LevelCoefficientRule), args.Error(1)
}

func (m *MockGameClassRepository) CreateRule(rule *entity.LevelCoefficientRule) error {
	args := m.Called(rule)
	return args.Error(0)
}

func (m *MockGameClassRepository) DeleteRule(ruleID uint) error {
	args := m.Called(ruleID)
	return args.Error(0)
}

// MockHistoryRepository реализует repository.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) CreateTx(tx *gorm.DB, history *entity.ActivityHistory) error {
	args := m.Called(tx, history)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetByID(id uint) (*entity.ActivityHistory, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ActivityHistory), args.Error(1)
}

func (m *MockHistoryRepository) GetWithParticipants(id uint) (*entity.ActivityHistory, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ActivityHistory), args.Error(1)
}

func (m *MockHistoryRepository) ListByActivity(activityID uint) ([]entity.ActivityHistory, error) {
	args := m.Called(activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ActivityHistory), args.Error(1)
}

func (m *MockHistoryRepository) List(limit, offset int) ([]entity.ActivityHistory, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.ActivityHistory), args.Get(1).(int64), args.Error(2)
}

func (m *MockHistoryRepository) MarkExported(historyID uint) error {
	args := m.Called(historyID)
	return args.Error(0)
}

func (m *MockHistoryRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCoefficientResolver реализует CoefficientResolver
type MockCoefficientResolver struct {
	mock.Mock
}

func (m *MockCoefficientResolver) ResolveForClass(gameClassID uint, level int) (float64, error) {
	args := m.Called(gameClassID, level)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockCoefficientResolver) ResolveForActivity(activityID, gameClassID uint, level int) (float64, error) {
	args := m.Called(activityID, gameClassID, level)
	return args.Get(0).(float64), args.Error(1)
}

// MockExportGateway реализует ExportGateway
type MockExportGateway struct {
	mock.Mock
}

func (m *MockExportGateway) Export(rows []ExportRow) (*ExportResult, error) {
	args := m.Called(rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExportResult), args.Error(1)
}
