package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// ============================================================================
// Тесты для HistoryService и агрегации участников
// ============================================================================

func ts(minuteOffset int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minuteOffset) * time.Minute)
}

func completedSession(nickname string, className string, level int, joined, completed time.Time, points, additional float64) entity.Participation {
	return entity.Participation{
		PlayerNickname:   nickname,
		ClassName:        className,
		ClassLevel:       level,
		JoinedAt:         joined,
		CompletedAt:      &completed,
		PointsEarned:     points,
		AdditionalPoints: additional,
	}
}

func TestAggregateParticipants_ThreeSessionsOneRow(t *testing.T) {
	// Arrange: игрок трижды входил тем же классом того же уровня,
	// сессии по 20 секунд
	asOf := ts(60)
	parts := []entity.Participation{
		completedSession("Shadow", "Воин", 12, ts(0), ts(0).Add(20*time.Second), 10.0, 0),
		completedSession("Shadow", "Воин", 12, ts(10), ts(10).Add(20*time.Second), 12.0, 5.0),
		completedSession("Shadow", "Воин", 12, ts(20), ts(20).Add(20*time.Second), 8.0, 0),
	}

	// Act
	aggregates := AggregateParticipants(parts, asOf)

	// Assert: одна строка с суммами и общим окном
	require.Len(t, aggregates, 1)
	agg := aggregates[0]
	assert.Equal(t, "Shadow", agg.PlayerNickname)
	assert.Equal(t, 30.0, agg.PointsEarned)
	assert.Equal(t, 5.0, agg.AdditionalPoints)
	assert.Equal(t, 60.0, agg.DurationSeconds)
	assert.Equal(t, 3, agg.SessionCount)
	assert.Equal(t, ts(0), agg.JoinedAt, "joined_at — минимум по сессиям")
	assert.Equal(t, ts(20).Add(20*time.Second), agg.CompletedAt, "completed_at — максимум по сессиям")
}

func TestAggregateParticipants_DistinctLevelsSplitRows(t *testing.T) {
	// Arrange: между сессиями игрок прокачал уровень — тройки различаются
	asOf := ts(60)
	parts := []entity.Participation{
		completedSession("Shadow", "Воин", 12, ts(0), ts(1), 10.0, 0),
		completedSession("Shadow", "Воин", 13, ts(10), ts(11), 20.0, 0),
	}

	// Act
	aggregates := AggregateParticipants(parts, asOf)

	// Assert
	require.Len(t, aggregates, 2)
	assert.Equal(t, 12, aggregates[0].ClassLevel)
	assert.Equal(t, 13, aggregates[1].ClassLevel)
}

func TestAggregateParticipants_OpenSessionFallsBackToAsOf(t *testing.T) {
	// Arrange: незавершенная сессия — конец окна считается asOf
	asOf := ts(10)
	parts := []entity.Participation{
		{
			PlayerNickname: "Shadow",
			ClassName:      "Воин",
			ClassLevel:     12,
			JoinedAt:       ts(0),
		},
	}

	// Act
	aggregates := AggregateParticipants(parts, asOf)

	// Assert
	require.Len(t, aggregates, 1)
	assert.Equal(t, asOf, aggregates[0].CompletedAt)
	assert.Equal(t, 600.0, aggregates[0].DurationSeconds)
}

func TestAggregateParticipants_Empty(t *testing.T) {
	aggregates := AggregateParticipants(nil, ts(0))
	assert.Empty(t, aggregates)
}

func TestHistoryService_ExportHistory(t *testing.T) {
	// Arrange
	mockHistoryRepo := new(MockHistoryRepository)
	mockExporter := new(MockExportGateway)

	history := &entity.ActivityHistory{
		ID:                3,
		Name:              "Рейд",
		ActivityStartedAt: ts(0),
		ActivityEndedAt:   ts(60),
		Participants: []entity.HistoryParticipant{
			{PlayerNickname: "Shadow", ClassName: "Воин", ClassLevel: 12, PointsEarned: 300.0, AdditionalPoints: 50.0, DurationSeconds: 100.0, SessionCount: 2},
		},
	}
	mockHistoryRepo.On("GetWithParticipants", uint(3)).Return(history, nil)
	mockExporter.On("Export", mock.MatchedBy(func(rows []ExportRow) bool {
		return len(rows) == 1 &&
			rows[0].ActivityName == "Рейд" &&
			rows[0].PlayerNickname == "Shadow" &&
			rows[0].TotalPoints == 350.0 &&
			rows[0].Sessions == 2
	})).Return(&ExportResult{URL: "https://docs.google.com/spreadsheets/d/test", SheetTitle: "Лист1"}, nil)
	mockHistoryRepo.On("MarkExported", uint(3)).Return(nil)

	svc := NewHistoryService(mockHistoryRepo, nil, mockExporter)

	// Act
	result, err := svc.ExportHistory(3)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Лист1", result.SheetTitle)
	mockHistoryRepo.AssertExpectations(t)
	mockExporter.AssertExpectations(t)
}

func TestHistoryService_ExportHistory_NotConfigured(t *testing.T) {
	svc := NewHistoryService(new(MockHistoryRepository), nil, nil)

	result, err := svc.ExportHistory(3)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestHistoryService_Archive_CopiesActivityFields(t *testing.T) {
	// Arrange
	mockHistoryRepo := new(MockHistoryRepository)
	mockParticipationRepo := new(MockParticipationRepository)

	activatedAt := ts(0)
	activity := &entity.Activity{
		ID:              1,
		Name:            "Рейд",
		Description:     "Еженедельный",
		BaseCoefficient: 2.0,
		IgnoreOdds:      true,
		CreatedByID:     9,
		ActivatedAt:     &activatedAt,
	}
	asOf := ts(60)

	mockParticipationRepo.On("GetByActivityTx", mock.Anything, uint(1)).Return([]entity.Participation{
		completedSession("Shadow", "Воин", 12, ts(5), ts(10), 100.0, 0),
	}, nil)
	mockHistoryRepo.On("CreateTx", mock.Anything, mock.AnythingOfType("*entity.ActivityHistory")).Return(nil)

	svc := NewHistoryService(mockHistoryRepo, mockParticipationRepo, nil)

	// Act
	history, err := svc.Archive(nil, activity, asOf)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(1), history.OriginalActivityID)
	assert.Equal(t, "Рейд", history.Name)
	assert.Equal(t, 2.0, history.BaseCoefficient)
	assert.True(t, history.IgnoreOdds)
	assert.Equal(t, activatedAt, history.ActivityStartedAt)
	assert.Equal(t, asOf, history.ActivityEndedAt)
	require.Len(t, history.Participants, 1)
	assert.False(t, history.IsExported)
}
