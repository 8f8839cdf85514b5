package service

import (
	"time"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// CoefficientResolver разрешает коэффициенты класса/уровня.
// Реализуется CoefficientService; интерфейс нужен сервисам-потребителям.
type CoefficientResolver interface {
	ResolveForClass(gameClassID uint, level int) (float64, error)
	ResolveForActivity(activityID, gameClassID uint, level int) (float64, error)
}

// ClosureStats — итог участия игрока в завершившейся активности
type ClosureStats struct {
	PointsEarned     float64
	AdditionalPoints float64
	DurationSeconds  float64
	Sessions         int
}

// TotalPoints возвращает суммарные поинты игрока за прогон
func (s ClosureStats) TotalPoints() float64 {
	return s.PointsEarned + s.AdditionalPoints
}

// Notifier рассылает уведомления игрокам. Все вызовы best-effort:
// ошибки доставки логируются реализацией и не влияют на вызывающего.
type Notifier interface {
	// ActivityActivated уведомляет игроков о старте активности с кнопкой входа
	ActivityActivated(players []entity.Player, activity *entity.Activity)

	// ActivityClosed уведомляет игрока об итогах завершившейся активности
	ActivityClosed(player *entity.Player, activity *entity.Activity, stats ClosureStats)
}

// ExportRow — плоская строка выгрузки истории во внешнюю таблицу
type ExportRow struct {
	ActivityName     string
	StartedAt        time.Time
	EndedAt          time.Time
	PlayerNickname   string
	ClassName        string
	ClassLevel       int
	PointsEarned     float64
	AdditionalPoints float64
	TotalPoints      float64
	DurationSeconds  float64
	Sessions         int
}

// ExportResult — итог выгрузки во внешнюю таблицу
type ExportResult struct {
	URL        string
	SheetTitle string
}

// ExportGateway выгружает строки истории во внешнюю таблицу
type ExportGateway interface {
	Export(rows []ExportRow) (*ExportResult, error)
}
