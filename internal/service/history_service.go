package service

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/domain/repository"
)

// HistoryService архивирует прогоны активностей и выгружает их во внешнюю
// таблицу
type HistoryService struct {
	historyRepo       repository.HistoryRepository
	participationRepo repository.ParticipationRepository
	exporter          ExportGateway
}

// NewHistoryService создает новый сервис истории активностей.
// exporter может быть nil, если выгрузка выключена.
func NewHistoryService(
	historyRepo repository.HistoryRepository,
	participationRepo repository.ParticipationRepository,
	exporter ExportGateway,
) *HistoryService {
	return &HistoryService{
		historyRepo:       historyRepo,
		participationRepo: participationRepo,
		exporter:          exporter,
	}
}

// participantKey — ключ группировки сессий в агрегат истории
type participantKey struct {
	nickname   string
	className  string
	classLevel int
}

// AggregateParticipants сворачивает сессии участия в агрегаты истории:
// одна строка на уникальную тройку (ник, класс, уровень). Поинты,
// дополнительные поинты и длительность суммируются, joined_at — минимум,
// completed_at — максимум; у незавершенных сессий конец считается asOf.
// Порядок строк — порядок первого появления тройки.
func AggregateParticipants(participations []entity.Participation, asOf time.Time) []entity.HistoryParticipant {
	index := make(map[participantKey]int, len(participations))
	aggregates := make([]entity.HistoryParticipant, 0, len(participations))

	for _, p := range participations {
		end := asOf
		if p.CompletedAt != nil {
			end = *p.CompletedAt
		}

		key := participantKey{p.PlayerNickname, p.ClassName, p.ClassLevel}
		if i, ok := index[key]; ok {
			agg := &aggregates[i]
			agg.PointsEarned += p.PointsEarned
			agg.AdditionalPoints += p.AdditionalPoints
			agg.DurationSeconds += p.DurationSeconds(asOf)
			agg.SessionCount++
			if p.JoinedAt.Before(agg.JoinedAt) {
				agg.JoinedAt = p.JoinedAt
			}
			if end.After(agg.CompletedAt) {
				agg.CompletedAt = end
			}
			continue
		}

		index[key] = len(aggregates)
		aggregates = append(aggregates, entity.HistoryParticipant{
			PlayerNickname:   p.PlayerNickname,
			ClassName:        p.ClassName,
			ClassLevel:       p.ClassLevel,
			PointsEarned:     p.PointsEarned,
			AdditionalPoints: p.AdditionalPoints,
			DurationSeconds:  p.DurationSeconds(asOf),
			SessionCount:     1,
			JoinedAt:         p.JoinedAt,
			CompletedAt:      end,
		})
	}
	return aggregates
}

// Archive создает архивную запись прогона активности в рамках транзакции
// деактивации. Вызывается ПОСЛЕ принудительного завершения открытых сессий
// и ДО очистки живого журнала.
func (s *HistoryService) Archive(tx *gorm.DB, activity *entity.Activity, asOf time.Time) (*entity.ActivityHistory, error) {
	participations, err := s.participationRepo.GetByActivityTx(tx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participations for activity #%d: %w", activity.ID, err)
	}

	history := &entity.ActivityHistory{
		OriginalActivityID: activity.ID,
		Name:               activity.Name,
		Description:        activity.Description,
		BaseCoefficient:    activity.BaseCoefficient,
		IgnoreOdds:         activity.IgnoreOdds,
		CreatedByID:        activity.CreatedByID,
		ActivityStartedAt:  activity.StartedAt(),
		ActivityEndedAt:    asOf,
		Participants:       AggregateParticipants(participations, asOf),
	}

	if err := s.historyRepo.CreateTx(tx, history); err != nil {
		return nil, fmt.Errorf("failed to archive activity #%d: %w", activity.ID, err)
	}

	log.Printf("[HistoryService] Активность #%d заархивирована: история #%d, %d участников",
		activity.ID, history.ID, len(history.Participants))
	return history, nil
}

// ListHistories возвращает записи истории с пагинацией
func (s *HistoryService) ListHistories(page, pageSize int) ([]entity.ActivityHistory, int64, error) {
	offset := (page - 1) * pageSize
	return s.historyRepo.List(pageSize, offset)
}

// GetHistoryWithParticipants возвращает запись истории вместе с агрегатами
func (s *HistoryService) GetHistoryWithParticipants(historyID uint) (*entity.ActivityHistory, error) {
	return s.historyRepo.GetWithParticipants(historyID)
}

// ListByActivity возвращает историю прогонов одной активности
func (s *HistoryService) ListByActivity(activityID uint) ([]entity.ActivityHistory, error) {
	return s.historyRepo.ListByActivity(activityID)
}

// ExportHistory выгружает агрегаты записи истории во внешнюю таблицу
// и помечает запись как выгруженную
func (s *HistoryService) ExportHistory(historyID uint) (*ExportResult, error) {
	if s.exporter == nil {
		return nil, ErrExportNotConfigured
	}

	history, err := s.historyRepo.GetWithParticipants(historyID)
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(history.Participants))
	for _, hp := range history.Participants {
		rows = append(rows, ExportRow{
			ActivityName:     history.Name,
			StartedAt:        history.ActivityStartedAt,
			EndedAt:          history.ActivityEndedAt,
			PlayerNickname:   hp.PlayerNickname,
			ClassName:        hp.ClassName,
			ClassLevel:       hp.ClassLevel,
			PointsEarned:     hp.PointsEarned,
			AdditionalPoints: hp.AdditionalPoints,
			TotalPoints:      hp.TotalPoints(),
			DurationSeconds:  hp.DurationSeconds,
			Sessions:         hp.SessionCount,
		})
	}

	result, err := s.exporter.Export(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to export history #%d: %w", historyID, err)
	}

	if err := s.historyRepo.MarkExported(historyID); err != nil {
		// Выгрузка прошла, пометка не критична
		log.Printf("[HistoryService] Предупреждение: не удалось пометить историю #%d как выгруженную: %v", historyID, err)
	}

	log.Printf("[HistoryService] История #%d выгружена в таблицу (%d строк)", historyID, len(rows))
	return result, nil
}
