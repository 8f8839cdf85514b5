package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/domain/repository"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// ParticipationService ведет журнал участия: вход в активность, завершение
// сессий, бонусные поинты и сводка профиля
type ParticipationService struct {
	participationRepo repository.ParticipationRepository
	activityRepo      repository.ActivityRepository
	playerRepo        repository.PlayerRepository
	playerClassRepo   repository.PlayerClassRepository
	resolver          CoefficientResolver
}

// NewParticipationService создает новый сервис журнала участия
func NewParticipationService(
	participationRepo repository.ParticipationRepository,
	activityRepo repository.ActivityRepository,
	playerRepo repository.PlayerRepository,
	playerClassRepo repository.PlayerClassRepository,
	resolver CoefficientResolver,
) *ParticipationService {
	return &ParticipationService{
		participationRepo: participationRepo,
		activityRepo:      activityRepo,
		playerRepo:        playerRepo,
		playerClassRepo:   playerClassRepo,
		resolver:          resolver,
	}
}

// Join создает новую сессию участия игрока в активности.
// Требования: активность активна, класс принадлежит игроку.
// Ник, имя в Telegram, название класса и уровень снапшотятся в момент входа.
// Повторный вход в ту же активность разрешен.
func (s *ParticipationService) Join(activityID, playerID, playerClassID uint) (*entity.Participation, error) {
	activity, err := s.activityRepo.GetByID(activityID)
	if err != nil {
		return nil, err
	}
	if !activity.IsActive {
		return nil, fmt.Errorf("%w: activity #%d", repository.ErrActivityNotActive, activityID)
	}

	playerClass, err := s.playerClassRepo.GetByID(playerClassID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("player class #%d not found: %w", playerClassID, err)
		}
		return nil, err
	}
	if !playerClass.BelongsTo(playerID) {
		return nil, fmt.Errorf("%w: class #%d, player #%d", ErrClassNotOwned, playerClassID, playerID)
	}
	if playerClass.GameClass == nil {
		return nil, fmt.Errorf("player class #%d is missing its game class", playerClassID)
	}

	player, err := s.playerRepo.GetByID(playerID)
	if err != nil {
		return nil, err
	}

	participation := &entity.Participation{
		ActivityID:     activityID,
		PlayerID:       playerID,
		PlayerClassID:  playerClassID,
		GameClassID:    playerClass.GameClassID,
		PlayerNickname: player.GameNickname,
		PlayerTgName:   player.TgName,
		ClassName:      playerClass.GameClass.Name,
		ClassLevel:     playerClass.Level,
		JoinedAt:       time.Now(),
	}

	if err := s.participationRepo.Create(participation); err != nil {
		return nil, fmt.Errorf("failed to create participation: %w", err)
	}

	log.Printf("[ParticipationService] Игрок #%d (%s) вошел в активность #%d классом %s ур.%d",
		playerID, player.GameNickname, activityID, participation.ClassName, participation.ClassLevel)
	return participation, nil
}

// Complete завершает сессию участия и начисляет поинты по формуле:
// базовый коэффициент × коэффициент класса (если не ignore_odds) ×
// длительность в секундах, округление до 2 знаков. Коэффициент берется из
// снапшота активности по снапшотам класса и уровня сессии.
// Повторное завершение запрещено, пересчета нет.
func (s *ParticipationService) Complete(participationID uint) (float64, error) {
	participation, err := s.participationRepo.GetByID(participationID)
	if err != nil {
		return 0, err
	}
	if participation.IsCompleted() {
		return 0, fmt.Errorf("%w: participation #%d", ErrAlreadyCompleted, participationID)
	}

	activity, err := s.activityRepo.GetByID(participation.ActivityID)
	if err != nil {
		return 0, err
	}

	coefficient, err := s.resolver.ResolveForActivity(activity.ID, participation.GameClassID, participation.ClassLevel)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	points := activity.CalculatePoints(coefficient, participation.DurationSeconds(now))

	participation.CompletedAt = &now
	participation.PointsEarned = points
	if err := s.participationRepo.Update(participation); err != nil {
		return 0, fmt.Errorf("failed to complete participation #%d: %w", participationID, err)
	}

	log.Printf("[ParticipationService] Сессия #%d завершена: %s, %.2f поинтов",
		participationID, participation.PlayerNickname, points)
	return points, nil
}

// CompleteAllOpen принудительно завершает все открытые сессии активности
// в рамках транзакции деактивации. Всем сессиям проставляется одна и та же
// метка времени asOf, начисление идет по обычной формуле.
func (s *ParticipationService) CompleteAllOpen(tx *gorm.DB, activity *entity.Activity, asOf time.Time) ([]entity.Participation, error) {
	open, err := s.participationRepo.GetOpenByActivityTx(tx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open participations for activity #%d: %w", activity.ID, err)
	}
	if len(open) == 0 {
		return nil, nil
	}

	// Снапшот коэффициентов читаем один раз на весь проход
	coefficients, err := s.activityRepo.GetCoefficients(activity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coefficients for activity #%d: %w", activity.ID, err)
	}

	for i := range open {
		p := &open[i]
		coefficient := resolveFromSnapshot(coefficients, p.GameClassID, p.ClassLevel)
		points := activity.CalculatePoints(coefficient, asOf.Sub(p.JoinedAt).Seconds())

		completedAt := asOf
		p.CompletedAt = &completedAt
		p.PointsEarned = points
		if err := s.participationRepo.UpdateTx(tx, p); err != nil {
			return nil, fmt.Errorf("failed to force-complete participation #%d: %w", p.ID, err)
		}
	}

	log.Printf("[ParticipationService] Принудительно завершено %d сессий активности #%d", len(open), activity.ID)
	return open, nil
}

// AddBonusPoints добавляет дополнительные поинты к сессии участия.
// Разрешено в любой момент, в том числе после завершения сессии.
func (s *ParticipationService) AddBonusPoints(participationID uint, amount float64) error {
	if err := s.participationRepo.UpdateAdditionalPoints(participationID, amount); err != nil {
		return fmt.Errorf("failed to add %.2f bonus points to participation #%d: %w", amount, participationID, err)
	}
	log.Printf("[ParticipationService] Сессии #%d начислено %.2f дополнительных поинтов", participationID, amount)
	return nil
}

// GetOpenByPlayerAndActivity возвращает открытые сессии игрока в активности
func (s *ParticipationService) GetOpenByPlayerAndActivity(playerID, activityID uint) ([]entity.Participation, error) {
	return s.participationRepo.GetOpenByPlayerAndActivity(playerID, activityID)
}

// GetByActivity возвращает все сессии участия активности
func (s *ParticipationService) GetByActivity(activityID uint) ([]entity.Participation, error) {
	return s.participationRepo.GetByActivity(activityID)
}

// ProfileSummary — сводка профиля игрока для бота
type ProfileSummary struct {
	Player      *entity.Player
	Classes     []entity.PlayerClass
	Active      []entity.Participation
	Completed   []entity.Participation
	TotalPoints float64
}

// GetProfileSummary собирает сводку профиля: классы игрока, текущие и
// завершенные сессии, суммарные поинты
func (s *ParticipationService) GetProfileSummary(playerID uint) (*ProfileSummary, error) {
	player, err := s.playerRepo.GetByID(playerID)
	if err != nil {
		return nil, err
	}

	classes, err := s.playerClassRepo.GetByPlayer(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get classes for player #%d: %w", playerID, err)
	}

	participations, err := s.participationRepo.GetByPlayer(playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participations for player #%d: %w", playerID, err)
	}

	summary := &ProfileSummary{
		Player:  player,
		Classes: classes,
	}
	for _, p := range participations {
		if p.IsCompleted() {
			summary.Completed = append(summary.Completed, p)
			summary.TotalPoints += p.TotalPoints()
		} else {
			summary.Active = append(summary.Active, p)
		}
	}
	return summary, nil
}

// resolveFromSnapshot разрешает коэффициент по уже загруженному снапшоту:
// первое подходящее правило, иначе нейтральный 1.0
func resolveFromSnapshot(coefficients []entity.ActivityClassLevelCoefficient, gameClassID uint, level int) float64 {
	for _, coef := range coefficients {
		if coef.GameClassID == gameClassID && coef.Matches(level) {
			return coef.Coefficient
		}
	}
	return NeutralCoefficient
}
