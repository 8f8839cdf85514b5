package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/domain/repository"
)

// ActivityService управляет жизненным циклом активностей:
// создание со снапшотом коэффициентов, активация, деактивация с архивацией
type ActivityService struct {
	activityRepo     repository.ActivityRepository
	gameClassRepo    repository.GameClassRepository
	playerRepo       repository.PlayerRepository
	participationSvc *ParticipationService
	historySvc       *HistoryService
	notifier         Notifier
	db               *gorm.DB

	// Переходы состояния одной активности сериализуются между собой.
	// Условный UPDATE в репозитории дает ту же гарантию между процессами.
	locksMu sync.Mutex
	locks   map[uint]*sync.Mutex
}

// NewActivityService создает новый сервис жизненного цикла активностей.
// notifier может быть nil, тогда уведомления не рассылаются.
func NewActivityService(
	activityRepo repository.ActivityRepository,
	gameClassRepo repository.GameClassRepository,
	playerRepo repository.PlayerRepository,
	participationSvc *ParticipationService,
	historySvc *HistoryService,
	notifier Notifier,
	db *gorm.DB,
) *ActivityService {
	return &ActivityService{
		activityRepo:     activityRepo,
		gameClassRepo:    gameClassRepo,
		playerRepo:       playerRepo,
		participationSvc: participationSvc,
		historySvc:       historySvc,
		notifier:         notifier,
		db:               db,
		locks:            make(map[uint]*sync.Mutex),
	}
}

// lockActivity возвращает мьютекс конкретной активности
func (s *ActivityService) lockActivity(activityID uint) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[activityID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[activityID] = mu
	}
	return mu
}

// Create создает новую активность в неактивном состоянии и снапшотит в нее
// текущие правила коэффициентов всех классов. Снапшот делается один раз:
// последующие правки глобальных правил активность не затрагивают.
func (s *ActivityService) Create(name, description string, baseCoefficient float64, ignoreOdds bool, createdByID uint) (*entity.Activity, error) {
	activity := &entity.Activity{
		Name:            name,
		Description:     description,
		IsActive:        false,
		IgnoreOdds:      ignoreOdds,
		BaseCoefficient: baseCoefficient,
		CreatedByID:     createdByID,
	}

	classes, err := s.gameClassRepo.ListWithRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load class rules: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(activity).Error; err != nil {
			return fmt.Errorf("failed to create activity: %w", err)
		}

		coefficients := snapshotCoefficients(activity.ID, classes)
		if len(coefficients) > 0 {
			if err := tx.Create(&coefficients).Error; err != nil {
				return fmt.Errorf("failed to snapshot coefficients for activity #%d: %w", activity.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ActivityService] Активность #%d (%s) создана, базовый коэффициент %.2f", activity.ID, name, baseCoefficient)
	return activity, nil
}

// Activate переводит активность в активное состояние. Повторная активация
// уже активной активности — ошибка ErrActivityAlreadyActive. activated_at
// обновляется на каждой активации: от него считается окно нового прогона.
// После успешной активации все наши игроки получают уведомление с кнопкой
// входа (best-effort).
func (s *ActivityService) Activate(activityID uint) (*entity.Activity, error) {
	mu := s.lockActivity(activityID)
	mu.Lock()
	defer mu.Unlock()

	// Существование проверяем до атомарного UPDATE, чтобы отличать
	// "не найдена" от "уже активна"
	if _, err := s.activityRepo.GetByID(activityID); err != nil {
		return nil, err
	}

	if err := s.activityRepo.AtomicActivate(activityID, time.Now()); err != nil {
		return nil, err
	}

	activity, err := s.activityRepo.GetByID(activityID)
	if err != nil {
		return nil, err
	}
	log.Printf("[ActivityService] Активность #%d (%s) активирована", activity.ID, activity.Name)

	// Уведомления строго после успешного перехода, best-effort
	if s.notifier != nil {
		players, err := s.playerRepo.ListOurPlayers()
		if err != nil {
			log.Printf("[ActivityService] Предупреждение: не удалось получить игроков для рассылки: %v", err)
		} else {
			s.notifier.ActivityActivated(players, activity)
		}
	}

	return activity, nil
}

// Deactivate переводит активность в неактивное состояние и архивирует прогон.
// В ОДНОЙ транзакции, строго по порядку:
//  1. атомарный переход active → inactive;
//  2. принудительное завершение всех открытых сессий (единая метка времени);
//  3. архивная запись с агрегатами участников;
//  4. очистка живого журнала участия.
//
// После коммита — best-effort: итоговые уведомления игрокам и выгрузка
// в таблицу. Их сбои логируются и не откатывают деактивацию.
func (s *ActivityService) Deactivate(activityID uint) (*entity.ActivityHistory, error) {
	mu := s.lockActivity(activityID)
	mu.Lock()
	defer mu.Unlock()

	activity, err := s.activityRepo.GetByID(activityID)
	if err != nil {
		return nil, err
	}

	asOf := time.Now()

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := s.activityRepo.AtomicDeactivate(tx, activityID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if _, err := s.participationSvc.CompleteAllOpen(tx, activity, asOf); err != nil {
		tx.Rollback()
		return nil, err
	}

	history, err := s.historySvc.Archive(tx, activity, asOf)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Для итоговых уведомлений собираем сессии до очистки журнала
	participations, err := s.participationSvc.participationRepo.GetByActivityTx(tx, activityID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read participations for activity #%d: %w", activityID, err)
	}

	if err := s.participationSvc.participationRepo.DeleteByActivityTx(tx, activityID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to clear participations for activity #%d: %w", activityID, err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit deactivation of activity #%d: %w", activityID, err)
	}

	log.Printf("[ActivityService] Активность #%d (%s) деактивирована, история #%d", activity.ID, activity.Name, history.ID)

	// Всё дальше — best-effort
	s.notifyClosure(activity, participations, asOf)

	if s.historySvc.exporter != nil {
		if _, err := s.historySvc.ExportHistory(history.ID); err != nil {
			log.Printf("[ActivityService] Предупреждение: выгрузка истории #%d не удалась: %v", history.ID, err)
		}
	}

	return history, nil
}

// notifyClosure рассылает игрокам итоги завершившегося прогона
func (s *ActivityService) notifyClosure(activity *entity.Activity, participations []entity.Participation, asOf time.Time) {
	if s.notifier == nil || len(participations) == 0 {
		return
	}

	stats := make(map[uint]ClosureStats)
	for _, p := range participations {
		st := stats[p.PlayerID]
		st.PointsEarned += p.PointsEarned
		st.AdditionalPoints += p.AdditionalPoints
		st.DurationSeconds += p.DurationSeconds(asOf)
		st.Sessions++
		stats[p.PlayerID] = st
	}

	for playerID, st := range stats {
		player, err := s.playerRepo.GetByID(playerID)
		if err != nil {
			log.Printf("[ActivityService] Предупреждение: игрок #%d не найден для итогового уведомления: %v", playerID, err)
			continue
		}
		s.notifier.ActivityClosed(player, activity, st)
	}
}

// SyncCoefficients пересобирает снапшот коэффициентов активности из текущих
// правил классов. Единственный способ донести правку глобальных правил до
// уже созданной активности.
func (s *ActivityService) SyncCoefficients(activityID uint) error {
	if _, err := s.activityRepo.GetByID(activityID); err != nil {
		return err
	}

	classes, err := s.gameClassRepo.ListWithRules()
	if err != nil {
		return fmt.Errorf("failed to load class rules: %w", err)
	}

	if err := s.activityRepo.ReplaceCoefficients(activityID, snapshotCoefficients(activityID, classes)); err != nil {
		return fmt.Errorf("failed to sync coefficients for activity #%d: %w", activityID, err)
	}

	log.Printf("[ActivityService] Коэффициенты активности #%d синхронизированы с правилами классов", activityID)
	return nil
}

// GetByID возвращает активность по ID
func (s *ActivityService) GetByID(activityID uint) (*entity.Activity, error) {
	return s.activityRepo.GetByID(activityID)
}

// GetActive возвращает активные активности
func (s *ActivityService) GetActive() ([]entity.Activity, error) {
	return s.activityRepo.GetActive()
}

// List возвращает активности с пагинацией
func (s *ActivityService) List(page, pageSize int) ([]entity.Activity, error) {
	offset := (page - 1) * pageSize
	return s.activityRepo.List(pageSize, offset)
}

// snapshotCoefficients собирает строки снапшота из правил классов
func snapshotCoefficients(activityID uint, classes []entity.GameClass) []entity.ActivityClassLevelCoefficient {
	var coefficients []entity.ActivityClassLevelCoefficient
	for _, class := range classes {
		for _, rule := range class.Rules {
			coefficients = append(coefficients, entity.ActivityClassLevelCoefficient{
				ActivityID:  activityID,
				GameClassID: class.ID,
				MinLevel:    rule.MinLevel,
				MaxLevel:    rule.MaxLevel,
				Coefficient: rule.Coefficient,
			})
		}
	}
	return coefficients
}
