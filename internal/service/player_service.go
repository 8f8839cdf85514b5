package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/domain/repository"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// PlayerService управляет игроками и их классами
type PlayerService struct {
	playerRepo      repository.PlayerRepository
	playerClassRepo repository.PlayerClassRepository
	gameClassRepo   repository.GameClassRepository
}

// NewPlayerService создает новый сервис игроков
func NewPlayerService(
	playerRepo repository.PlayerRepository,
	playerClassRepo repository.PlayerClassRepository,
	gameClassRepo repository.GameClassRepository,
) *PlayerService {
	return &PlayerService{
		playerRepo:      playerRepo,
		playerClassRepo: playerClassRepo,
		gameClassRepo:   gameClassRepo,
	}
}

// Register регистрирует нового игрока по Telegram ID и игровому нику.
// Ник уникален; занятый ник — apperrors.ErrConflict.
// Новый игрок создается без доступа к боту (is_our_player=false),
// доступ выдает администратор.
func (s *PlayerService) Register(telegramID, tgName, gameNickname string) (*entity.Player, error) {
	gameNickname = strings.TrimSpace(gameNickname)
	if gameNickname == "" {
		return nil, fmt.Errorf("%w: game nickname is empty", apperrors.ErrValidation)
	}
	if len([]rune(gameNickname)) > 50 {
		return nil, fmt.Errorf("%w: game nickname is longer than 50 characters", apperrors.ErrValidation)
	}

	if _, err := s.playerRepo.GetByTelegramID(telegramID); err == nil {
		return nil, fmt.Errorf("%w: telegram user %s is already registered", apperrors.ErrConflict, telegramID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	player := &entity.Player{
		GameNickname: gameNickname,
		TelegramID:   telegramID,
		TgName:       tgName,
		IsOurPlayer:  false,
	}
	if err := s.playerRepo.Create(player); err != nil {
		return nil, err
	}

	log.Printf("[PlayerService] Зарегистрирован игрок #%d (%s, tg=%s)", player.ID, gameNickname, telegramID)
	return player, nil
}

// GetByTelegramID возвращает игрока по Telegram ID.
// Незарегистрированный пользователь — ErrPlayerNotRegistered.
func (s *PlayerService) GetByTelegramID(telegramID string) (*entity.Player, error) {
	player, err := s.playerRepo.GetByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: telegram user %s", ErrPlayerNotRegistered, telegramID)
		}
		return nil, err
	}
	return player, nil
}

// RequireAccess возвращает игрока по Telegram ID и проверяет флаг доступа.
// Игрок без is_our_player — ErrAccessDenied.
func (s *PlayerService) RequireAccess(telegramID string) (*entity.Player, error) {
	player, err := s.GetByTelegramID(telegramID)
	if err != nil {
		return nil, err
	}
	if !player.IsOurPlayer {
		return nil, fmt.Errorf("%w: player #%d", ErrAccessDenied, player.ID)
	}
	return player, nil
}

// GetByID возвращает игрока по ID
func (s *PlayerService) GetByID(playerID uint) (*entity.Player, error) {
	return s.playerRepo.GetByID(playerID)
}

// ListPlayers возвращает всех игроков, включая ожидающих одобрения
func (s *PlayerService) ListPlayers() ([]entity.Player, error) {
	return s.playerRepo.List()
}

// SetOurPlayer выставляет игроку флаг доступа к боту
func (s *PlayerService) SetOurPlayer(playerID uint, isOurPlayer bool) error {
	player, err := s.playerRepo.GetByID(playerID)
	if err != nil {
		return err
	}
	player.IsOurPlayer = isOurPlayer
	if err := s.playerRepo.Update(player); err != nil {
		return fmt.Errorf("failed to update player #%d: %w", playerID, err)
	}
	log.Printf("[PlayerService] Игроку #%d (%s) выставлен доступ: %t", player.ID, player.GameNickname, isOurPlayer)
	return nil
}

// AddClass добавляет игроку класс с уровнем. Один игровой класс у игрока
// может быть только один раз — повтор дает apperrors.ErrConflict.
func (s *PlayerService) AddClass(playerID, gameClassID uint, level int) (*entity.PlayerClass, error) {
	if level < 1 {
		return nil, fmt.Errorf("%w: level must be >= 1, got %d", ErrInvalidLevel, level)
	}

	if _, err := s.playerRepo.GetByID(playerID); err != nil {
		return nil, err
	}
	if _, err := s.gameClassRepo.GetByID(gameClassID); err != nil {
		return nil, err
	}

	playerClass := &entity.PlayerClass{
		PlayerID:    playerID,
		GameClassID: gameClassID,
		Level:       level,
	}
	if err := s.playerClassRepo.Create(playerClass); err != nil {
		return nil, err
	}

	// Перечитываем с GameClass для отображения
	return s.playerClassRepo.GetByID(playerClass.ID)
}

// SetClassLevel меняет уровень класса игрока. На уже созданные сессии
// участия это не влияет: уровень снапшотится при входе.
func (s *PlayerService) SetClassLevel(playerID, playerClassID uint, level int) error {
	if level < 1 {
		return fmt.Errorf("%w: level must be >= 1, got %d", ErrInvalidLevel, level)
	}

	playerClass, err := s.playerClassRepo.GetByID(playerClassID)
	if err != nil {
		return err
	}
	if !playerClass.BelongsTo(playerID) {
		return fmt.Errorf("%w: class #%d, player #%d", ErrClassNotOwned, playerClassID, playerID)
	}

	return s.playerClassRepo.UpdateLevel(playerClassID, level)
}

// SelectClass выставляет игроку выбранный по умолчанию класс
func (s *PlayerService) SelectClass(playerID, playerClassID uint) error {
	playerClass, err := s.playerClassRepo.GetByID(playerClassID)
	if err != nil {
		return err
	}
	if !playerClass.BelongsTo(playerID) {
		return fmt.Errorf("%w: class #%d, player #%d", ErrClassNotOwned, playerClassID, playerID)
	}
	return s.playerRepo.SetSelectedClass(playerID, &playerClassID)
}

// ListClasses возвращает классы игрока вместе с игровыми классами
func (s *PlayerService) ListClasses(playerID uint) ([]entity.PlayerClass, error) {
	return s.playerClassRepo.GetByPlayer(playerID)
}

// RemoveClass удаляет класс игрока
func (s *PlayerService) RemoveClass(playerID, playerClassID uint) error {
	playerClass, err := s.playerClassRepo.GetByID(playerClassID)
	if err != nil {
		return err
	}
	if !playerClass.BelongsTo(playerID) {
		return fmt.Errorf("%w: class #%d, player #%d", ErrClassNotOwned, playerClassID, playerID)
	}
	return s.playerClassRepo.Delete(playerClassID)
}
