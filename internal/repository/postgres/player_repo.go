package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// PlayerRepo реализует repository.PlayerRepository
type PlayerRepo struct {
	db *gorm.DB
}

// NewPlayerRepo создает новый репозиторий игроков
func NewPlayerRepo(db *gorm.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// Create создает нового игрока
func (r *PlayerRepo) Create(player *entity.Player) error {
	err := r.db.Create(player).Error
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: nickname %q is taken", apperrors.ErrConflict, player.GameNickname)
	}
	return err
}

// GetByID возвращает игрока по ID
func (r *PlayerRepo) GetByID(id uint) (*entity.Player, error) {
	var player entity.Player
	err := r.db.First(&player, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &player, nil
}

// GetByTelegramID возвращает игрока по Telegram ID
func (r *PlayerRepo) GetByTelegramID(telegramID string) (*entity.Player, error) {
	var player entity.Player
	err := r.db.Where("telegram_id = ?", telegramID).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &player, nil
}

// GetByNickname возвращает игрока по игровому нику
func (r *PlayerRepo) GetByNickname(nickname string) (*entity.Player, error) {
	var player entity.Player
	err := r.db.Where("game_nickname = ?", nickname).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &player, nil
}

// ListOurPlayers возвращает игроков с доступом к боту
func (r *PlayerRepo) ListOurPlayers() ([]entity.Player, error) {
	var players []entity.Player
	err := r.db.Where("is_our_player = ?", true).Order("game_nickname").Find(&players).Error
	return players, err
}

// List возвращает всех игроков вместе с классами
func (r *PlayerRepo) List() ([]entity.Player, error) {
	var players []entity.Player
	err := r.db.Preload("Classes").Preload("Classes.GameClass").
		Order("game_nickname").
		Find(&players).Error
	return players, err
}

// Update обновляет информацию об игроке
func (r *PlayerRepo) Update(player *entity.Player) error {
	return r.db.Save(player).Error
}

// SetSelectedClass точечно обновляет выбранный класс игрока
func (r *PlayerRepo) SetSelectedClass(playerID uint, playerClassID *uint) error {
	return r.db.Model(&entity.Player{}).
		Where("id = ?", playerID).
		Update("selected_class_id", playerClassID).
		Error
}

// Delete удаляет игрока
func (r *PlayerRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Player{}, id).Error
}

// PlayerClassRepo реализует repository.PlayerClassRepository
type PlayerClassRepo struct {
	db *gorm.DB
}

// NewPlayerClassRepo создает новый репозиторий классов игроков
func NewPlayerClassRepo(db *gorm.DB) *PlayerClassRepo {
	return &PlayerClassRepo{db: db}
}

// Create создает класс игрока. Уникальность (player_id, game_class_id)
// гарантирует не более одного класса игрока на игровой класс.
func (r *PlayerClassRepo) Create(playerClass *entity.PlayerClass) error {
	err := r.db.Create(playerClass).Error
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: player #%d already has class #%d", apperrors.ErrConflict, playerClass.PlayerID, playerClass.GameClassID)
	}
	return err
}

// GetByID возвращает класс игрока по ID вместе с игровым классом
func (r *PlayerClassRepo) GetByID(id uint) (*entity.PlayerClass, error) {
	var playerClass entity.PlayerClass
	err := r.db.Preload("GameClass").First(&playerClass, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &playerClass, nil
}

// GetByPlayer возвращает все классы игрока вместе с GameClass
func (r *PlayerClassRepo) GetByPlayer(playerID uint) ([]entity.PlayerClass, error) {
	var classes []entity.PlayerClass
	err := r.db.Preload("GameClass").
		Where("player_id = ?", playerID).
		Order("id").
		Find(&classes).Error
	return classes, err
}

// GetByPlayerAndClass возвращает класс игрока для конкретного игрового класса
func (r *PlayerClassRepo) GetByPlayerAndClass(playerID, gameClassID uint) (*entity.PlayerClass, error) {
	var playerClass entity.PlayerClass
	err := r.db.Preload("GameClass").
		Where("player_id = ? AND game_class_id = ?", playerID, gameClassID).
		First(&playerClass).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &playerClass, nil
}

// UpdateLevel точечно обновляет уровень класса игрока
func (r *PlayerClassRepo) UpdateLevel(playerClassID uint, level int) error {
	return r.db.Model(&entity.PlayerClass{}).
		Where("id = ?", playerClassID).
		Update("level", level).
		Error
}

// Delete удаляет класс игрока
func (r *PlayerClassRepo) Delete(id uint) error {
	return r.db.Delete(&entity.PlayerClass{}, id).Error
}
