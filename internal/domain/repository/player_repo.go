package repository

import (
	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// PlayerRepository определяет методы для работы с игроками
type PlayerRepository interface {
	Create(player *entity.Player) error
	GetByID(id uint) (*entity.Player, error)
	GetByTelegramID(telegramID string) (*entity.Player, error)
	GetByNickname(nickname string) (*entity.Player, error)
	// ListOurPlayers возвращает игроков с флагом is_our_player (доступ к боту)
	ListOurPlayers() ([]entity.Player, error)
	// List возвращает всех игроков, включая ожидающих одобрения
	List() ([]entity.Player, error)
	Update(player *entity.Player) error
	SetSelectedClass(playerID uint, playerClassID *uint) error
	Delete(id uint) error
}

// PlayerClassRepository определяет методы для работы с классами игроков
type PlayerClassRepository interface {
	Create(playerClass *entity.PlayerClass) error
	GetByID(id uint) (*entity.PlayerClass, error)
	// GetByPlayer возвращает все классы игрока вместе с GameClass
	GetByPlayer(playerID uint) ([]entity.PlayerClass, error)
	GetByPlayerAndClass(playerID, gameClassID uint) (*entity.PlayerClass, error)
	UpdateLevel(playerClassID uint, level int) error
	Delete(id uint) error
}
