package entity

import (
	"time"
)

// Player представляет игрока гильдии
type Player struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	GameNickname    string        `gorm:"size:50;not null;uniqueIndex" json:"game_nickname"`
	TelegramID      string        `gorm:"size:50;not null;index" json:"telegram_id"`
	TgName          string        `gorm:"size:50;not null;default:''" json:"tg_name"`
	SelectedClassID *uint         `gorm:"index" json:"selected_class_id,omitempty"`
	SelectedClass   *PlayerClass  `gorm:"foreignKey:SelectedClassID" json:"selected_class,omitempty"`
	IsOurPlayer     bool          `gorm:"not null;default:false" json:"is_our_player"`
	IsAdmin         bool          `gorm:"not null;default:false" json:"is_admin"`
	Classes         []PlayerClass `gorm:"foreignKey:PlayerID" json:"classes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Player) TableName() string {
	return "players"
}

// PlayerClass связывает игрока с игровым классом и хранит его уровень.
// У игрока может быть не более одного PlayerClass на каждый GameClass.
type PlayerClass struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PlayerID    uint       `gorm:"not null;index;uniqueIndex:idx_player_game_class" json:"player_id"`
	GameClassID uint       `gorm:"not null;uniqueIndex:idx_player_game_class" json:"game_class_id"`
	GameClass   *GameClass `gorm:"foreignKey:GameClassID" json:"game_class,omitempty"`
	Level       int        `gorm:"not null;default:1" json:"level"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (PlayerClass) TableName() string {
	return "player_classes"
}

// BelongsTo проверяет принадлежность класса игроку
func (pc *PlayerClass) BelongsTo(playerID uint) bool {
	return pc.PlayerID == playerID
}
