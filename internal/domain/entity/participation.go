package entity

import (
	"time"
)

// Participation представляет одну сессию участия игрока в активности
// (от входа до выхода). Повторное участие в той же активности разрешено,
// поэтому уникальности по (activity, player) нет.
//
// Ник игрока, имя в Telegram, название класса и уровень снапшотятся в момент
// входа: прокачка или правка PlayerClass задним числом не меняет ни ставку
// начисления, ни историческую отчетность.
type Participation struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ActivityID       uint       `gorm:"not null;index" json:"activity_id"`
	PlayerID         uint       `gorm:"not null;index" json:"player_id"`
	PlayerClassID    uint       `gorm:"not null" json:"player_class_id"`
	GameClassID      uint       `gorm:"not null" json:"game_class_id"`
	PlayerNickname   string     `gorm:"size:50;not null" json:"player_nickname"`
	PlayerTgName     string     `gorm:"size:50;not null;default:''" json:"player_tg_name"`
	ClassName        string     `gorm:"size:50;not null" json:"class_name"`
	ClassLevel       int        `gorm:"not null" json:"class_level"`
	JoinedAt         time.Time  `gorm:"not null" json:"joined_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	PointsEarned     float64    `gorm:"not null;default:0" json:"points_earned"`
	AdditionalPoints float64    `gorm:"not null;default:0" json:"additional_points"`
}

// TableName определяет имя таблицы для GORM
func (Participation) TableName() string {
	return "activity_participants"
}

// IsCompleted проверяет, завершена ли сессия участия
func (p *Participation) IsCompleted() bool {
	return p.CompletedAt != nil
}

// TotalPoints возвращает суммарные поинты (заработанные + дополнительные)
func (p *Participation) TotalPoints() float64 {
	return p.PointsEarned + p.AdditionalPoints
}

// DurationSeconds возвращает длительность сессии в секундах.
// Для незавершенной сессии длительность считается до asOf.
func (p *Participation) DurationSeconds(asOf time.Time) float64 {
	end := asOf
	if p.CompletedAt != nil {
		end = *p.CompletedAt
	}
	return end.Sub(p.JoinedAt).Seconds()
}
