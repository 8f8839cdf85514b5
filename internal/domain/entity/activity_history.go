package entity

import (
	"time"
)

// ActivityHistory — неизменяемая архивная запись одного прогона активности.
// Создается на каждом переходе active → inactive; повторная активация и
// деактивация той же активности порождает отдельную запись истории.
type ActivityHistory struct {
	ID                 uint                 `gorm:"primaryKey" json:"id"`
	OriginalActivityID uint                 `gorm:"not null;index" json:"original_activity_id"`
	Name               string               `gorm:"size:100;not null" json:"name"`
	Description        string               `gorm:"size:500;not null;default:''" json:"description"`
	BaseCoefficient    float64              `gorm:"not null;default:1.0" json:"base_coefficient"`
	IgnoreOdds         bool                 `gorm:"not null;default:false" json:"ignore_odds"`
	CreatedByID        uint                 `gorm:"not null" json:"created_by_id"`
	ActivityStartedAt  time.Time            `gorm:"not null" json:"activity_started_at"`
	ActivityEndedAt    time.Time            `gorm:"not null;index" json:"activity_ended_at"`
	IsExported         bool                 `gorm:"not null;default:false" json:"is_exported"`
	Participants       []HistoryParticipant `gorm:"foreignKey:ActivityHistoryID" json:"participants,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (ActivityHistory) TableName() string {
	return "activity_histories"
}

// HistoryParticipant — агрегат по всем сессиям игрока в рамках одного прогона
// активности. Одна строка на уникальную тройку (ник, класс, уровень):
// игрок мог входить и выходить несколько раз, отчетность показывает итог.
type HistoryParticipant struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ActivityHistoryID uint      `gorm:"not null;index" json:"activity_history_id"`
	PlayerNickname    string    `gorm:"size:50;not null" json:"player_nickname"`
	ClassName         string    `gorm:"size:50;not null" json:"class_name"`
	ClassLevel        int       `gorm:"not null" json:"class_level"`
	PointsEarned      float64   `gorm:"not null;default:0" json:"points_earned"`
	AdditionalPoints  float64   `gorm:"not null;default:0" json:"additional_points"`
	DurationSeconds   float64   `gorm:"not null;default:0" json:"duration_seconds"`
	SessionCount      int       `gorm:"not null;default:1" json:"session_count"`
	JoinedAt          time.Time `gorm:"not null" json:"joined_at"`
	CompletedAt       time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (HistoryParticipant) TableName() string {
	return "activity_history_participants"
}

// TotalPoints возвращает суммарные поинты (заработанные + дополнительные)
func (hp *HistoryParticipant) TotalPoints() float64 {
	return hp.PointsEarned + hp.AdditionalPoints
}
