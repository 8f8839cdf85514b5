package entity

import (
	"math"
	"time"
)

// Activity представляет активность — ограниченное по времени событие,
// к которому игроки присоединяются за поинты
type Activity struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	Description     string     `gorm:"size:500;not null;default:''" json:"description"`
	IsActive        bool       `gorm:"not null;default:false;index" json:"is_active"`
	IgnoreOdds      bool       `gorm:"not null;default:false" json:"ignore_odds"`
	BaseCoefficient float64    `gorm:"not null;default:1.0" json:"base_coefficient"`
	CreatedByID     uint       `gorm:"not null;index" json:"created_by_id"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Activity) TableName() string {
	return "activities"
}

// StartedAt возвращает начало текущего окна активности.
// Для никогда не активировавшейся активности — время создания.
func (a *Activity) StartedAt() time.Time {
	if a.ActivatedAt != nil {
		return *a.ActivatedAt
	}
	return a.CreatedAt
}

// CalculatePoints вычисляет поинты за участие: базовый коэффициент,
// умноженный на коэффициент класса/уровня (если не ignore_odds) и на
// длительность в секундах, с округлением до 2 знаков.
func (a *Activity) CalculatePoints(classCoefficient float64, durationSeconds float64) float64 {
	total := a.BaseCoefficient
	if !a.IgnoreOdds {
		total *= classCoefficient
	}
	return math.Round(total*durationSeconds*100) / 100
}

// ActivityClassLevelCoefficient — снапшот коэффициента класса/уровня,
// скопированный в активность при её создании. Правки глобальных правил
// не затрагивают уже созданные активности без явной синхронизации.
type ActivityClassLevelCoefficient struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	ActivityID  uint    `gorm:"not null;index;uniqueIndex:idx_activity_class_range" json:"activity_id"`
	GameClassID uint    `gorm:"not null;uniqueIndex:idx_activity_class_range" json:"game_class_id"`
	MinLevel    int     `gorm:"not null;uniqueIndex:idx_activity_class_range" json:"min_level"`
	MaxLevel    int     `gorm:"not null;uniqueIndex:idx_activity_class_range" json:"max_level"`
	Coefficient float64 `gorm:"not null" json:"coefficient"`
}

// TableName определяет имя таблицы для GORM
func (ActivityClassLevelCoefficient) TableName() string {
	return "activity_class_level_coefficients"
}

// Matches проверяет, попадает ли уровень в диапазон
func (c *ActivityClassLevelCoefficient) Matches(level int) bool {
	return c.MinLevel <= level && level <= c.MaxLevel
}
