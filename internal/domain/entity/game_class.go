package entity

import (
	"time"
)

// GameClass представляет игровой класс (например, "Лучник", "Маг")
type GameClass struct {
	ID        uint                   `gorm:"primaryKey" json:"id"`
	Name      string                 `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Rules     []LevelCoefficientRule `gorm:"foreignKey:GameClassID" json:"rules,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (GameClass) TableName() string {
	return "game_classes"
}

// LevelCoefficientRule описывает коэффициент класса для диапазона уровней.
// Диапазоны по соглашению не пересекаются; уникальность гарантируется только
// для точной пары (min_level, max_level), поиск идет по первому совпадению.
type LevelCoefficientRule struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	GameClassID uint    `gorm:"not null;index;uniqueIndex:idx_class_level_range" json:"game_class_id"`
	MinLevel    int     `gorm:"not null;uniqueIndex:idx_class_level_range" json:"min_level"`
	MaxLevel    int     `gorm:"not null;uniqueIndex:idx_class_level_range" json:"max_level"`
	Coefficient float64 `gorm:"not null" json:"coefficient"`
}

// TableName определяет имя таблицы для GORM
func (LevelCoefficientRule) TableName() string {
	return "level_coefficient_rules"
}

// Matches проверяет, попадает ли уровень в диапазон правила
func (r *LevelCoefficientRule) Matches(level int) bool {
	return r.MinLevel <= level && level <= r.MaxLevel
}

// Overlaps проверяет пересечение с другим диапазоном уровней
func (r *LevelCoefficientRule) Overlaps(minLevel, maxLevel int) bool {
	return r.MinLevel <= maxLevel && minLevel <= r.MaxLevel
}
