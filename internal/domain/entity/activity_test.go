package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActivity_CalculatePoints(t *testing.T) {
	activity := &Activity{BaseCoefficient: 2.0}

	// 2.0 × 1.5 × 100с = 300.00
	assert.Equal(t, 300.0, activity.CalculatePoints(1.5, 100))

	// Округление до двух знаков
	assert.Equal(t, 0.33, activity.CalculatePoints(1.0, 0.1666))
}

func TestActivity_CalculatePoints_IgnoreOdds(t *testing.T) {
	activity := &Activity{BaseCoefficient: 2.0, IgnoreOdds: true}

	// Коэффициент класса игнорируется: 2.0 × 100с = 200.00
	assert.Equal(t, 200.0, activity.CalculatePoints(1.5, 100))
}

func TestActivity_StartedAt(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	activatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	never := &Activity{CreatedAt: createdAt}
	assert.Equal(t, createdAt, never.StartedAt(), "Без активации окно считается от создания")

	activated := &Activity{CreatedAt: createdAt, ActivatedAt: &activatedAt}
	assert.Equal(t, activatedAt, activated.StartedAt())
}

func TestParticipation_DurationSeconds(t *testing.T) {
	joined := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	completed := joined.Add(90 * time.Second)
	asOf := joined.Add(300 * time.Second)

	open := &Participation{JoinedAt: joined}
	assert.Equal(t, 300.0, open.DurationSeconds(asOf), "Открытая сессия считается до asOf")

	closed := &Participation{JoinedAt: joined, CompletedAt: &completed}
	assert.Equal(t, 90.0, closed.DurationSeconds(asOf), "Закрытая сессия считается до completed_at")
}

func TestLevelCoefficientRule_Overlaps(t *testing.T) {
	rule := &LevelCoefficientRule{MinLevel: 5, MaxLevel: 10}

	assert.True(t, rule.Overlaps(1, 5))
	assert.True(t, rule.Overlaps(10, 20))
	assert.True(t, rule.Overlaps(6, 8))
	assert.False(t, rule.Overlaps(1, 4))
	assert.False(t, rule.Overlaps(11, 20))
}
