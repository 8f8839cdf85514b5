package dto

import (
	"time"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// ActivityResponse представляет активность в API-ответах
type ActivityResponse struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	BaseCoefficient float64    `json:"base_coefficient"`
	IgnoreOdds      bool       `json:"ignore_odds"`
	IsActive        bool       `json:"is_active"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	CreatedByID     uint       `json:"created_by_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewActivityResponse создает DTO из сущности активности
func NewActivityResponse(activity *entity.Activity) *ActivityResponse {
	return &ActivityResponse{
		ID:              activity.ID,
		Name:            activity.Name,
		Description:     activity.Description,
		BaseCoefficient: activity.BaseCoefficient,
		IgnoreOdds:      activity.IgnoreOdds,
		IsActive:        activity.IsActive,
		ActivatedAt:     activity.ActivatedAt,
		CreatedByID:     activity.CreatedByID,
		CreatedAt:       activity.CreatedAt,
	}
}

// NewActivityListResponse создает список DTO активностей
func NewActivityListResponse(activities []entity.Activity) []ActivityResponse {
	response := make([]ActivityResponse, len(activities))
	for i := range activities {
		response[i] = *NewActivityResponse(&activities[i])
	}
	return response
}

// ParticipationResponse представляет сессию участия в API-ответах
type ParticipationResponse struct {
	ID               uint       `json:"id"`
	ActivityID       uint       `json:"activity_id"`
	PlayerID         uint       `json:"player_id"`
	PlayerNickname   string     `json:"player_nickname"`
	ClassName        string     `json:"class_name"`
	ClassLevel       int        `json:"class_level"`
	JoinedAt         time.Time  `json:"joined_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	PointsEarned     float64    `json:"points_earned"`
	AdditionalPoints float64    `json:"additional_points"`
}

// NewParticipationResponse создает DTO из сущности участия
func NewParticipationResponse(p *entity.Participation) *ParticipationResponse {
	return &ParticipationResponse{
		ID:               p.ID,
		ActivityID:       p.ActivityID,
		PlayerID:         p.PlayerID,
		PlayerNickname:   p.PlayerNickname,
		ClassName:        p.ClassName,
		ClassLevel:       p.ClassLevel,
		JoinedAt:         p.JoinedAt,
		CompletedAt:      p.CompletedAt,
		PointsEarned:     p.PointsEarned,
		AdditionalPoints: p.AdditionalPoints,
	}
}
