package dto

import (
	"time"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// HistoryResponse представляет архивную запись прогона активности
type HistoryResponse struct {
	ID                 uint                         `json:"id"`
	OriginalActivityID uint                         `json:"original_activity_id"`
	Name               string                       `json:"name"`
	Description        string                       `json:"description,omitempty"`
	BaseCoefficient    float64                      `json:"base_coefficient"`
	IgnoreOdds         bool                         `json:"ignore_odds"`
	ActivityStartedAt  time.Time                    `json:"activity_started_at"`
	ActivityEndedAt    time.Time                    `json:"activity_ended_at"`
	IsExported         bool                         `json:"is_exported"`
	Participants       []HistoryParticipantResponse `json:"participants,omitempty"`
	CreatedAt          time.Time                    `json:"created_at"`
}

// HistoryParticipantResponse представляет агрегат участника в архиве
type HistoryParticipantResponse struct {
	PlayerNickname   string    `json:"player_nickname"`
	ClassName        string    `json:"class_name"`
	ClassLevel       int       `json:"class_level"`
	PointsEarned     float64   `json:"points_earned"`
	AdditionalPoints float64   `json:"additional_points"`
	TotalPoints      float64   `json:"total_points"`
	DurationSeconds  float64   `json:"duration_seconds"`
	SessionCount     int       `json:"session_count"`
	JoinedAt         time.Time `json:"joined_at"`
	CompletedAt      time.Time `json:"completed_at"`
}

// NewHistoryResponse создает DTO из архивной записи.
// includeParticipants управляет включением агрегатов участников.
func NewHistoryResponse(history *entity.ActivityHistory, includeParticipants bool) *HistoryResponse {
	response := &HistoryResponse{
		ID:                 history.ID,
		OriginalActivityID: history.OriginalActivityID,
		Name:               history.Name,
		Description:        history.Description,
		BaseCoefficient:    history.BaseCoefficient,
		IgnoreOdds:         history.IgnoreOdds,
		ActivityStartedAt:  history.ActivityStartedAt,
		ActivityEndedAt:    history.ActivityEndedAt,
		IsExported:         history.IsExported,
		CreatedAt:          history.CreatedAt,
	}
	if includeParticipants {
		for i := range history.Participants {
			response.Participants = append(response.Participants, *NewHistoryParticipantResponse(&history.Participants[i]))
		}
	}
	return response
}

// NewHistoryParticipantResponse создает DTO агрегата участника
func NewHistoryParticipantResponse(hp *entity.HistoryParticipant) *HistoryParticipantResponse {
	return &HistoryParticipantResponse{
		PlayerNickname:   hp.PlayerNickname,
		ClassName:        hp.ClassName,
		ClassLevel:       hp.ClassLevel,
		PointsEarned:     hp.PointsEarned,
		AdditionalPoints: hp.AdditionalPoints,
		TotalPoints:      hp.TotalPoints(),
		DurationSeconds:  hp.DurationSeconds,
		SessionCount:     hp.SessionCount,
		JoinedAt:         hp.JoinedAt,
		CompletedAt:      hp.CompletedAt,
	}
}

// PaginatedHistoryResponse — пагинированный список архивных записей
type PaginatedHistoryResponse struct {
	Histories []HistoryResponse `json:"histories"`
	Total     int64             `json:"total"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
}

// NewPaginatedHistoryResponse создает пагинированный список DTO
func NewPaginatedHistoryResponse(histories []entity.ActivityHistory, total int64, page, pageSize int) *PaginatedHistoryResponse {
	items := make([]HistoryResponse, len(histories))
	for i := range histories {
		items[i] = *NewHistoryResponse(&histories[i], false)
	}
	return &PaginatedHistoryResponse{
		Histories: items,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}
}
