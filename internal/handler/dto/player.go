package dto

import (
	"time"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
)

// PlayerResponse представляет игрока в API-ответах
type PlayerResponse struct {
	ID           uint                  `json:"id"`
	GameNickname string                `json:"game_nickname"`
	TelegramID   string                `json:"telegram_id"`
	TgName       string                `json:"tg_name,omitempty"`
	IsOurPlayer  bool                  `json:"is_our_player"`
	IsAdmin      bool                  `json:"is_admin"`
	Classes      []PlayerClassResponse `json:"classes,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// PlayerClassResponse представляет класс игрока в API-ответах
type PlayerClassResponse struct {
	ID          uint   `json:"id"`
	GameClassID uint   `json:"game_class_id"`
	ClassName   string `json:"class_name"`
	Level       int    `json:"level"`
}

// NewPlayerResponse создает DTO из сущности игрока
func NewPlayerResponse(player *entity.Player) *PlayerResponse {
	response := &PlayerResponse{
		ID:           player.ID,
		GameNickname: player.GameNickname,
		TelegramID:   player.TelegramID,
		TgName:       player.TgName,
		IsOurPlayer:  player.IsOurPlayer,
		IsAdmin:      player.IsAdmin,
		CreatedAt:    player.CreatedAt,
	}
	for _, pc := range player.Classes {
		response.Classes = append(response.Classes, *NewPlayerClassResponse(&pc))
	}
	return response
}

// NewPlayerClassResponse создает DTO из сущности класса игрока
func NewPlayerClassResponse(pc *entity.PlayerClass) *PlayerClassResponse {
	className := ""
	if pc.GameClass != nil {
		className = pc.GameClass.Name
	}
	return &PlayerClassResponse{
		ID:          pc.ID,
		GameClassID: pc.GameClassID,
		ClassName:   className,
		Level:       pc.Level,
	}
}

// NewPlayerListResponse создает список DTO игроков
func NewPlayerListResponse(players []entity.Player) []PlayerResponse {
	response := make([]PlayerResponse, len(players))
	for i := range players {
		response[i] = *NewPlayerResponse(&players[i])
	}
	return response
}

// GameClassResponse представляет игровой класс в API-ответах
type GameClassResponse struct {
	ID    uint                   `json:"id"`
	Name  string                 `json:"name"`
	Rules []CoefficientRuleResponse `json:"rules,omitempty"`
}

// CoefficientRuleResponse представляет правило коэффициента в API-ответах
type CoefficientRuleResponse struct {
	ID          uint    `json:"id"`
	MinLevel    int     `json:"min_level"`
	MaxLevel    int     `json:"max_level"`
	Coefficient float64 `json:"coefficient"`
}

// NewGameClassResponse создает DTO из сущности игрового класса
func NewGameClassResponse(gc *entity.GameClass) *GameClassResponse {
	response := &GameClassResponse{
		ID:   gc.ID,
		Name: gc.Name,
	}
	for _, rule := range gc.Rules {
		response.Rules = append(response.Rules, CoefficientRuleResponse{
			ID:          rule.ID,
			MinLevel:    rule.MinLevel,
			MaxLevel:    rule.MaxLevel,
			Coefficient: rule.Coefficient,
		})
	}
	return response
}

// NewGameClassListResponse создает список DTO игровых классов
func NewGameClassListResponse(classes []entity.GameClass) []GameClassResponse {
	response := make([]GameClassResponse, len(classes))
	for i := range classes {
		response[i] = *NewGameClassResponse(&classes[i])
	}
	return response
}
