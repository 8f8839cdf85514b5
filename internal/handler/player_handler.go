package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neonfoxik/GameBot/internal/handler/dto"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
	"github.com/neonfoxik/GameBot/internal/service"
)

// PlayerHandler обрабатывает административные запросы по игрокам
type PlayerHandler struct {
	playerService *service.PlayerService
}

// NewPlayerHandler создает новый обработчик игроков
func NewPlayerHandler(playerService *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// ListPlayers возвращает всех игроков, включая ожидающих одобрения
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	players, err := h.playerService.ListPlayers()
	if err != nil {
		h.handlePlayerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"players": dto.NewPlayerListResponse(players),
		"total":   len(players),
	})
}

// GetPlayer возвращает игрока по ID
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	playerID := c.MustGet("playerID").(uint) // Получаем из контекста

	player, err := h.playerService.GetByID(playerID)
	if err != nil {
		h.handlePlayerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPlayerResponse(player))
}

// SetAccessRequest представляет запрос на выдачу или отзыв доступа к боту
type SetAccessRequest struct {
	IsOurPlayer *bool `json:"is_our_player" binding:"required"`
}

// SetAccess выставляет игроку флаг доступа к боту
func (h *PlayerHandler) SetAccess(c *gin.Context) {
	playerID := c.MustGet("playerID").(uint)

	var req SetAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.playerService.SetOurPlayer(playerID, *req.IsOurPlayer); err != nil {
		h.handlePlayerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Player access updated successfully"})
}

// AddPlayerClassRequest представляет запрос на добавление класса игроку
type AddPlayerClassRequest struct {
	GameClassID uint `json:"game_class_id" binding:"required"`
	Level       int  `json:"level" binding:"required,min=1"`
}

// AddPlayerClass добавляет игроку класс с уровнем
func (h *PlayerHandler) AddPlayerClass(c *gin.Context) {
	playerID := c.MustGet("playerID").(uint)

	var req AddPlayerClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	playerClass, err := h.playerService.AddClass(playerID, req.GameClassID, req.Level)
	if err != nil {
		h.handlePlayerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewPlayerClassResponse(playerClass))
}

// SetClassLevelRequest представляет запрос на смену уровня класса игрока
type SetClassLevelRequest struct {
	Level int `json:"level" binding:"required,min=1"`
}

// SetClassLevel меняет уровень класса игрока.
// Открытые сессии участия это не затрагивает.
func (h *PlayerHandler) SetClassLevel(c *gin.Context) {
	playerID := c.MustGet("playerID").(uint)
	playerClassID := c.MustGet("playerClassID").(uint)

	var req SetClassLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.playerService.SetClassLevel(playerID, playerClassID, req.Level); err != nil {
		h.handlePlayerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class level updated successfully"})
}

// RemovePlayerClass удаляет класс игрока
func (h *PlayerHandler) RemovePlayerClass(c *gin.Context) {
	playerID := c.MustGet("playerID").(uint)
	playerClassID := c.MustGet("playerClassID").(uint)

	if err := h.playerService.RemoveClass(playerID, playerClassID); err != nil {
		h.handlePlayerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class removed successfully"})
}

// handlePlayerError обрабатывает ошибки сервиса игроков
func (h *PlayerHandler) handlePlayerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrClassNotOwned):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, service.ErrInvalidLevel):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("[PlayerHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
