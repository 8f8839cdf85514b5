package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neonfoxik/GameBot/internal/domain/repository"
	"github.com/neonfoxik/GameBot/internal/handler/dto"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
	"github.com/neonfoxik/GameBot/internal/service"
)

// GameClassHandler обрабатывает запросы, связанные с игровыми классами
// и правилами коэффициентов
type GameClassHandler struct {
	gameClassService *service.GameClassService
}

// NewGameClassHandler создает новый обработчик игровых классов
func NewGameClassHandler(gameClassService *service.GameClassService) *GameClassHandler {
	return &GameClassHandler{gameClassService: gameClassService}
}

// CreateGameClassRequest представляет запрос на создание игрового класса
type CreateGameClassRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// CreateGameClass обрабатывает запрос на создание игрового класса
func (h *GameClassHandler) CreateGameClass(c *gin.Context) {
	var req CreateGameClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gameClass, err := h.gameClassService.Create(req.Name)
	if err != nil {
		h.handleGameClassError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewGameClassResponse(gameClass))
}

// ListGameClasses возвращает все игровые классы вместе с правилами
func (h *GameClassHandler) ListGameClasses(c *gin.Context) {
	classes, err := h.gameClassService.ListWithRules()
	if err != nil {
		h.handleGameClassError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameClassListResponse(classes))
}

// GetGameClass возвращает игровой класс с правилами коэффициентов
func (h *GameClassHandler) GetGameClass(c *gin.Context) {
	gameClassID := c.MustGet("gameClassID").(uint) // Получаем из контекста

	gameClass, err := h.gameClassService.GetByID(gameClassID)
	if err != nil {
		h.handleGameClassError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewGameClassResponse(gameClass))
}

// AddRuleRequest представляет запрос на добавление правила коэффициента
type AddRuleRequest struct {
	MinLevel    int     `json:"min_level" binding:"required,min=1"`
	MaxLevel    int     `json:"max_level" binding:"required,min=1"`
	Coefficient float64 `json:"coefficient" binding:"required,gt=0"`
}

// AddRule добавляет правило коэффициента к игровому классу.
// Диапазон не должен пересекаться с существующими правилами класса.
func (h *GameClassHandler) AddRule(c *gin.Context) {
	gameClassID := c.MustGet("gameClassID").(uint)

	var req AddRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.gameClassService.AddRule(gameClassID, req.MinLevel, req.MaxLevel, req.Coefficient)
	if err != nil {
		h.handleGameClassError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CoefficientRuleResponse{
		ID:          rule.ID,
		MinLevel:    rule.MinLevel,
		MaxLevel:    rule.MaxLevel,
		Coefficient: rule.Coefficient,
	})
}

// RemoveRule удаляет правило коэффициента.
// На снапшоты уже созданных активностей удаление не влияет.
func (h *GameClassHandler) RemoveRule(c *gin.Context) {
	ruleID := c.MustGet("ruleID").(uint)

	if err := h.gameClassService.RemoveRule(ruleID); err != nil {
		h.handleGameClassError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rule removed successfully"})
}

// handleGameClassError обрабатывает ошибки сервиса игровых классов
func (h *GameClassHandler) handleGameClassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrOverlappingLevelRange), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("[GameClassHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
