package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/neonfoxik/GameBot/internal/domain/repository"
	"github.com/neonfoxik/GameBot/internal/handler/dto"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
	"github.com/neonfoxik/GameBot/internal/service"
)

// ActivityHandler обрабатывает запросы, связанные с активностями
type ActivityHandler struct {
	activityService      *service.ActivityService
	participationService *service.ParticipationService
}

// NewActivityHandler создает новый обработчик активностей
func NewActivityHandler(
	activityService *service.ActivityService,
	participationService *service.ParticipationService,
) *ActivityHandler {
	return &ActivityHandler{
		activityService:      activityService,
		participationService: participationService,
	}
}

// CreateActivityRequest представляет запрос на создание активности
type CreateActivityRequest struct {
	Name            string  `json:"name" binding:"required,min=1,max=100"`
	Description     string  `json:"description" binding:"omitempty,max=500"`
	BaseCoefficient float64 `json:"base_coefficient" binding:"required,gt=0"`
	IgnoreOdds      bool    `json:"ignore_odds"`
	CreatedByID     uint    `json:"created_by_id" binding:"required"`
}

// CreateActivity обрабатывает запрос на создание активности.
// Вместе с активностью создается снапшот коэффициентов классов.
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.activityService.Create(req.Name, req.Description, req.BaseCoefficient, req.IgnoreOdds, req.CreatedByID)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewActivityResponse(activity))
}

// GetActivity возвращает информацию об активности
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	activityID := c.MustGet("activityID").(uint) // Получаем из контекста

	activity, err := h.activityService.GetByID(activityID)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewActivityResponse(activity))
}

// ListActivities возвращает список активностей с пагинацией
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	activities, err := h.activityService.List(page, pageSize)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewActivityListResponse(activities))
}

// GetActiveActivities возвращает список активных активностей
func (h *ActivityHandler) GetActiveActivities(c *gin.Context) {
	activities, err := h.activityService.GetActive()
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewActivityListResponse(activities))
}

// ActivateActivity переводит активность в активное состояние и рассылает
// игрокам приглашения
func (h *ActivityHandler) ActivateActivity(c *gin.Context) {
	activityID := c.MustGet("activityID").(uint)

	activity, err := h.activityService.Activate(activityID)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewActivityResponse(activity))
}

// DeactivateActivity завершает активность: открытые сессии принудительно
// закрываются, итоги архивируются, журнал участия очищается
func (h *ActivityHandler) DeactivateActivity(c *gin.Context) {
	activityID := c.MustGet("activityID").(uint)

	history, err := h.activityService.Deactivate(activityID)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHistoryResponse(history, true))
}

// SyncCoefficients пересобирает снапшот коэффициентов активности из
// актуальных глобальных правил
func (h *ActivityHandler) SyncCoefficients(c *gin.Context) {
	activityID := c.MustGet("activityID").(uint)

	if err := h.activityService.SyncCoefficients(activityID); err != nil {
		h.handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coefficients synced successfully"})
}

// GetActivityParticipants возвращает все сессии участия активности
func (h *ActivityHandler) GetActivityParticipants(c *gin.Context) {
	activityID := c.MustGet("activityID").(uint)

	participations, err := h.participationService.GetByActivity(activityID)
	if err != nil {
		h.handleActivityError(c, err)
		return
	}

	response := make([]dto.ParticipationResponse, len(participations))
	for i := range participations {
		response[i] = *dto.NewParticipationResponse(&participations[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": response,
		"total":        len(response),
	})
}

// AddBonusPointsRequest представляет запрос на начисление дополнительных поинтов
type AddBonusPointsRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// AddBonusPoints начисляет сессии участия дополнительные поинты
func (h *ActivityHandler) AddBonusPoints(c *gin.Context) {
	participationID := c.MustGet("participationID").(uint)

	var req AddBonusPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.participationService.AddBonusPoints(participationID, req.Amount); err != nil {
		h.handleActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bonus points added successfully"})
}

// handleActivityError обрабатывает ошибки сервисов активностей и отправляет
// соответствующий HTTP ответ
func (h *ActivityHandler) handleActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrActivityAlreadyActive),
		errors.Is(err, repository.ErrActivityNotActive),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Printf("[ActivityHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
