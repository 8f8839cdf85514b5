package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/handler/dto"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
	"github.com/neonfoxik/GameBot/internal/service"
)

// HistoryHandler обрабатывает запросы к архиву прогонов активностей
type HistoryHandler struct {
	historyService *service.HistoryService
}

// NewHistoryHandler создает новый обработчик истории
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// ListHistories возвращает пагинированный архив прогонов
func (h *HistoryHandler) ListHistories(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	histories, total, err := h.historyService.ListHistories(page, pageSize)
	if err != nil {
		h.handleHistoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedHistoryResponse(histories, total, page, pageSize))
}

// GetHistory возвращает архивную запись вместе с агрегатами участников
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	historyID := c.MustGet("historyID").(uint) // Получаем из контекста

	history, err := h.historyService.GetHistoryWithParticipants(historyID)
	if err != nil {
		h.handleHistoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHistoryResponse(history, true))
}

// ExportHistory выгружает архивную запись в Google Sheets
func (h *HistoryHandler) ExportHistory(c *gin.Context) {
	historyID := c.MustGet("historyID").(uint)

	result, err := h.historyService.ExportHistory(historyID)
	if err != nil {
		h.handleHistoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "History exported successfully",
		"url":         result.URL,
		"sheet_title": result.SheetTitle,
	})
}

// DownloadHistory отдает архивную запись файлом в CSV или Excel
// GET /api/histories/:id/download?format=csv|xlsx
func (h *HistoryHandler) DownloadHistory(c *gin.Context) {
	historyID := c.MustGet("historyID").(uint)
	format := c.DefaultQuery("format", "csv")

	history, err := h.historyService.GetHistoryWithParticipants(historyID)
	if err != nil {
		h.handleHistoryError(c, err)
		return
	}

	filename := fmt.Sprintf("activity_%d_history_%s", history.OriginalActivityID, history.ActivityEndedAt.Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.downloadXLSX(c, history, filename)
	default:
		h.downloadCSV(c, history, filename)
	}
}

// downloadCSV пишет архив в CSV с правильным экранированием спецсимволов
func (h *HistoryHandler) downloadCSV(c *gin.Context, history *entity.ActivityHistory, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Ник", "Класс", "Уровень", "Поинты", "Доп. поинты", "Итого", "Длительность (сек)", "Сессий", "Вход", "Выход"})

	for _, hp := range history.Participants {
		writer.Write([]string{
			sanitizeForExcel(hp.PlayerNickname),
			sanitizeForExcel(hp.ClassName),
			strconv.Itoa(hp.ClassLevel),
			strconv.FormatFloat(hp.PointsEarned, 'f', 2, 64),
			strconv.FormatFloat(hp.AdditionalPoints, 'f', 2, 64),
			strconv.FormatFloat(hp.TotalPoints(), 'f', 2, 64),
			strconv.FormatFloat(hp.DurationSeconds, 'f', 0, 64),
			strconv.Itoa(hp.SessionCount),
			hp.JoinedAt.Format(time.DateTime),
			hp.CompletedAt.Format(time.DateTime),
		})
	}
}

// downloadXLSX пишет архив в Excel с использованием StreamWriter
func (h *HistoryHandler) downloadXLSX(c *gin.Context, history *entity.ActivityHistory, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "История"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[HistoryHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Ник", "Класс", "Уровень", "Поинты", "Доп. поинты", "Итого", "Длительность (сек)", "Сессий", "Вход", "Выход"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[HistoryHandler] Ошибка записи заголовков: %v", err)
	}

	for i, hp := range history.Participants {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			sanitizeForExcel(hp.PlayerNickname),
			sanitizeForExcel(hp.ClassName),
			hp.ClassLevel,
			hp.PointsEarned,
			hp.AdditionalPoints,
			hp.TotalPoints(),
			hp.DurationSeconds,
			hp.SessionCount,
			hp.JoinedAt.Format(time.DateTime),
			hp.CompletedAt.Format(time.DateTime),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[HistoryHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[HistoryHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[HistoryHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleHistoryError обрабатывает ошибки сервиса истории
func (h *HistoryHandler) handleHistoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExportNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Printf("[HistoryHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
