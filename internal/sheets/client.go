package sheets

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/neonfoxik/GameBot/internal/service"
)

// Формат меток времени в выгрузке
const timeLayout = "02.01.2006 15:04:05"

// exportHeader — шапка листа выгрузки
var exportHeader = []interface{}{
	"Активность", "Начало", "Конец", "Ник", "Класс", "Уровень",
	"Поинты", "Доп. поинты", "Итого", "Длительность (сек)", "Сессий",
}

// Client выгружает историю активностей в Google Sheets.
// Реализует service.ExportGateway.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewClient создает клиента Google Sheets с авторизацией по JSON-ключу
// сервисного аккаунта
func NewClient(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*Client, error) {
	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Export дописывает строки истории в лист. Если лист пустой, сначала
// записывается шапка.
func (c *Client) Export(rows []service.ExportRow) (*service.ExportResult, error) {
	if err := c.ensureHeader(); err != nil {
		return nil, err
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, []interface{}{
			row.ActivityName,
			row.StartedAt.Format(timeLayout),
			row.EndedAt.Format(timeLayout),
			row.PlayerNickname,
			row.ClassName,
			row.ClassLevel,
			row.PointsEarned,
			row.AdditionalPoints,
			row.TotalPoints,
			row.DurationSeconds,
			row.Sessions,
		})
	}

	if len(values) > 0 {
		_, err := c.service.Spreadsheets.Values.
			Append(c.spreadsheetID, c.sheetName, &sheets.ValueRange{Values: values}).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to append %d rows to sheet %q: %w", len(values), c.sheetName, err)
		}
	}

	log.Printf("[SheetsClient] Выгружено %d строк в лист %q", len(values), c.sheetName)
	return &service.ExportResult{
		URL:        c.SpreadsheetURL(),
		SheetTitle: c.sheetName,
	}, nil
}

// ensureHeader записывает шапку, если первая строка листа пуста
func (c *Client) ensureHeader() error {
	resp, err := c.service.Spreadsheets.Values.
		Get(c.spreadsheetID, fmt.Sprintf("%s!A1:K1", c.sheetName)).
		Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet header: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	_, err = c.service.Spreadsheets.Values.
		Update(c.spreadsheetID, fmt.Sprintf("%s!A1", c.sheetName), &sheets.ValueRange{
			Values: [][]interface{}{exportHeader},
		}).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return fmt.Errorf("failed to write sheet header: %w", err)
	}
	return nil
}

// SpreadsheetURL возвращает ссылку на таблицу
func (c *Client) SpreadsheetURL() string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", c.spreadsheetID)
}
