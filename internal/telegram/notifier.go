package telegram

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/domain/repository"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
	"github.com/neonfoxik/GameBot/internal/service"
)

// Notifier рассылает игрокам уведомления об активностях.
// Реализует service.Notifier.
type Notifier struct {
	api     *tgbotapi.BotAPI
	tracker repository.MessageTrackerRepository
}

// NewNotifier создает нового рассыльщика уведомлений
func NewNotifier(api *tgbotapi.BotAPI, tracker repository.MessageTrackerRepository) *Notifier {
	return &Notifier{api: api, tracker: tracker}
}

// ActivityActivated рассылает приглашения всем одобренным игрокам.
// Перед отправкой удаляется прошлое приглашение в эту же активность,
// чтобы у игрока не висели устаревшие кнопки.
func (n *Notifier) ActivityActivated(players []entity.Player, activity *entity.Activity) {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🎯 Активность *%s* началась!\n", escape(activity.Name)))
	if activity.Description != "" {
		builder.WriteString(escape(activity.Description) + "\n")
	}
	builder.WriteString("\nЖми кнопку, чтобы присоединиться.")
	text := builder.String()

	sent := 0
	for i := range players {
		player := &players[i]
		chatID, err := strconv.ParseInt(player.TelegramID, 10, 64)
		if err != nil {
			log.Printf("[Notifier] Пропуск игрока #%d: некорректный telegram ID %q", player.ID, player.TelegramID)
			continue
		}

		n.deleteStaleMessage(chatID, player.TelegramID, activity.ID)

		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = "Markdown"
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			[]tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData("⚔ Присоединиться", fmt.Sprintf("join_activity_%d", activity.ID)),
			},
		)
		sentMsg, err := n.api.Send(msg)
		if err != nil {
			log.Printf("[Notifier] Не удалось отправить приглашение игроку #%d: %v", player.ID, err)
			continue
		}
		if err := n.tracker.RememberActivityMessage(player.TelegramID, activity.ID, sentMsg.MessageID); err != nil {
			log.Printf("[Notifier] Предупреждение: не удалось запомнить приглашение игрока #%d: %v", player.ID, err)
		}
		sent++
	}
	log.Printf("[Notifier] Активность #%d: разослано %d/%d приглашений", activity.ID, sent, len(players))
}

// ActivityClosed отправляет игроку итоги по завершенной активности
func (n *Notifier) ActivityClosed(player *entity.Player, activity *entity.Activity, stats service.ClosureStats) {
	chatID, err := strconv.ParseInt(player.TelegramID, 10, 64)
	if err != nil {
		log.Printf("[Notifier] Пропуск итогов для игрока #%d: некорректный telegram ID %q", player.ID, player.TelegramID)
		return
	}

	n.deleteStaleMessage(chatID, player.TelegramID, activity.ID)
	n.deleteCompletionMessage(chatID, player.TelegramID, activity.ID)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🏁 Активность *%s* завершена.\n\n", escape(activity.Name)))
	builder.WriteString(fmt.Sprintf("Сессий: %d\n", stats.Sessions))
	builder.WriteString(fmt.Sprintf("Время участия: %.0f сек\n", stats.DurationSeconds))
	builder.WriteString(fmt.Sprintf("Поинты: %.2f\n", stats.PointsEarned))
	if stats.AdditionalPoints != 0 {
		builder.WriteString(fmt.Sprintf("Доп. поинты: %.2f\n", stats.AdditionalPoints))
	}
	builder.WriteString(fmt.Sprintf("*Итого: %.2f*", stats.TotalPoints()))

	msg := tgbotapi.NewMessage(chatID, builder.String())
	msg.ParseMode = "Markdown"
	if _, err := n.api.Send(msg); err != nil {
		log.Printf("[Notifier] Не удалось отправить итоги игроку #%d: %v", player.ID, err)
	}
}

func (n *Notifier) deleteStaleMessage(chatID int64, telegramID string, activityID uint) {
	messageID, err := n.tracker.GetActivityMessage(telegramID, activityID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[Notifier] Предупреждение: трекер сообщений недоступен: %v", err)
		}
		return
	}
	if _, err := n.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Printf("[Notifier] Предупреждение: не удалось удалить сообщение #%d: %v", messageID, err)
	}
	if err := n.tracker.ForgetActivityMessage(telegramID, activityID); err != nil {
		log.Printf("[Notifier] Предупреждение: не удалось забыть приглашение: %v", err)
	}
}

func (n *Notifier) deleteCompletionMessage(chatID int64, telegramID string, activityID uint) {
	messageID, err := n.tracker.GetCompletionMessage(telegramID, activityID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[Notifier] Предупреждение: трекер сообщений недоступен: %v", err)
		}
		return
	}
	if _, err := n.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Printf("[Notifier] Предупреждение: не удалось удалить сообщение #%d: %v", messageID, err)
	}
	if err := n.tracker.ForgetCompletionMessage(telegramID, activityID); err != nil {
		log.Printf("[Notifier] Предупреждение: не удалось забыть сообщение участия: %v", err)
	}
}
