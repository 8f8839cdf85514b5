package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/neonfoxik/GameBot/internal/domain/entity"
	"github.com/neonfoxik/GameBot/internal/domain/repository"
	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
	"github.com/neonfoxik/GameBot/internal/service"
)

const classesPerPage = 8

// Services собирает сервисы, нужные боту
type Services struct {
	Players        *service.PlayerService
	Activities     *service.ActivityService
	Participations *service.ParticipationService
	GameClasses    *service.GameClassService
}

// Bot обрабатывает сообщения и callback-кнопки Telegram.
// Доступ к функциям бота открыт только игрокам с флагом is_our_player;
// остальные могут лишь зарегистрироваться и ждать одобрения.
type Bot struct {
	api     *tgbotapi.BotAPI
	svc     Services
	tracker repository.MessageTrackerRepository
	timeout int

	// Ожидание ника при регистрации, ключ — chat ID
	pendingMu           sync.Mutex
	pendingRegistration map[int64]bool
	// Ожидание нового уровня, значение — ID класса игрока
	pendingLevel map[int64]uint
}

// NewBot создает нового бота
func NewBot(api *tgbotapi.BotAPI, svc Services, tracker repository.MessageTrackerRepository, pollTimeout int) *Bot {
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Bot{
		api:                 api,
		svc:                 svc,
		tracker:             tracker,
		timeout:             pollTimeout,
		pendingRegistration: make(map[int64]bool),
		pendingLevel:        make(map[int64]uint),
	}
}

// Run запускает long polling до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Printf("[TelegramBot] Бот @%s запущен", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if err := b.handleUpdate(update); err != nil {
				log.Printf("[TelegramBot] Ошибка обработки update #%d: %v", update.UpdateID, err)
			}
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	if update.Message != nil {
		return b.handleMessage(update.Message)
	}
	if update.CallbackQuery != nil {
		return b.handleCallback(update.CallbackQuery)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Сообщения

func (b *Bot) handleMessage(msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	chatID := msg.Chat.ID
	telegramID := strconv.FormatInt(msg.From.ID, 10)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return b.handleStart(chatID, telegramID)
		case "profile":
			return b.withAccess(chatID, telegramID, b.sendProfile)
		case "activities":
			return b.withAccess(chatID, telegramID, b.sendActiveActivities)
		case "classes":
			return b.withAccess(chatID, telegramID, func(chatID int64, player *entity.Player) error {
				return b.sendClassList(chatID, player, 1)
			})
		default:
			b.sendSimple(chatID, "Неизвестная команда. Доступно: /start, /profile, /activities, /classes")
		}
		return nil
	}

	// Текст вне команд: продолжение регистрации или смена уровня
	b.pendingMu.Lock()
	awaitingNickname := b.pendingRegistration[chatID]
	playerClassID, awaitingLevel := b.pendingLevel[chatID]
	b.pendingMu.Unlock()

	if awaitingNickname {
		return b.finishRegistration(chatID, telegramID, msg)
	}
	if awaitingLevel {
		return b.finishLevelChange(chatID, telegramID, playerClassID, msg.Text)
	}
	return nil
}

func (b *Bot) handleStart(chatID int64, telegramID string) error {
	player, err := b.svc.Players.GetByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotRegistered) {
			b.pendingMu.Lock()
			b.pendingRegistration[chatID] = true
			b.pendingMu.Unlock()
			b.sendSimple(chatID, "Привет! Для регистрации отправь свой игровой ник.")
			return nil
		}
		return err
	}

	if !player.IsOurPlayer {
		b.sendSimple(chatID, "Твоя заявка на рассмотрении. Дождись одобрения администратора.")
		return nil
	}

	b.sendSimple(chatID, fmt.Sprintf("С возвращением, *%s*!\nДоступно: /profile, /activities, /classes", escape(player.GameNickname)))
	return nil
}

func (b *Bot) finishRegistration(chatID int64, telegramID string, msg *tgbotapi.Message) error {
	nickname := strings.TrimSpace(msg.Text)
	tgName := ""
	if msg.From.UserName != "" {
		tgName = "@" + msg.From.UserName
	}

	player, err := b.svc.Players.Register(telegramID, tgName, nickname)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			b.sendSimple(chatID, "Ник не подходит. Отправь ник длиной до 50 символов.")
			return nil
		case errors.Is(err, apperrors.ErrConflict):
			b.sendSimple(chatID, "Такой ник уже занят. Попробуй другой.")
			return nil
		}
		return err
	}

	b.pendingMu.Lock()
	delete(b.pendingRegistration, chatID)
	b.pendingMu.Unlock()

	b.sendSimple(chatID, fmt.Sprintf("Готово, *%s*! Заявка отправлена, доступ откроется после одобрения администратора.", escape(player.GameNickname)))
	return nil
}

func (b *Bot) finishLevelChange(chatID int64, telegramID string, playerClassID uint, text string) error {
	player, err := b.svc.Players.RequireAccess(telegramID)
	if err != nil {
		return b.replyAccessError(chatID, err)
	}

	level, convErr := strconv.Atoi(strings.TrimSpace(text))
	if convErr != nil || level < 1 {
		b.sendSimple(chatID, "Уровень должен быть целым числом от 1. Попробуй еще раз.")
		return nil
	}

	if err := b.svc.Players.SetClassLevel(player.ID, playerClassID, level); err != nil {
		if errors.Is(err, service.ErrClassNotOwned) || errors.Is(err, apperrors.ErrNotFound) {
			b.sendSimple(chatID, "Класс не найден.")
			return nil
		}
		return err
	}

	b.pendingMu.Lock()
	delete(b.pendingLevel, chatID)
	b.pendingMu.Unlock()

	b.sendSimple(chatID, fmt.Sprintf("Уровень обновлен: *%d*. На уже идущие сессии это не влияет.", level))
	return nil
}

// ----------------------------------------------------------------------------
// Callback-кнопки

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) error {
	if cb.From == nil || cb.Message == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID
	telegramID := strconv.FormatInt(cb.From.ID, 10)

	player, err := b.svc.Players.RequireAccess(telegramID)
	if err != nil {
		_, _ = b.api.Request(tgbotapi.NewCallback(cb.ID, "Нет доступа"))
		return nil
	}

	data := cb.Data
	switch {
	case strings.HasPrefix(data, "join_activity_"):
		activityID := parseUint(strings.TrimPrefix(data, "join_activity_"))
		err = b.sendClassPicker(chatID, player, activityID)

	case strings.HasPrefix(data, "join_class_"):
		// join_class_{activityID}_{playerClassID}
		parts := strings.Split(strings.TrimPrefix(data, "join_class_"), "_")
		if len(parts) != 2 {
			break
		}
		err = b.joinActivity(chatID, telegramID, player, parseUint(parts[0]), parseUint(parts[1]))

	case strings.HasPrefix(data, "leave_activity_"):
		activityID := parseUint(strings.TrimPrefix(data, "leave_activity_"))
		err = b.leaveActivity(chatID, player, activityID)

	case data == "profile":
		err = b.sendProfile(chatID, player)

	case strings.HasPrefix(data, "classes_page_"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "classes_page_"))
		if page < 1 {
			page = 1
		}
		err = b.sendClassList(chatID, player, page)

	case strings.HasPrefix(data, "class_level_"):
		playerClassID := parseUint(strings.TrimPrefix(data, "class_level_"))
		b.pendingMu.Lock()
		b.pendingLevel[chatID] = playerClassID
		b.pendingMu.Unlock()
		b.sendSimple(chatID, "Отправь новый уровень числом.")

	// Проверяется раньше префикса "add_class_"
	case data == "add_class_menu":
		err = b.sendAddClassMenu(chatID, player)

	case strings.HasPrefix(data, "add_class_"):
		gameClassID := parseUint(strings.TrimPrefix(data, "add_class_"))
		err = b.addClass(chatID, player, gameClassID)

	case data == "activities":
		err = b.sendActiveActivities(chatID, player)

	default:
		_, _ = b.api.Request(tgbotapi.NewCallback(cb.ID, ""))
		return nil
	}

	_, _ = b.api.Request(tgbotapi.NewCallback(cb.ID, ""))
	return err
}

// ----------------------------------------------------------------------------
// Действия

func (b *Bot) joinActivity(chatID int64, telegramID string, player *entity.Player, activityID, playerClassID uint) error {
	participation, err := b.svc.Participations.Join(activityID, player.ID, playerClassID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrActivityNotActive):
			b.sendSimple(chatID, "Активность уже завершилась.")
			return nil
		case errors.Is(err, service.ErrClassNotOwned), errors.Is(err, apperrors.ErrNotFound):
			b.sendSimple(chatID, "Класс не найден.")
			return nil
		}
		return err
	}

	// Старое приглашение в этот момент уже неактуально
	b.deleteTrackedMessage(chatID, telegramID, activityID)

	text := fmt.Sprintf("Ты в активности классом *%s* (ур. %d). Поинты начисляются за время участия.",
		escape(participation.ClassName), participation.ClassLevel)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🚪 Выйти", fmt.Sprintf("leave_activity_%d", activityID)),
		},
	)
	sent, err := b.api.Send(msg)
	if err != nil {
		return err
	}
	if trackErr := b.tracker.RememberCompletionMessage(telegramID, activityID, sent.MessageID); trackErr != nil {
		log.Printf("[TelegramBot] Предупреждение: не удалось запомнить сообщение участия: %v", trackErr)
	}
	return nil
}

func (b *Bot) leaveActivity(chatID int64, player *entity.Player, activityID uint) error {
	open, err := b.svc.Participations.GetOpenByPlayerAndActivity(player.ID, activityID)
	if err != nil {
		return err
	}
	if len(open) == 0 {
		b.sendSimple(chatID, "У тебя нет открытых сессий в этой активности.")
		return nil
	}

	var total float64
	for _, p := range open {
		points, err := b.svc.Participations.Complete(p.ID)
		if err != nil {
			if errors.Is(err, service.ErrAlreadyCompleted) {
				continue
			}
			return err
		}
		total += points
	}

	b.sendSimple(chatID, fmt.Sprintf("Сессия завершена. Начислено *%.2f* поинтов.", total))
	return nil
}

func (b *Bot) addClass(chatID int64, player *entity.Player, gameClassID uint) error {
	playerClass, err := b.svc.Players.AddClass(player.ID, gameClassID, 1)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			b.sendSimple(chatID, "Этот класс у тебя уже есть.")
			return nil
		}
		return err
	}
	b.sendSimple(chatID, fmt.Sprintf("Класс *%s* добавлен с уровнем 1. Уровень можно поменять в /classes.",
		escape(playerClass.GameClass.Name)))
	return nil
}

// ----------------------------------------------------------------------------
// Экраны

func (b *Bot) sendProfile(chatID int64, player *entity.Player) error {
	summary, err := b.svc.Participations.GetProfileSummary(player.ID)
	if err != nil {
		return err
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("*Профиль %s*\n", escape(player.GameNickname)))
	if player.TgName != "" {
		builder.WriteString(fmt.Sprintf("Telegram: %s\n", escape(player.TgName)))
	}

	builder.WriteString("\n*Классы:*\n")
	if len(summary.Classes) == 0 {
		builder.WriteString("Пока нет классов.\n")
	}
	for _, pc := range summary.Classes {
		name := "?"
		if pc.GameClass != nil {
			name = pc.GameClass.Name
		}
		builder.WriteString(fmt.Sprintf("- %s, уровень %d\n", escape(name), pc.Level))
	}

	if len(summary.Active) > 0 {
		builder.WriteString("\n*Сейчас в активностях:*\n")
		for _, p := range summary.Active {
			builder.WriteString(fmt.Sprintf("- %s (ур. %d), с %s\n",
				escape(p.ClassName), p.ClassLevel, p.JoinedAt.Format("02.01 15:04")))
		}
	}

	builder.WriteString(fmt.Sprintf("\nЗавершенных сессий: %d\n", len(summary.Completed)))
	builder.WriteString(fmt.Sprintf("Всего поинтов: *%.2f*\n", summary.TotalPoints))

	msg := tgbotapi.NewMessage(chatID, builder.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🎯 Активности", "activities"),
			tgbotapi.NewInlineKeyboardButtonData("🛡 Классы", "classes_page_1"),
		},
	)
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) sendActiveActivities(chatID int64, player *entity.Player) error {
	activities, err := b.svc.Activities.GetActive()
	if err != nil {
		return err
	}

	var builder strings.Builder
	builder.WriteString("*Активные активности*\n")
	if len(activities) == 0 {
		builder.WriteString("Сейчас нет активных активностей.")
	}
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(activities))
	for _, a := range activities {
		builder.WriteString(fmt.Sprintf("- *%s*", escape(a.Name)))
		if a.Description != "" {
			builder.WriteString(fmt.Sprintf(" — %s", escape(a.Description)))
		}
		builder.WriteString("\n")
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("⚔ Войти: %s", truncateLabel(a.Name, 25)),
				fmt.Sprintf("join_activity_%d", a.ID)),
		})
	}

	msg := tgbotapi.NewMessage(chatID, builder.String())
	msg.ParseMode = "Markdown"
	if len(keyboard) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	}
	_, err = b.api.Send(msg)
	return err
}

// sendClassPicker показывает выбор класса для входа в активность
func (b *Bot) sendClassPicker(chatID int64, player *entity.Player, activityID uint) error {
	classes, err := b.svc.Players.ListClasses(player.ID)
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		b.sendSimple(chatID, "Сначала добавь себе класс в /classes.")
		return nil
	}

	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(classes))
	for _, pc := range classes {
		name := "?"
		if pc.GameClass != nil {
			name = pc.GameClass.Name
		}
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s (ур. %d)", name, pc.Level),
				fmt.Sprintf("join_class_%d_%d", activityID, pc.ID)),
		})
	}

	msg := tgbotapi.NewMessage(chatID, "*Каким классом заходишь?*")
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) sendClassList(chatID int64, player *entity.Player, page int) error {
	classes, err := b.svc.Players.ListClasses(player.ID)
	if err != nil {
		return err
	}

	start := (page - 1) * classesPerPage
	if start >= len(classes) {
		start = 0
		page = 1
	}
	end := start + classesPerPage
	if end > len(classes) {
		end = len(classes)
	}

	var builder strings.Builder
	builder.WriteString("*Твои классы*\n")
	if len(classes) == 0 {
		builder.WriteString("Пока нет классов.\n")
	}
	keyboard := [][]tgbotapi.InlineKeyboardButton{}
	for _, pc := range classes[start:end] {
		name := "?"
		if pc.GameClass != nil {
			name = pc.GameClass.Name
		}
		builder.WriteString(fmt.Sprintf("- %s, уровень %d\n", escape(name), pc.Level))
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("✏ Уровень: %s", truncateLabel(name, 20)),
				fmt.Sprintf("class_level_%d", pc.ID)),
		})
	}

	row := []tgbotapi.InlineKeyboardButton{}
	if page > 1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅ Назад", fmt.Sprintf("classes_page_%d", page-1)))
	}
	if end < len(classes) {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Вперёд ➡", fmt.Sprintf("classes_page_%d", page+1)))
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}
	keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("➕ Добавить класс", "add_class_menu"),
	})

	msg := tgbotapi.NewMessage(chatID, builder.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	_, err = b.api.Send(msg)
	return err
}

func (b *Bot) sendAddClassMenu(chatID int64, player *entity.Player) error {
	all, err := b.svc.GameClasses.List()
	if err != nil {
		return err
	}
	owned, err := b.svc.Players.ListClasses(player.ID)
	if err != nil {
		return err
	}
	ownedSet := make(map[uint]struct{}, len(owned))
	for _, pc := range owned {
		ownedSet[pc.GameClassID] = struct{}{}
	}

	keyboard := [][]tgbotapi.InlineKeyboardButton{}
	for _, gc := range all {
		if _, exists := ownedSet[gc.ID]; exists {
			continue
		}
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(gc.Name, fmt.Sprintf("add_class_%d", gc.ID)),
		})
	}
	if len(keyboard) == 0 {
		b.sendSimple(chatID, "Все доступные классы уже добавлены.")
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, "*Какой класс добавить?*")
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	_, err = b.api.Send(msg)
	return err
}

// ----------------------------------------------------------------------------
// Вспомогательные

// withAccess выполняет обработчик только для игроков с доступом
func (b *Bot) withAccess(chatID int64, telegramID string, fn func(chatID int64, player *entity.Player) error) error {
	player, err := b.svc.Players.RequireAccess(telegramID)
	if err != nil {
		return b.replyAccessError(chatID, err)
	}
	return fn(chatID, player)
}

func (b *Bot) replyAccessError(chatID int64, err error) error {
	switch {
	case errors.Is(err, service.ErrPlayerNotRegistered):
		b.sendSimple(chatID, "Сначала зарегистрируйся: /start")
		return nil
	case errors.Is(err, service.ErrAccessDenied):
		b.sendSimple(chatID, "Доступ еще не одобрен администратором.")
		return nil
	}
	return err
}

// deleteTrackedMessage удаляет устаревшее приглашение в активность
func (b *Bot) deleteTrackedMessage(chatID int64, telegramID string, activityID uint) {
	messageID, err := b.tracker.GetActivityMessage(telegramID, activityID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[TelegramBot] Предупреждение: трекер сообщений недоступен: %v", err)
		}
		return
	}
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Printf("[TelegramBot] Предупреждение: не удалось удалить сообщение #%d: %v", messageID, err)
	}
	if err := b.tracker.ForgetActivityMessage(telegramID, activityID); err != nil {
		log.Printf("[TelegramBot] Предупреждение: не удалось забыть сообщение: %v", err)
	}
}

func (b *Bot) sendSimple(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("[TelegramBot] Предупреждение: не удалось отправить сообщение в чат %d: %v", chatID, err)
	}
}

func parseUint(s string) uint {
	v, _ := strconv.ParseUint(s, 10, 32)
	return uint(v)
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// escape экранирует спецсимволы Markdown в пользовательском тексте
func escape(s string) string {
	replacer := strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")
	return replacer.Replace(s)
}
