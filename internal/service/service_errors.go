package service

import "errors"

// Кастомные ошибки сервисного слоя
var (
	// ErrAlreadyCompleted — повторное завершение уже завершенной сессии участия
	ErrAlreadyCompleted = errors.New("participation is already completed")

	// ErrClassNotOwned — игрок пытается войти в активность с чужим классом
	ErrClassNotOwned = errors.New("player class does not belong to this player")

	// ErrPlayerNotRegistered — Telegram-пользователь не прошел регистрацию
	ErrPlayerNotRegistered = errors.New("player is not registered")

	// ErrAccessDenied — игрок без флага is_our_player
	ErrAccessDenied = errors.New("player has no access to the bot")

	// ErrInvalidLevel — уровень меньше 1
	ErrInvalidLevel = errors.New("invalid class level")

	// ErrExportNotConfigured — выгрузка во внешнюю таблицу не настроена
	ErrExportNotConfigured = errors.New("sheet export is not configured")
)
