package repository

// MessageTrackerRepository хранит ID отправленных игрокам сообщений об
// активностях, чтобы их можно было удалить при смене состояния. Хранилище
// внешнее (Redis): трекинг обязан переживать перезапуск процесса.
type MessageTrackerRepository interface {
	// RememberActivityMessage запоминает ID сообщения об активности для игрока
	RememberActivityMessage(telegramID string, activityID uint, messageID int) error
	// GetActivityMessage возвращает ID сообщения или ErrNotFound
	GetActivityMessage(telegramID string, activityID uint) (int, error)
	ForgetActivityMessage(telegramID string, activityID uint) error

	RememberCompletionMessage(telegramID string, activityID uint, messageID int) error
	GetCompletionMessage(telegramID string, activityID uint) (int, error)
	ForgetCompletionMessage(telegramID string, activityID uint) error
}
