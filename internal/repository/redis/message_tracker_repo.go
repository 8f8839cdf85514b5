package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/neonfoxik/GameBot/internal/pkg/errors"
)

// MessageTrackerRepo реализует repository.MessageTrackerRepository.
// Хранит ID отправленных Telegram-сообщений, чтобы при повторной рассылке
// удалять устаревшие. Ключи переживают рестарт бота.
type MessageTrackerRepo struct {
	client redis.UniversalClient
	ctx    context.Context
}

// NewMessageTrackerRepo создает новый трекер сообщений
func NewMessageTrackerRepo(client redis.UniversalClient) (*MessageTrackerRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("Redis client cannot be nil for MessageTrackerRepo")
	}
	return &MessageTrackerRepo{
		client: client,
		ctx:    context.Background(),
	}, nil
}

func activityMessageKey(telegramID string, activityID uint) string {
	return fmt.Sprintf("player:%s:activity_msg:%d", telegramID, activityID)
}

func completionMessageKey(telegramID string, activityID uint) string {
	return fmt.Sprintf("player:%s:completion_msg:%d", telegramID, activityID)
}

// RememberActivityMessage сохраняет ID сообщения-приглашения активности
func (r *MessageTrackerRepo) RememberActivityMessage(telegramID string, activityID uint, messageID int) error {
	return r.client.Set(r.ctx, activityMessageKey(telegramID, activityID), messageID, 0).Err()
}

// GetActivityMessage возвращает ID сообщения-приглашения активности
func (r *MessageTrackerRepo) GetActivityMessage(telegramID string, activityID uint) (int, error) {
	return r.getMessageID(activityMessageKey(telegramID, activityID))
}

// ForgetActivityMessage удаляет запись о сообщении-приглашении
func (r *MessageTrackerRepo) ForgetActivityMessage(telegramID string, activityID uint) error {
	return r.client.Del(r.ctx, activityMessageKey(telegramID, activityID)).Err()
}

// RememberCompletionMessage сохраняет ID сообщения о завершении участия
func (r *MessageTrackerRepo) RememberCompletionMessage(telegramID string, activityID uint, messageID int) error {
	return r.client.Set(r.ctx, completionMessageKey(telegramID, activityID), messageID, 0).Err()
}

// GetCompletionMessage возвращает ID сообщения о завершении участия
func (r *MessageTrackerRepo) GetCompletionMessage(telegramID string, activityID uint) (int, error) {
	return r.getMessageID(completionMessageKey(telegramID, activityID))
}

// ForgetCompletionMessage удаляет запись о сообщении завершения
func (r *MessageTrackerRepo) ForgetCompletionMessage(telegramID string, activityID uint) error {
	return r.client.Del(r.ctx, completionMessageKey(telegramID, activityID)).Err()
}

func (r *MessageTrackerRepo) getMessageID(key string) (int, error) {
	messageID, err := r.client.Get(r.ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperrors.ErrNotFound
		}
		return 0, err
	}
	return messageID, nil
}
