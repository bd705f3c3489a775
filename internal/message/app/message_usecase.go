package app

import (
	"context"
	"errors"
	"time"

	"social_network_service/internal/message/domain"
	"social_network_service/internal/message/repository"
	rt "social_network_service/internal/realtime/domain"
	userdomain "social_network_service/internal/user/domain"
	userrepo "social_network_service/internal/user/repository"

	"github.com/google/uuid"
)

// MessageUseCase 私訊的應用服務
type MessageUseCase interface {
	Send(ctx context.Context, senderID, recipientID, content string) (*domain.Message, error)
	// History 回傳兩人之間的歷史訊息，新到舊分頁
	History(ctx context.Context, userID, otherUserID string, limit, offset int64) ([]domain.Message, error)
	Conversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error)
	MarkRead(ctx context.Context, userID, otherUserID string) (int64, error)
	Delete(ctx context.Context, messageID, senderID string) error
}

type messageUseCase struct {
	messages repository.MessageRepository
	users    userrepo.UserRepository
	notifier rt.UserNotifier
}

// NewMessageUseCase create a MessageUseCase，notifier 傳 nil 時不推播通知
func NewMessageUseCase(messages repository.MessageRepository, users userrepo.UserRepository, notifier rt.UserNotifier) MessageUseCase {
	if notifier == nil {
		notifier = rt.NoopPublisher{}
	}
	return &messageUseCase{
		messages: messages,
		users:    users,
		notifier: notifier,
	}
}

// Send 落地一則私訊，收件人必須存在且帳號有效
func (u *messageUseCase) Send(ctx context.Context, senderID, recipientID, content string) (*domain.Message, error) {
	if err := domain.ValidateContent(content); err != nil {
		return nil, err
	}
	if senderID == recipientID {
		return nil, domain.ErrSelfMessage
	}

	recipient, err := u.users.FindByUser(ctx, &userdomain.UserQuery{UserID: &recipientID})
	if err != nil || !recipient.IsLive() {
		return nil, errors.New("recipient not found or inactive")
	}

	msg := domain.Message{
		MessageID:   uuid.New().String(),
		RoomID:      rt.ConversationRoomID(senderID, recipientID),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}

	if err := u.messages.Insert(ctx, &msg); err != nil {
		return nil, err
	}

	// 收件人在線的話即時通知，不在線就等他自己拉
	u.notifier.NotifyUser(recipientID, rt.EventNewMessageNotification, rt.MessageNotification{
		MessageID: msg.MessageID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
	})

	return &msg, nil
}

func (u *messageUseCase) History(ctx context.Context, userID, otherUserID string, limit, offset int64) ([]domain.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	roomID := rt.ConversationRoomID(userID, otherUserID)
	return u.messages.FindByRoom(ctx, roomID, limit, offset)
}

func (u *messageUseCase) Conversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	return u.messages.Conversations(ctx, userID)
}

func (u *messageUseCase) MarkRead(ctx context.Context, userID, otherUserID string) (int64, error) {
	roomID := rt.ConversationRoomID(userID, otherUserID)
	return u.messages.MarkRead(ctx, roomID, userID)
}

func (u *messageUseCase) Delete(ctx context.Context, messageID, senderID string) error {
	return u.messages.SoftDelete(ctx, messageID, senderID)
}
