package domain

import (
	"errors"
	"time"
)

// MaxMessageContentLen 單則訊息長度限制
const MaxMessageContentLen = 2000

var (
	// ErrEmptyMessage 訊息內容不可為空
	ErrEmptyMessage = errors.New("message content is required")
	// ErrMessageTooLong 訊息超過長度限制
	ErrMessageTooLong = errors.New("message content exceeds 2000 characters")
	// ErrSelfMessage 不能傳訊息給自己
	ErrSelfMessage = errors.New("cannot send message to yourself")
)

// Message 一則已落地的私訊
type Message struct {
	MessageID   string    `bson:"message_id" json:"_id"`
	RoomID      string    `bson:"room_id" json:"roomId"`
	SenderID    string    `bson:"sender_id" json:"senderId"`
	RecipientID string    `bson:"recipient_id" json:"recipientId"`
	Content     string    `bson:"content" json:"content"`
	IsRead      bool      `bson:"is_read" json:"isRead"`
	IsDeleted   bool      `bson:"is_deleted" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// ConversationSummary 會話清單裡的一列
type ConversationSummary struct {
	RoomID      string    `bson:"_id" json:"roomId"`
	OtherUserID string    `bson:"other_user_id" json:"otherUserId"`
	LastContent string    `bson:"last_content" json:"lastContent"`
	LastAt      time.Time `bson:"last_at" json:"lastAt"`
	UnreadCount int       `bson:"unread_count" json:"unreadCount"`
}

// ValidateContent 檢查訊息內容
func ValidateContent(content string) error {
	if content == "" {
		return ErrEmptyMessage
	}
	if len([]rune(content)) > MaxMessageContentLen {
		return ErrMessageTooLong
	}
	return nil
}
