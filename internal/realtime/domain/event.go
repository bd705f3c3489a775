package domain

// server -> client 事件名稱
const (
	EventUserOnline             = "user_online"
	EventOnlineUsers            = "online_users"
	EventUserOffline            = "user_offline"
	EventReceiveMessage         = "receive_message"
	EventNewMessageNotification = "new_message_notification"
	EventUserTypingStart        = "user_typing_start"
	EventUserTypingStop         = "user_typing_stop"
	EventError                  = "error"
	EventPostCreated            = "post_created"
	EventCommentCreated         = "comment_created"
)

// client -> server 動作名稱
const (
	ActionJoinConversation  = "join_conversation"
	ActionLeaveConversation = "leave_conversation"
	ActionSendMessage       = "send_message"
	ActionTypingStart       = "typing_start"
	ActionTypingStop        = "typing_stop"
)

// WSRequest client 送上來的訊息格式
type WSRequest struct {
	Action      string `json:"action"`
	RecipientID string `json:"recipientId,omitempty"`
	OtherUserID string `json:"otherUserId,omitempty"`
	Content     string `json:"content,omitempty"`
	TempID      string `json:"tempId,omitempty"`
}

// WSEvent server 推給 client 的訊息格式
type WSEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// UserProfile 事件內嵌的使用者快照
type UserProfile struct {
	UserID  string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// EphemeralMessage receive_message 事件的 payload，
// 兩邊的 profile 都是送出當下重新查的快照
type EphemeralMessage struct {
	ID        string      `json:"_id"`
	TempID    string      `json:"tempId,omitempty"`
	Sender    UserProfile `json:"senderId"`
	Recipient UserProfile `json:"recipientId"`
	Content   string      `json:"content"`
	CreatedAt string      `json:"createdAt"`
}

// MessageNotification new_message_notification 事件的 payload
type MessageNotification struct {
	MessageID string `json:"messageId"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// TypingPayload user_typing_start / user_typing_stop 的 payload
type TypingPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"userName,omitempty"`
}

// OfflinePayload user_offline 的 payload
type OfflinePayload struct {
	UserID string `json:"userId"`
}

// PostCreatedPayload post_created 的 payload，只帶識別資訊不帶整筆實體
type PostCreatedPayload struct {
	PostID   string `json:"postId"`
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
}

// CommentCreatedPayload comment_created 的 payload
type CommentCreatedPayload struct {
	CommentID string `json:"commentId"`
	PostID    string `json:"postId"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
}

// EventPublisher 把領域事件廣播給所有在線 client，best-effort：
// 回傳值代表有沒有真的送出去，呼叫端不應該因為 false 而失敗
type EventPublisher interface {
	Publish(event string, payload interface{}) bool
}

// UserNotifier 把事件推進單一使用者的個人房間，best-effort，
// 對方不在線就默默丟掉
type UserNotifier interface {
	NotifyUser(userID, event string, payload interface{}) bool
}

// NoopPublisher 預設的 publisher，gateway 還沒接上時使用
type NoopPublisher struct{}

// Publish always reports not delivered
func (NoopPublisher) Publish(event string, payload interface{}) bool { return false }

// NotifyUser always reports not delivered
func (NoopPublisher) NotifyUser(userID, event string, payload interface{}) bool { return false }
