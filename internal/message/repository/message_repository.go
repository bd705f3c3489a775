package repository

import (
	"context"
	"fmt"

	"social_network_service/internal/message/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository definition direct message persistence
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) error
	// FindByRoom 依時間新到舊分頁，已刪除的不會出現
	FindByRoom(ctx context.Context, roomID string, limit, offset int64) ([]domain.Message, error)
	// MarkRead 把房間內所有對方傳給 userID 的未讀訊息標成已讀，回傳更新筆數
	MarkRead(ctx context.Context, roomID, userID string) (int64, error)
	// Conversations 以房間分組，列出最後一則訊息與未讀數，依最後訊息時間降序
	Conversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error)
	SoftDelete(ctx context.Context, messageID, senderID string) error
}

type messageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		coll: db.Collection("messages"),
	}
}

func (r *messageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *messageRepository) FindByRoom(ctx context.Context, roomID string, limit, offset int64) ([]domain.Message, error) {
	filter := bson.M{"room_id": roomID, "is_deleted": false}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit).SetSkip(offset)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, roomID, userID string) (int64, error) {
	filter := bson.M{
		"room_id":      roomID,
		"recipient_id": userID,
		"is_read":      false,
		"is_deleted":   false,
	}
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *messageRepository) Conversations(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	pipeline := mongo.Pipeline{
		// 1. 只看自己參與的訊息
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "is_deleted", Value: false},
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "sender_id", Value: userID}},
				bson.D{{Key: "recipient_id", Value: userID}},
			}},
		}}},
		// 2. 時間降序，讓 $first 拿到最後一則
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		// 3. 按房間分組，順便算未讀數（對方傳給我且未讀）
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$room_id"},
			{Key: "last_content", Value: bson.D{{Key: "$first", Value: "$content"}}},
			{Key: "last_at", Value: bson.D{{Key: "$first", Value: "$created_at"}}},
			{Key: "other_user_id", Value: bson.D{{Key: "$first", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$sender_id", userID}}},
					"$recipient_id",
					"$sender_id",
				}},
			}}}},
			{Key: "unread_count", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$and", Value: bson.A{
						bson.D{{Key: "$eq", Value: bson.A{"$recipient_id", userID}}},
						bson.D{{Key: "$eq", Value: bson.A{"$is_read", false}}},
					}}},
					1,
					0,
				}},
			}}}},
		}}},
		// 4. 最近的會話排前面
		bson.D{{Key: "$sort", Value: bson.D{{Key: "last_at", Value: -1}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate error: %w", err)
	}

	var results []domain.ConversationSummary
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("cursor All error: %w", err)
	}
	return results, nil
}

func (r *messageRepository) SoftDelete(ctx context.Context, messageID, senderID string) error {
	filter := bson.M{"message_id": messageID, "sender_id": senderID, "is_deleted": false}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_deleted": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
