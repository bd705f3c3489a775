package repository

import (
	"context"
	"errors"

	"social_network_service/internal/post/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound 貼文不存在或已刪除
var ErrPostNotFound = errors.New("post not found")

// PostRepository definition post persistence
type PostRepository interface {
	Insert(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID string) (*domain.Post, error)
	// FindFeed 依建立時間新到舊分頁，已刪除的不會出現
	FindFeed(ctx context.Context, limit, offset int64) ([]domain.Post, error)
	FindByAuthor(ctx context.Context, authorID string, limit, offset int64) ([]domain.Post, error)
	// ToggleLike 回傳 toggle 後是否為已按讚狀態
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
	IncCommentsCount(ctx context.Context, postID string, delta int) error
	SoftDelete(ctx context.Context, postID, authorID string) error
}

type postRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository create a PostRepository
func NewMongoPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{
		coll: db.Collection("posts"),
	}
}

func (r *postRepository) Insert(ctx context.Context, post *domain.Post) error {
	_, err := r.coll.InsertOne(ctx, post)
	return err
}

func (r *postRepository) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	filter := bson.M{"post_id": postID, "is_deleted": false}
	var post domain.Post
	if err := r.coll.FindOne(ctx, filter).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindFeed(ctx context.Context, limit, offset int64) ([]domain.Post, error) {
	filter := bson.M{"is_deleted": false}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit).SetSkip(offset)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var posts []domain.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID string, limit, offset int64) ([]domain.Post, error) {
	filter := bson.M{"author_id": authorID, "is_deleted": false}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit).SetSkip(offset)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var posts []domain.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ToggleLike 已按讚就取消，沒按過就加上，count 跟 liked_by 同一次更新
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	post, err := r.FindByID(ctx, postID)
	if err != nil {
		return false, err
	}

	liked := false
	for _, id := range post.LikedBy {
		if id == userID {
			liked = true
			break
		}
	}

	filter := bson.M{"post_id": postID, "is_deleted": false}
	var update bson.M
	if liked {
		update = bson.M{
			"$pull": bson.M{"liked_by": userID},
			"$inc":  bson.M{"likes_count": -1},
		}
	} else {
		update = bson.M{
			"$addToSet": bson.M{"liked_by": userID},
			"$inc":      bson.M{"likes_count": 1},
		}
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return false, err
	}
	return !liked, nil
}

func (r *postRepository) IncCommentsCount(ctx context.Context, postID string, delta int) error {
	filter := bson.M{"post_id": postID, "is_deleted": false}
	_, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"comments_count": delta}})
	return err
}

func (r *postRepository) SoftDelete(ctx context.Context, postID, authorID string) error {
	filter := bson.M{"post_id": postID, "author_id": authorID, "is_deleted": false}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_deleted": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
