package repository

import (
	"context"
	"errors"

	"social_network_service/internal/post/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrCommentNotFound 留言不存在或已刪除
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepository definition comment persistence
type CommentRepository interface {
	Insert(ctx context.Context, comment *domain.Comment) error
	// FindByPost 留言依建立時間舊到新排序
	FindByPost(ctx context.Context, postID string, limit, offset int64) ([]domain.Comment, error)
	SoftDelete(ctx context.Context, commentID, authorID string) error
}

type commentRepository struct {
	coll *mongo.Collection
}

// NewMongoCommentRepository create a CommentRepository
func NewMongoCommentRepository(db *mongo.Database) CommentRepository {
	return &commentRepository{
		coll: db.Collection("comments"),
	}
}

func (r *commentRepository) Insert(ctx context.Context, comment *domain.Comment) error {
	_, err := r.coll.InsertOne(ctx, comment)
	return err
}

func (r *commentRepository) FindByPost(ctx context.Context, postID string, limit, offset int64) ([]domain.Comment, error) {
	filter := bson.M{"post_id": postID, "is_deleted": false}
	opts := options.Find().SetSort(bson.M{"created_at": 1}).SetLimit(limit).SetSkip(offset)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var comments []domain.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, commentID, authorID string) error {
	filter := bson.M{"comment_id": commentID, "author_id": authorID, "is_deleted": false}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_deleted": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCommentNotFound
	}
	return nil
}
