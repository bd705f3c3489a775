package app

import (
	"context"
	"time"

	"social_network_service/internal/post/domain"
	"social_network_service/internal/post/repository"
	rt "social_network_service/internal/realtime/domain"
	"social_network_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostUseCase 貼文與留言的應用服務
type PostUseCase interface {
	CreatePost(ctx context.Context, authorID, content string, media []string, mediaType string) (*domain.Post, error)
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	Feed(ctx context.Context, limit, offset int64) ([]domain.Post, error)
	PostsByAuthor(ctx context.Context, authorID string, limit, offset int64) ([]domain.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, err error)
	DeletePost(ctx context.Context, postID, authorID string) error

	CreateComment(ctx context.Context, postID, authorID, content string) (*domain.Comment, error)
	Comments(ctx context.Context, postID string, limit, offset int64) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID, authorID string) error
}

type postUseCase struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	bus      rt.EventPublisher
}

// NewPostUseCase create a PostUseCase，bus 傳 nil 時不廣播
func NewPostUseCase(posts repository.PostRepository, comments repository.CommentRepository, bus rt.EventPublisher) PostUseCase {
	if bus == nil {
		bus = rt.NoopPublisher{}
	}
	return &postUseCase{
		posts:    posts,
		comments: comments,
		bus:      bus,
	}
}

// CreatePost 建立貼文，寫入成功後才廣播 post_created
func (u *postUseCase) CreatePost(ctx context.Context, authorID, content string, media []string, mediaType string) (*domain.Post, error) {
	if err := domain.ValidatePostContent(content, media, mediaType); err != nil {
		return nil, err
	}

	post := domain.Post{
		PostID:    uuid.New().String(),
		AuthorID:  authorID,
		Content:   content,
		Media:     media,
		MediaType: mediaType,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.posts.Insert(ctx, &post); err != nil {
		return nil, err
	}

	// 廣播失敗不影響寫入結果，事件只帶識別資訊
	if !u.bus.Publish(rt.EventPostCreated, rt.PostCreatedPayload{
		PostID:   post.PostID,
		AuthorID: post.AuthorID,
		Content:  post.Content,
	}) {
		logger.Log.Debug("post_created not delivered", zap.String("postID", post.PostID))
	}

	return &post, nil
}

func (u *postUseCase) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	return u.posts.FindByID(ctx, postID)
}

func (u *postUseCase) Feed(ctx context.Context, limit, offset int64) ([]domain.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return u.posts.FindFeed(ctx, limit, offset)
}

func (u *postUseCase) PostsByAuthor(ctx context.Context, authorID string, limit, offset int64) ([]domain.Post, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return u.posts.FindByAuthor(ctx, authorID, limit, offset)
}

func (u *postUseCase) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	return u.posts.ToggleLike(ctx, postID, userID)
}

func (u *postUseCase) DeletePost(ctx context.Context, postID, authorID string) error {
	return u.posts.SoftDelete(ctx, postID, authorID)
}

// CreateComment 留言寫入成功後廣播 comment_created，並更新貼文留言數
func (u *postUseCase) CreateComment(ctx context.Context, postID, authorID, content string) (*domain.Comment, error) {
	if err := domain.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	// 貼文必須存在且未刪除
	if _, err := u.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := domain.Comment{
		CommentID: uuid.New().String(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := u.comments.Insert(ctx, &comment); err != nil {
		return nil, err
	}

	if err := u.posts.IncCommentsCount(ctx, postID, 1); err != nil {
		logger.Log.Errorf("inc comments count err :", err)
	}

	if !u.bus.Publish(rt.EventCommentCreated, rt.CommentCreatedPayload{
		CommentID: comment.CommentID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
	}) {
		logger.Log.Debug("comment_created not delivered", zap.String("commentID", comment.CommentID))
	}

	return &comment, nil
}

func (u *postUseCase) Comments(ctx context.Context, postID string, limit, offset int64) ([]domain.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return u.comments.FindByPost(ctx, postID, limit, offset)
}

func (u *postUseCase) DeleteComment(ctx context.Context, postID, commentID, authorID string) error {
	if err := u.comments.SoftDelete(ctx, commentID, authorID); err != nil {
		return err
	}
	if err := u.posts.IncCommentsCount(ctx, postID, -1); err != nil {
		logger.Log.Errorf("dec comments count err :", err)
	}
	return nil
}
