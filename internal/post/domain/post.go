package domain

import (
	"errors"
	"time"
)

// 貼文與留言的內容限制
const (
	MaxPostContentLen    = 300
	MaxCommentContentLen = 500
	MaxImagesPerPost     = 3
	MaxVideosPerPost     = 1
)

// MediaType 附件類型
const (
	MediaImage = "image"
	MediaVideo = "video"
)

var (
	// ErrContentTooLong 貼文內容超過限制
	ErrContentTooLong = errors.New("post content exceeds 300 characters")
	// ErrCommentTooLong 留言內容超過限制
	ErrCommentTooLong = errors.New("comment content exceeds 500 characters")
	// ErrEmptyContent 內容不可為空
	ErrEmptyContent = errors.New("content is required")
	// ErrTooManyMedia 附件超過限制
	ErrTooManyMedia = errors.New("at most 3 images or 1 video per post")
	// ErrMediaTypeMixed 圖片與影片不可混用
	ErrMediaTypeMixed = errors.New("cannot mix images and videos in one post")
)

// Post 一則貼文
type Post struct {
	PostID        string    `bson:"post_id" json:"_id"`
	AuthorID      string    `bson:"author_id" json:"authorId"`
	Content       string    `bson:"content" json:"content"`
	Media         []string  `bson:"media,omitempty" json:"media,omitempty"`
	MediaType     string    `bson:"media_type,omitempty" json:"mediaType,omitempty"`
	LikesCount    int       `bson:"likes_count" json:"likesCount"`
	LikedBy       []string  `bson:"liked_by,omitempty" json:"-"`
	CommentsCount int       `bson:"comments_count" json:"commentsCount"`
	IsDeleted     bool      `bson:"is_deleted" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// Comment 貼文底下的一則留言
type Comment struct {
	CommentID string    `bson:"comment_id" json:"_id"`
	PostID    string    `bson:"post_id" json:"postId"`
	AuthorID  string    `bson:"author_id" json:"authorId"`
	Content   string    `bson:"content" json:"content"`
	IsDeleted bool      `bson:"is_deleted" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// ValidatePostContent 檢查貼文內容與附件數量
func ValidatePostContent(content string, media []string, mediaType string) error {
	if content == "" && len(media) == 0 {
		return ErrEmptyContent
	}
	if len([]rune(content)) > MaxPostContentLen {
		return ErrContentTooLong
	}
	switch mediaType {
	case "":
		if len(media) > 0 {
			return ErrMediaTypeMixed
		}
	case MediaImage:
		if len(media) > MaxImagesPerPost {
			return ErrTooManyMedia
		}
	case MediaVideo:
		if len(media) > MaxVideosPerPost {
			return ErrTooManyMedia
		}
	default:
		return ErrMediaTypeMixed
	}
	return nil
}

// ValidateCommentContent 檢查留言內容
func ValidateCommentContent(content string) error {
	if content == "" {
		return ErrEmptyContent
	}
	if len([]rune(content)) > MaxCommentContentLen {
		return ErrCommentTooLong
	}
	return nil
}
