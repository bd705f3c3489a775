package app

import (
	"strconv"

	"social_network_service/internal/post/domain"
	"social_network_service/pkg/logger"
	"social_network_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PostHandler post http handler
type PostHandler struct {
	Usecase  PostUseCase
	Uploader MediaUploader
}

// NewPostHandler create post handler
func NewPostHandler(usecase PostUseCase, uploader MediaUploader) *PostHandler {
	return &PostHandler{Usecase: usecase, Uploader: uploader}
}

// CreatePost multipart：content 欄位 + 最多 3 張圖或 1 部影片
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	authorID, _ := c.Locals(middlewares.TokenUserID).(string)
	content := c.FormValue("content")

	var media []string
	var mediaType string

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		files := form.File["media"]
		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				logger.Log.Errorf("Open file failed", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to open file"})
			}

			url, mt, err := h.Uploader.Upload(c.UserContext(), fileHeader.Filename,
				fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
			file.Close()
			if err != nil {
				logger.Log.Errorf("Upload media failed", err)
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
			}

			if mediaType != "" && mediaType != mt {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": domain.ErrMediaTypeMixed.Error()})
			}
			mediaType = mt
			media = append(media, url)
		}
	}

	post, err := h.Usecase.CreatePost(c.UserContext(), authorID, content, media, mediaType)
	if err != nil {
		logger.Log.Error("CreatePost Err", zap.String("author", authorID), zap.String("Err :", err.Error()))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "post": post})
}

// Feed 公開牆，新到舊分頁
func (h *PostHandler) Feed(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	posts, err := h.Usecase.Feed(c.UserContext(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "posts": posts})
}

// GetPost 單篇貼文
func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.Usecase.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "post": post})
}

// PostsByAuthor 某個使用者的貼文
func (h *PostHandler) PostsByAuthor(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	posts, err := h.Usecase.PostsByAuthor(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "posts": posts})
}

// ToggleLike 按讚 / 取消按讚
func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	liked, err := h.Usecase.ToggleLike(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "liked": liked})
}

// DeletePost 只有作者可以刪自己的貼文
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	authorID, _ := c.Locals(middlewares.TokenUserID).(string)

	if err := h.Usecase.DeletePost(c.UserContext(), c.Params("id"), authorID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "post deleted"})
}

type createCommentReq struct {
	Content string `json:"content"`
}

// CreateComment 在貼文底下留言
func (h *PostHandler) CreateComment(c *fiber.Ctx) error {
	authorID, _ := c.Locals(middlewares.TokenUserID).(string)

	var req createCommentReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}

	comment, err := h.Usecase.CreateComment(c.UserContext(), c.Params("id"), authorID, req.Content)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "comment": comment})
}

// Comments 貼文底下的留言，舊到新分頁
func (h *PostHandler) Comments(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	comments, err := h.Usecase.Comments(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "comments": comments})
}

// DeleteComment 只有留言作者可以刪
func (h *PostHandler) DeleteComment(c *fiber.Ctx) error {
	authorID, _ := c.Locals(middlewares.TokenUserID).(string)

	if err := h.Usecase.DeleteComment(c.UserContext(), c.Params("id"), c.Params("commentId"), authorID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "comment deleted"})
}

func pagination(c *fiber.Ctx) (limit, offset int64) {
	limit, _ = strconv.ParseInt(c.Query("limit", "20"), 10, 64)
	offset, _ = strconv.ParseInt(c.Query("offset", "0"), 10, 64)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
