package app

import (
	"strconv"

	"social_network_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// MessageHandler direct message http handler
type MessageHandler struct {
	Usecase MessageUseCase
}

// NewMessageHandler create message handler
func NewMessageHandler(usecase MessageUseCase) *MessageHandler {
	return &MessageHandler{Usecase: usecase}
}

type sendMessageReq struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// Send 落地一則私訊
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	senderID, _ := c.Locals(middlewares.TokenUserID).(string)

	var req sendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid request body"})
	}

	msg, err := h.Usecase.Send(c.UserContext(), senderID, req.RecipientID, req.Content)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": msg})
}

// History 跟某個使用者的歷史訊息
func (h *MessageHandler) History(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)

	messages, err := h.Usecase.History(c.UserContext(), userID, c.Params("userId"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "messages": messages})
}

// Conversations 會話清單與未讀數
func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	list, err := h.Usecase.Conversations(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "conversations": list})
}

// MarkRead 把跟某人的會話全部標為已讀
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	count, err := h.Usecase.MarkRead(c.UserContext(), userID, c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "updated": count})
}

// Delete 只有寄件人可以刪自己的訊息
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	senderID, _ := c.Locals(middlewares.TokenUserID).(string)

	if err := h.Usecase.Delete(c.UserContext(), c.Params("id"), senderID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "message not found"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "message deleted"})
}
