package handlers

import (
	"github.com/Pratham2994/Symbiote-sub000/internal/middleware"
	"github.com/Pratham2994/Symbiote-sub000/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateChatBody struct {
	TeamID string `json:"teamId" validate:"required,uuid4"`
}

type PostMessageBody struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// CreateGroupChat opens (or returns) the team's group chat.
func (h *Handler) CreateGroupChat(c *fiber.Ctx) error {
	var body CreateChatBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	chat, fail := h.chat.Create(c.Context(), body.TeamID, middleware.GetUserID(c))
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusCreated, "Group chat ready", chat)
}

// GetMessages returns the chat's unexpired history, oldest first.
func (h *Handler) GetMessages(c *fiber.Ctx) error {
	msgs, fail := h.chat.History(c.Context(), c.Params("groupId"), middleware.GetUserID(c))
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "", msgs)
}

// PostMessage appends a message and fans it out to the other participants.
func (h *Handler) PostMessage(c *fiber.Ctx) error {
	var body PostMessageBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	msg, fail := h.chat.Post(c.Context(), c.Params("groupId"), middleware.GetUserID(c), body.Content)
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusCreated, "Message sent", msg)
}

// UnreadCounts returns the caller's per-chat unread counters.
func (h *Handler) UnreadCounts(c *fiber.Ctx) error {
	counts, fail := h.chat.UnreadCounts(c.Context(), middleware.GetUserID(c))
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "", counts)
}

// MarkChatRead zeroes the caller's unread counter for one chat.
func (h *Handler) MarkChatRead(c *fiber.Ctx) error {
	if fail := h.chat.MarkRead(c.Context(), c.Params("groupId"), middleware.GetUserID(c)); fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "Chat marked read", nil)
}
