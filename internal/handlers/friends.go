package handlers

import (
	"github.com/Pratham2994/Symbiote-sub000/internal/middleware"
	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SendFriendRequestBody struct {
	ToUsername string `json:"toUsername" validate:"required"`
}

type ResolveRequestBody struct {
	RequestID string `json:"requestId" validate:"required,uuid4"`
}

// SendFriendRequest creates a pending friend request addressed by username.
func (h *Handler) SendFriendRequest(c *fiber.Ctx) error {
	var body SendFriendRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	req, fail := h.requests.SubmitFriendRequest(c.Context(), middleware.GetUserID(c), body.ToUsername)
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusCreated, "Friend request sent", req)
}

// AcceptFriendRequest resolves a pending friend request in the sender's favor.
func (h *Handler) AcceptFriendRequest(c *fiber.Ctx) error {
	return h.resolveFriendRequest(c, models.DecisionAccept, "Friend request accepted")
}

// RejectFriendRequest declines a pending friend request.
func (h *Handler) RejectFriendRequest(c *fiber.Ctx) error {
	return h.resolveFriendRequest(c, models.DecisionReject, "Friend request rejected")
}

func (h *Handler) resolveFriendRequest(c *fiber.Ctx, decision models.Decision, message string) error {
	var body ResolveRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	req, fail := h.requests.Resolve(c.Context(), body.RequestID, middleware.GetUserID(c), decision)
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, message, req)
}

// ListFriendRequests returns the caller's pending friend requests.
func (h *Handler) ListFriendRequests(c *fiber.Ctx) error {
	requests, fail := h.requests.ListPendingFriendRequests(c.Context(), middleware.GetUserID(c))
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "", requests)
}

// ListFriends returns the caller's friends.
func (h *Handler) ListFriends(c *fiber.Ctx) error {
	friends, err := h.users.Friends(c.Context(), middleware.GetUserID(c))
	if err != nil {
		h.log.Error("failed to list friends", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to list friends",
		})
	}

	out := make([]models.UserResponse, 0, len(friends))
	for _, f := range friends {
		out = append(out, f.ToResponse())
	}
	return ok(c, fiber.StatusOK, "", out)
}

// RemoveFriend severs the friendship in both directions.
func (h *Handler) RemoveFriend(c *fiber.Ctx) error {
	friendID := c.Params("friendId")
	if friendID == "" {
		return badRequest(c, "Missing friend id")
	}

	if fail := h.requests.RemoveFriend(c.Context(), middleware.GetUserID(c), friendID); fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "Friend removed", nil)
}
