package handlers

import (
	"github.com/Pratham2994/Symbiote-sub000/internal/middleware"
	"github.com/Pratham2994/Symbiote-sub000/internal/notify"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ListNotifications returns the caller's unread notifications. Fetching is
// destructive for non-actionable entries: what this call returns will not
// be returned again.
func (h *Handler) ListNotifications(c *fiber.Ctx) error {
	bundle, err := h.notifier.FetchUnread(c.Context(), middleware.GetUserID(c))
	if err != nil {
		h.log.Error("failed to fetch notifications", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch notifications",
		})
	}
	return ok(c, fiber.StatusOK, "", bundle)
}

// DeleteNotification removes one of the caller's notifications.
func (h *Handler) DeleteNotification(c *fiber.Ctx) error {
	err := h.notifier.Delete(c.Context(), middleware.GetUserID(c), c.Params("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Notification not found",
		})
	case errors.Is(err, notify.ErrNotRecipient):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Notification does not belong to you",
		})
	case err != nil:
		h.log.Error("failed to delete notification", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to delete notification",
		})
	}
	return ok(c, fiber.StatusOK, "Notification deleted", nil)
}

// MarkNotificationRead marks one notification as read.
func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	err := h.notifier.MarkRead(c.Context(), middleware.GetUserID(c), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Notification not found",
		})
	}
	if err != nil {
		h.log.Error("failed to mark notification read", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to mark notification read",
		})
	}
	return ok(c, fiber.StatusOK, "Notification marked read", nil)
}

// MarkAllNotificationsRead marks every notification of the caller as read.
func (h *Handler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := h.notifier.MarkAllRead(c.Context(), middleware.GetUserID(c)); err != nil {
		h.log.Error("failed to mark notifications read", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to mark notifications read",
		})
	}
	return ok(c, fiber.StatusOK, "All notifications marked read", nil)
}
