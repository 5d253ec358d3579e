package handlers

import (
	"github.com/Pratham2994/Symbiote-sub000/internal/notify"
	"github.com/Pratham2994/Symbiote-sub000/internal/realtime"
	"github.com/Pratham2994/Symbiote-sub000/internal/service"
	"github.com/Pratham2994/Symbiote-sub000/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler carries the services behind the HTTP surface.
type Handler struct {
	users       store.UserRepository
	requests    *service.RequestService
	teams       *service.TeamService
	chat        *service.ChatService
	suggestions *service.SuggestionService
	notifier    *notify.Manager
	hub         *realtime.Hub
	log         *zap.Logger
}

func New(users store.UserRepository, requests *service.RequestService, teams *service.TeamService,
	chat *service.ChatService, suggestions *service.SuggestionService,
	notifier *notify.Manager, hub *realtime.Hub, log *zap.Logger) *Handler {
	return &Handler{
		users:       users,
		requests:    requests,
		teams:       teams,
		chat:        chat,
		suggestions: suggestions,
		notifier:    notifier,
		hub:         hub,
		log:         log,
	}
}

// statusFor maps service error codes onto HTTP statuses.
func statusFor(code service.ErrorCode) int {
	switch code {
	case service.ErrorCodeValidation, service.ErrorCodeSelfTarget:
		return fiber.StatusBadRequest
	case service.ErrorCodeNotFound:
		return fiber.StatusNotFound
	case service.ErrorCodeNotAuthorized:
		return fiber.StatusForbidden
	case service.ErrorCodeAlreadyExists, service.ErrorCodeAlreadyResolved,
		service.ErrorCodeAlreadyFriends, service.ErrorCodeAlreadyMember,
		service.ErrorCodeAlreadyOnTeam:
		return fiber.StatusConflict
	case service.ErrorCodeInvalidScore:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, svcErr *service.Error) error {
	return c.Status(statusFor(svcErr.Code)).JSON(fiber.Map{
		"success": false,
		"message": svcErr.Message,
		"code":    svcErr.Code,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func ok(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}
