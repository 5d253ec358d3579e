package routes

import (
	"github.com/Pratham2994/Symbiote-sub000/internal/handlers"
	"github.com/Pratham2994/Symbiote-sub000/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures the full API surface.
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Symbiote API is running",
		})
	})

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", middleware.StrictRateLimiter(), h.Register)
	auth.Post("/login", middleware.StrictRateLimiter(), h.Login)
	auth.Post("/logout", middleware.AuthMiddleware, h.Logout)
	auth.Get("/me", middleware.AuthMiddleware, h.Me)

	// Friend routes (protected)
	friends := api.Group("/friend-requests", middleware.AuthMiddleware)
	friends.Post("/send", h.SendFriendRequest)
	friends.Post("/accept", h.AcceptFriendRequest)
	friends.Post("/reject", h.RejectFriendRequest)
	friends.Get("/", h.ListFriendRequests)

	api.Get("/friends", middleware.AuthMiddleware, h.ListFriends)
	api.Delete("/friends/:friendId", middleware.AuthMiddleware, h.RemoveFriend)

	// Team routes (protected)
	teams := api.Group("/teams", middleware.AuthMiddleware)
	teams.Post("/", h.CreateTeam)
	teams.Get("/", h.ListMyTeams)
	teams.Get("/suggestions", h.TeamSuggestions)
	teams.Post("/invite", h.SendTeamInvite)
	teams.Post("/handleTeamInvite", h.HandleTeamInvite)
	teams.Post("/joinRequest", h.SendJoinRequest)
	teams.Post("/handleJoinRequest", h.HandleJoinRequest)
	teams.Get("/:teamId", h.GetTeam)
	teams.Delete("/:teamId", h.DeleteTeam)
	teams.Post("/:teamId/leave", h.LeaveTeam)
	teams.Delete("/:teamId/members/:userId", h.RemoveTeamMember)

	// Notification routes (protected)
	notifications := api.Group("/notifications", middleware.AuthMiddleware)
	notifications.Get("/", h.ListNotifications)
	notifications.Patch("/mark-all-read", h.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", h.MarkNotificationRead)
	notifications.Delete("/:id", h.DeleteNotification)

	// Group chat routes (protected)
	chat := api.Group("/group-chat", middleware.AuthMiddleware)
	chat.Post("/create", h.CreateGroupChat)
	chat.Get("/unread-count", h.UnreadCounts)
	chat.Get("/:groupId/messages", h.GetMessages)
	chat.Post("/:groupId/messages", middleware.MessageRateLimiter(), h.PostMessage)
	chat.Put("/:groupId/read", h.MarkChatRead)

	// WebSocket (protected)
	ws := api.Group("/ws", middleware.AuthMiddleware)
	ws.Get("/stats", h.WebSocketStats)
	ws.Use("/", handlers.WebSocketUpgrade)
	ws.Get("/", websocket.New(h.WebSocket))
}
