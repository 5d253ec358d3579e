package handlers

import (
	"github.com/Pratham2994/Symbiote-sub000/internal/middleware"
	"github.com/Pratham2994/Symbiote-sub000/internal/models"
	"github.com/Pratham2994/Symbiote-sub000/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateTeamBody struct {
	Name          string `json:"name" validate:"required,min=2,max=64"`
	CompetitionID string `json:"competitionId" validate:"required"`
}

type TeamInviteBody struct {
	TeamID   string `json:"teamId" validate:"required,uuid4"`
	FriendID string `json:"friendId" validate:"required,uuid4"`
}

type HandleInviteBody struct {
	InviteID string `json:"inviteId" validate:"required,uuid4"`
	Action   string `json:"action" validate:"required"`
}

type JoinRequestBody struct {
	TeamID string `json:"teamId" validate:"required,uuid4"`
}

type HandleJoinRequestBody struct {
	RequestID string `json:"requestId" validate:"required,uuid4"`
	Action    string `json:"action" validate:"required"`
}

// CreateTeam registers a team with the caller as creator and first member.
func (h *Handler) CreateTeam(c *fiber.Ctx) error {
	var body CreateTeamBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	team, fail := h.teams.Create(c.Context(), middleware.GetUserID(c), body.Name, body.CompetitionID)
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusCreated, "Team created", team)
}

// ListMyTeams returns every team the caller belongs to.
func (h *Handler) ListMyTeams(c *fiber.Ctx) error {
	teams, fail := h.teams.ListMine(c.Context(), middleware.GetUserID(c))
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "", teams)
}

// GetTeam returns one team with its member roster.
func (h *Handler) GetTeam(c *fiber.Ctx) error {
	team, fail := h.teams.Get(c.Context(), c.Params("teamId"))
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "", team)
}

// DeleteTeam disbands a team. Creator only.
func (h *Handler) DeleteTeam(c *fiber.Ctx) error {
	if fail := h.teams.Delete(c.Context(), c.Params("teamId"), middleware.GetUserID(c)); fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "Team deleted", nil)
}

// LeaveTeam removes the caller from a team.
func (h *Handler) LeaveTeam(c *fiber.Ctx) error {
	if fail := h.teams.Leave(c.Context(), c.Params("teamId"), middleware.GetUserID(c)); fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "Left team", nil)
}

// RemoveTeamMember evicts a member. Creator only.
func (h *Handler) RemoveTeamMember(c *fiber.Ctx) error {
	fail := h.teams.RemoveMember(c.Context(), c.Params("teamId"), middleware.GetUserID(c), c.Params("userId"))
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "Member removed", nil)
}

// SendTeamInvite invites a friend onto the caller's team.
func (h *Handler) SendTeamInvite(c *fiber.Ctx) error {
	var body TeamInviteBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	req, fail := h.requests.SubmitTeamInvite(c.Context(), middleware.GetUserID(c), body.TeamID, body.FriendID)
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusCreated, "Invite sent", req)
}

// HandleTeamInvite accepts or rejects a team invite addressed to the caller.
func (h *Handler) HandleTeamInvite(c *fiber.Ctx) error {
	var body HandleInviteBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	decision, valid := models.ParseDecision(body.Action)
	if !valid {
		return badRequest(c, "Action must be accept or reject")
	}

	req, fail := h.requests.Resolve(c.Context(), body.InviteID, middleware.GetUserID(c), decision)
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "Invite resolved", req)
}

// SendJoinRequest asks to join a team.
func (h *Handler) SendJoinRequest(c *fiber.Ctx) error {
	var body JoinRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	req, fail := h.requests.SubmitJoinRequest(c.Context(), middleware.GetUserID(c), body.TeamID)
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusCreated, "Join request sent", req)
}

// HandleJoinRequest lets any team member admit or decline an applicant.
func (h *Handler) HandleJoinRequest(c *fiber.Ctx) error {
	var body HandleJoinRequestBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	decision, valid := models.ParseDecision(body.Action)
	if !valid {
		return badRequest(c, "Action must be accept or reject")
	}

	req, fail := h.requests.Resolve(c.Context(), body.RequestID, middleware.GetUserID(c), decision)
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "Join request resolved", req)
}

// TeamSuggestions returns scored teammate candidates for a competition.
func (h *Handler) TeamSuggestions(c *fiber.Ctx) error {
	competitionID := c.Query("competitionId")
	if competitionID == "" {
		return badRequest(c, "Missing competitionId")
	}

	suggestions, fail := h.suggestions.Suggest(c.Context(), middleware.GetUserID(c), competitionID)
	if fail != nil {
		return h.fail(c, fail)
	}
	return ok(c, fiber.StatusOK, "", suggestions)
}
