package handlers

import (
	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/services"
	"library-lending/internal/pkg/pagination"
	"library-lending/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles membership endpoints
type MemberHandler struct {
	memberService  *services.MemberService
	lendingService *services.LendingService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService, lendingService *services.LendingService) *MemberHandler {
	return &MemberHandler{
		memberService:  memberService,
		lendingService: lendingService,
	}
}

// Create handles registering a member
// @Summary Create member
// @Description membership_date (YYYY-MM-DD) defaults to today
// @Tags Members
// @Accept json
// @Produce json
// @Param body body services.MemberInput true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var req services.MemberInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create member")
	}

	return response.Created(c, "Member created successfully", member.ToResponse())
}

// List handles listing members
// @Summary List members
// @Tags Members
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.memberService.List(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return respondError(c, err, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully",
		pagination.NewResponse(models.MembersToResponse(result.Members), params, result.Total))
}

// GetByID handles getting a member
// @Summary Get member by ID
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", member.ToResponse())
}

// GetByEmail handles getting a member by email
// @Summary Get member by email
// @Tags Members
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/email/{email} [get]
func (h *MemberHandler) GetByEmail(c *fiber.Ctx) error {
	member, err := h.memberService.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return respondError(c, err, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", member.ToResponse())
}

// Update handles updating a member
// @Summary Update member
// @Tags Members
// @Accept json
// @Produce json
// @Param id path int true "Member ID"
// @Param body body services.MemberInput true "Member data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req services.MemberInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update member")
	}

	return response.Success(c, "Member updated successfully", member.ToResponse())
}

// Delete handles deleting a member
// @Summary Delete member
// @Description Refused while the member holds ISSUED or OVERDUE loans.
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members/{id} [delete]
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	if err := h.memberService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, "Failed to delete member")
	}

	return response.Success(c, "Member deleted successfully", nil)
}

// Search handles searching members by name
// @Summary Search members by name
// @Tags Members
// @Produce json
// @Param name query string true "Name contains"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /members/search [get]
func (h *MemberHandler) Search(c *fiber.Ctx) error {
	members, err := h.memberService.SearchByName(c.UserContext(), c.Query("name"))
	if err != nil {
		return respondError(c, err, "Failed to search members")
	}

	return response.Success(c, "Members retrieved successfully", models.MembersToResponse(members))
}

// ListByType handles listing members of a membership type
// @Summary List members by membership type
// @Tags Members
// @Produce json
// @Param type path string true "STANDARD, PREMIUM or STUDENT"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /members/type/{type} [get]
func (h *MemberHandler) ListByType(c *fiber.Ctx) error {
	members, err := h.memberService.ListByType(c.UserContext(), c.Params("type"))
	if err != nil {
		return respondError(c, err, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully", models.MembersToResponse(members))
}

// ListLoans handles listing the loan history of a member
// @Summary List loans of a member
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /members/{id}/loans [get]
func (h *MemberHandler) ListLoans(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	loans, err := h.lendingService.ListByMember(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", models.LoansToResponse(loans))
}

// ListActiveLoans handles listing ISSUED loans of a member
// @Summary List active loans of a member
// @Tags Members
// @Produce json
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /members/{id}/loans/active [get]
func (h *MemberHandler) ListActiveLoans(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	loans, err := h.lendingService.ListActiveByMember(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", models.LoansToResponse(loans))
}
