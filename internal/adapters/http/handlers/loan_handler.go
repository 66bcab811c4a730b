package handlers

import (
	"strconv"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/services"
	"library-lending/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles lending endpoints
type LoanHandler struct {
	lendingService *services.LendingService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(lendingService *services.LendingService) *LoanHandler {
	return &LoanHandler{
		lendingService: lendingService,
	}
}

// IssueRequest represents issue book request body
type IssueRequest struct {
	BookID   uint `json:"book_id"`
	MemberID uint `json:"member_id"`
}

// Issue handles lending a book to a member
// @Summary Issue book
// @Description Accepts a JSON body or the bookId and memberId query parameters
// @Tags Loans
// @Accept json
// @Produce json
// @Param body body IssueRequest false "Issue data"
// @Param bookId query int false "Book ID"
// @Param memberId query int false "Member ID"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/issue [post]
func (h *LoanHandler) Issue(c *fiber.Ctx) error {
	var req IssueRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}
	if req.BookID == 0 {
		req.BookID = queryID(c, "bookId")
	}
	if req.MemberID == 0 {
		req.MemberID = queryID(c, "memberId")
	}
	if req.BookID == 0 || req.MemberID == 0 {
		return response.BadRequest(c, "book_id and member_id are required")
	}

	loan, err := h.lendingService.Issue(c.UserContext(), req.BookID, req.MemberID)
	if err != nil {
		return respondError(c, err, "Failed to issue book")
	}

	return response.Created(c, "Book issued successfully", loan.ToResponse())
}

// Return handles returning a book
// @Summary Return book
// @Description Closes the loan and charges a fine for each day past the due date
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/return [put]
func (h *LoanHandler) Return(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.lendingService.Return(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to return book")
	}

	return response.Success(c, "Book returned successfully", loan.ToResponse())
}

// ListAll handles listing every loan
// @Summary List loans
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) ListAll(c *fiber.Ctx) error {
	loans, err := h.lendingService.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", models.LoansToResponse(loans))
}

// GetByID handles getting a loan
// @Summary Get loan by ID
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.lendingService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", loan.ToResponse())
}

// ListOverdue handles listing overdue loans
// @Summary List overdue loans
// @Description Marks ISSUED loans past their due date as OVERDUE, then lists every OVERDUE loan
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Response
// @Router /loans/overdue [get]
func (h *LoanHandler) ListOverdue(c *fiber.Ctx) error {
	loans, err := h.lendingService.ListOverdue(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to list overdue loans")
	}

	return response.Success(c, "Overdue loans retrieved successfully", models.LoansToResponse(loans))
}

// ListByStatus handles listing loans by status
// @Summary List loans by status
// @Tags Loans
// @Produce json
// @Param status path string true "ISSUED, OVERDUE or RETURNED"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans/status/{status} [get]
func (h *LoanHandler) ListByStatus(c *fiber.Ctx) error {
	loans, err := h.lendingService.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", models.LoansToResponse(loans))
}

// ListByMember handles listing loans of a member
// @Summary List loans by member
// @Tags Loans
// @Produce json
// @Param memberId path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /loans/member/{memberId} [get]
func (h *LoanHandler) ListByMember(c *fiber.Ctx) error {
	memberID, ok := parseID(c, "memberId")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	loans, err := h.lendingService.ListByMember(c.UserContext(), memberID)
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", models.LoansToResponse(loans))
}

// ListActiveByMember handles listing ISSUED loans of a member
// @Summary List active loans by member
// @Tags Loans
// @Produce json
// @Param memberId path int true "Member ID"
// @Success 200 {object} response.Response
// @Router /loans/member/{memberId}/active [get]
func (h *LoanHandler) ListActiveByMember(c *fiber.Ctx) error {
	memberID, ok := parseID(c, "memberId")
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	loans, err := h.lendingService.ListActiveByMember(c.UserContext(), memberID)
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", models.LoansToResponse(loans))
}

// ListByBook handles listing loans of a book
// @Summary List loans by book
// @Tags Loans
// @Produce json
// @Param bookId path int true "Book ID"
// @Success 200 {object} response.Response
// @Router /loans/book/{bookId} [get]
func (h *LoanHandler) ListByBook(c *fiber.Ctx) error {
	bookID, ok := parseID(c, "bookId")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	loans, err := h.lendingService.ListByBook(c.UserContext(), bookID)
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", models.LoansToResponse(loans))
}

// ListActiveByBook handles listing ISSUED loans of a book
// @Summary List active loans by book
// @Tags Loans
// @Produce json
// @Param bookId path int true "Book ID"
// @Success 200 {object} response.Response
// @Router /loans/book/{bookId}/active [get]
func (h *LoanHandler) ListActiveByBook(c *fiber.Ctx) error {
	bookID, ok := parseID(c, "bookId")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	loans, err := h.lendingService.ListActiveByBook(c.UserContext(), bookID)
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", models.LoansToResponse(loans))
}

// queryID reads a positive numeric query parameter, 0 when absent or invalid
func queryID(c *fiber.Ctx, name string) uint {
	id, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
