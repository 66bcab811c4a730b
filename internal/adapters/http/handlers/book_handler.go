package handlers

import (
	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/services"
	"library-lending/internal/pkg/pagination"
	"library-lending/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService    *services.BookService
	lendingService *services.LendingService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService, lendingService *services.LendingService) *BookHandler {
	return &BookHandler{
		bookService:    bookService,
		lendingService: lendingService,
	}
}

// Create handles adding a book
// @Summary Create book
// @Description Add a book to the catalog. available_copies defaults to total_copies.
// @Tags Books
// @Accept json
// @Produce json
// @Param body body services.BookInput true "Book data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req services.BookInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "Failed to create book")
	}

	return response.Created(c, "Book created successfully", book)
}

// List handles listing books
// @Summary List books
// @Tags Books
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.bookService.List(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return respondError(c, err, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", pagination.NewResponse(result.Books, params, result.Total))
}

// GetByID handles getting a book
// @Summary Get book by ID
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/{id} [get]
func (h *BookHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// GetByISBN handles getting a book by ISBN
// @Summary Get book by ISBN
// @Tags Books
// @Produce json
// @Param isbn path string true "ISBN"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /books/isbn/{isbn} [get]
func (h *BookHandler) GetByISBN(c *fiber.Ctx) error {
	book, err := h.bookService.GetByISBN(c.UserContext(), c.Params("isbn"))
	if err != nil {
		return respondError(c, err, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// Update handles updating a book
// @Summary Update book
// @Description Changing total_copies keeps the copies on loan unchanged.
// @Tags Books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param body body services.BookInput true "Book data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req services.BookInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err, "Failed to update book")
	}

	return response.Success(c, "Book updated successfully", book)
}

// Delete handles deleting a book
// @Summary Delete book
// @Description Refused while the book has ISSUED or OVERDUE loans.
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, "Failed to delete book")
	}

	return response.Success(c, "Book deleted successfully", nil)
}

// Search handles searching books by title and author
// @Summary Search books
// @Tags Books
// @Produce json
// @Param title query string false "Title contains"
// @Param author query string false "Author contains"
// @Success 200 {object} response.Response
// @Router /books/search [get]
func (h *BookHandler) Search(c *fiber.Ctx) error {
	books, err := h.bookService.Search(c.UserContext(), c.Query("title"), c.Query("author"))
	if err != nil {
		return respondError(c, err, "Failed to search books")
	}

	return response.Success(c, "Books retrieved successfully", books)
}

// SearchByKeyword handles keyword search
// @Summary Search books by keyword
// @Tags Books
// @Produce json
// @Param keyword query string true "Keyword"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /books/search/keyword [get]
func (h *BookHandler) SearchByKeyword(c *fiber.Ctx) error {
	books, err := h.bookService.SearchByKeyword(c.UserContext(), c.Query("keyword"))
	if err != nil {
		return respondError(c, err, "Failed to search books")
	}

	return response.Success(c, "Books retrieved successfully", books)
}

// ListAvailable handles listing books on the shelf
// @Summary List available books
// @Tags Books
// @Produce json
// @Success 200 {object} response.Response
// @Router /books/available [get]
func (h *BookHandler) ListAvailable(c *fiber.Ctx) error {
	books, err := h.bookService.ListAvailable(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to list available books")
	}

	return response.Success(c, "Books retrieved successfully", books)
}

// ListLoans handles listing the loan history of a book
// @Summary List loans of a book
// @Tags Books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} response.Response
// @Router /books/{id}/loans [get]
func (h *BookHandler) ListLoans(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	loans, err := h.lendingService.ListByBook(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", models.LoansToResponse(loans))
}
