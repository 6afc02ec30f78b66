package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type CreateBookRequest struct {
	Title             string  `json:"title" binding:"required,min=3,max=100"`
	Author            string  `json:"author" binding:"required,min=3,max=100"`
	ISBN              string  `json:"isbn" binding:"required,len=13"`
	AvailableQuantity *int    `json:"availableQuantity" binding:"required,min=0"`
	ShelfLocation     *string `json:"shelfLocation" binding:"omitempty"`
}

// UpdateBookRequest carries a partial update; absent fields are left unchanged.
type UpdateBookRequest struct {
	Title             *string `json:"title" binding:"omitempty,min=3,max=100"`
	Author            *string `json:"author" binding:"omitempty,min=3,max=100"`
	ISBN              *string `json:"isbn" binding:"omitempty,len=13"`
	AvailableQuantity *int    `json:"availableQuantity" binding:"omitempty,min=0"`
	ShelfLocation     *string `json:"shelfLocation" binding:"omitempty"`
}

func (r UpdateBookRequest) fields() map[string]any {
	fields := make(map[string]any)
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Author != nil {
		fields["author"] = *r.Author
	}
	if r.ISBN != nil {
		fields["isbn"] = *r.ISBN
	}
	if r.AvailableQuantity != nil {
		fields["available_quantity"] = *r.AvailableQuantity
	}
	if r.ShelfLocation != nil {
		fields["shelf_location"] = *r.ShelfLocation
	}
	return fields
}

// ListBooks returns a page of books. The limit is capped at 100.
// GET /books?page=&limit=
func (bc *BooksController) ListBooks(c *gin.Context) {
	page, limit := parsePage(c)
	if limit > maxLimit {
		limit = maxLimit
	}

	books, total, err := bc.store.List(c.Request.Context(), limit, offsetFor(page, limit))
	if err != nil {
		respondError(c, err, "list books")
		return
	}
	respondPage(c, "Books retrieved successfully", books, total, page, limit)
}

// GetBook returns a single book.
// GET /books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get book")
		return
	}
	respondOK(c, "Book retrieved successfully", book)
}

// CreateBook adds a book to the catalogue.
// POST /books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	book := &entities.Book{
		Title:             req.Title,
		Author:            req.Author,
		ISBN:              req.ISBN,
		AvailableQuantity: *req.AvailableQuantity,
	}
	if req.ShelfLocation != nil {
		book.ShelfLocation = *req.ShelfLocation
	}

	if err := bc.store.Create(c.Request.Context(), book); err != nil {
		respondError(c, err, "create book")
		return
	}
	respondCreated(c, "Book created successfully", book)
}

// UpdateBook applies a partial update to a book.
// PATCH /books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := bc.store.Update(c.Request.Context(), id, req.fields())
	if err != nil {
		respondError(c, err, "update book")
		return
	}
	respondOK(c, "Book updated successfully", book)
}

// DeleteBook removes a book together with its borrowing history.
// DELETE /books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "delete book")
		return
	}
	respondOK(c, "Book deleted", book)
}
