package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/circulation"
)

type BorrowingsController struct {
	circulation Circulation
}

func NewBorrowingsController(circ Circulation) *BorrowingsController {
	return &BorrowingsController{circulation: circ}
}

type CheckoutRequest struct {
	BookID     uint   `json:"bookId" binding:"required"`
	BorrowerID uint   `json:"borrowerId" binding:"required"`
	DueDate    string `json:"dueDate" binding:"required,future"`
}

type ReturnRequest struct {
	BookID     uint `json:"bookId" binding:"required"`
	BorrowerID uint `json:"borrowerId" binding:"required"`
}

// Checkout lends a copy of a book to a borrower.
// POST /borrowings
func (bc *BorrowingsController) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	due, err := circulation.ParseDueDate(req.DueDate)
	if err != nil {
		respondError(c, err, "parse due date")
		return
	}

	borrowing, err := bc.circulation.Checkout(c.Request.Context(), req.BookID, req.BorrowerID, due)
	if err != nil {
		respondError(c, err, "checkout")
		return
	}
	respondCreated(c, "Check-out successful", borrowing)
}

// Return closes the borrower's open loan of a book.
// PATCH /borrowings
func (bc *BorrowingsController) Return(c *gin.Context) {
	var req ReturnRequest
	if !bindJSON(c, &req) {
		return
	}

	borrowing, err := bc.circulation.Return(c.Request.Context(), req.BookID, req.BorrowerID)
	if err != nil {
		respondError(c, err, "return")
		return
	}
	respondOK(c, "Book status updated", borrowing)
}

// BorrowedBooks lists the books a borrower currently holds.
// GET /borrowings/borrowed/:borrowerId
func (bc *BorrowingsController) BorrowedBooks(c *gin.Context) {
	borrowerID, ok := parseIDParam(c, "borrowerId")
	if !ok {
		return
	}

	rows, err := bc.circulation.ListActiveBorrowings(c.Request.Context(), borrowerID)
	if err != nil {
		respondError(c, err, "list borrowed books")
		return
	}
	if len(rows) == 0 {
		respondOK(c, "No borrowed books found", rows)
		return
	}
	respondOK(c, "Borrowed books retrieved", rows)
}

// OverdueBooks lists loans past their due date.
// GET /borrowings/overdue
func (bc *BorrowingsController) OverdueBooks(c *gin.Context) {
	rows, err := bc.circulation.ListOverdue(c.Request.Context())
	if err != nil {
		respondError(c, err, "list overdue books")
		return
	}
	if len(rows) == 0 {
		respondOK(c, "No overdue books found", rows)
		return
	}
	respondOK(c, "Overdue books retrieved", rows)
}

// ExportReport writes a CSV report of loans borrowed inside the window and
// returns the path of the file.
// GET /borrowings/report?start=&end=
func (bc *BorrowingsController) ExportReport(c *gin.Context) {
	path, err := bc.circulation.ExportReport(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err, "export report")
		return
	}
	respondOK(c, "Report exported successfully", path)
}
