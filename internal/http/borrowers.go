package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

type BorrowersController struct {
	store BorrowerStore
}

func NewBorrowersController(store BorrowerStore) *BorrowersController {
	return &BorrowersController{store: store}
}

type CreateBorrowerRequest struct {
	Name  string `json:"name" binding:"required,min=3,max=50"`
	Email string `json:"email" binding:"required,email"`
}

func (r *CreateBorrowerRequest) trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

type UpdateBorrowerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=3,max=50"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (r *UpdateBorrowerRequest) trim() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		r.Email = &email
	}
}

func (r UpdateBorrowerRequest) fields() map[string]any {
	fields := make(map[string]any)
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	return fields
}

// ListBorrowers returns a page of borrowers. A limit above 100 is rejected.
// GET /borrowers?page=&limit=
func (bc *BorrowersController) ListBorrowers(c *gin.Context) {
	page, limit := parsePage(c)
	if limit > maxLimit {
		respondBadRequest(c, "Cannot exceed 100 borrowers")
		return
	}

	borrowers, total, err := bc.store.List(c.Request.Context(), limit, offsetFor(page, limit))
	if err != nil {
		respondError(c, err, "list borrowers")
		return
	}
	respondPage(c, "Borrowers retrieved", borrowers, total, page, limit)
}

// GetBorrower returns a single borrower.
// GET /borrowers/:id
func (bc *BorrowersController) GetBorrower(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrower, err := bc.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "get borrower")
		return
	}
	respondOK(c, "Borrower retrieved", borrower)
}

// CreateBorrower registers a borrower.
// POST /borrowers
func (bc *BorrowersController) CreateBorrower(c *gin.Context) {
	var req CreateBorrowerRequest
	if !bindJSON(c, &req) {
		return
	}

	borrower := &entities.Borrower{Name: req.Name, Email: req.Email}
	if err := bc.store.Create(c.Request.Context(), borrower); err != nil {
		respondError(c, err, "create borrower")
		return
	}
	respondCreated(c, "Borrower created", borrower)
}

// UpdateBorrower applies a partial update to a borrower.
// PATCH /borrowers/:id
func (bc *BorrowersController) UpdateBorrower(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBorrowerRequest
	if !bindJSON(c, &req) {
		return
	}

	borrower, err := bc.store.Update(c.Request.Context(), id, req.fields())
	if err != nil {
		respondError(c, err, "update borrower")
		return
	}
	respondOK(c, "Borrower updated", borrower)
}

// DeleteBorrower soft deletes a borrower.
// DELETE /borrowers/:id
func (bc *BorrowersController) DeleteBorrower(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrower, err := bc.store.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "delete borrower")
		return
	}
	respondOK(c, "Borrower deleted", borrower)
}
