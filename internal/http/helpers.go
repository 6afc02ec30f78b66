package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/apperr"
)

// Envelope statuses. Client errors are "fail", server errors are "error".
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// --- Response Types ---

// Envelope is the response body of every API endpoint.
type Envelope struct {
	Status     string      `json:"status"`
	Message    string      `json:"message"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Page is the data of a paginated list, shaped as {count, rows}.
type Page struct {
	Count int64 `json:"count"`
	Rows  any   `json:"rows"`
}

// --- Success Response Helpers ---

// respondOK sends a 200 OK envelope.
func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// respondCreated sends a 201 Created envelope.
func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// respondPage sends a 200 OK envelope carrying one page of rows.
func respondPage(c *gin.Context, message string, rows any, total int64, page, limit int) {
	c.JSON(http.StatusOK, Envelope{
		Status:     StatusSuccess,
		Message:    message,
		Data:       Page{Count: total, Rows: rows},
		Pagination: &Pagination{Page: page, Limit: limit, Total: total},
	})
}

// --- Error Response Helpers ---

// respondFail sends a client error envelope with the given status code.
func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Status: StatusFail, Message: message})
}

// respondBadRequest sends a 400 Bad Request envelope.
func respondBadRequest(c *gin.Context, message string) {
	respondFail(c, http.StatusBadRequest, message)
}

// respondInternalError logs the error and sends a 500 envelope.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, Envelope{Status: StatusError, Message: "Internal server error"})
}

// respondError maps an error kind to its HTTP status. Errors without a kind
// are unexpected and reported as 500.
func respondError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		respondFail(c, http.StatusNotFound, apperr.Message(err, "Resource not found"))
	case errors.Is(err, apperr.ErrConflict):
		respondFail(c, http.StatusConflict, apperr.Message(err, "Request conflicts with current state"))
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConstraintViolation):
		respondBadRequest(c, apperr.Message(err, "Invalid request"))
	default:
		respondInternalError(c, err, context)
	}
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil {
		respondBadRequest(c, "ID must be a number")
		return 0, false
	}
	return uint(id), true
}

// parsePage reads page and limit query parameters. Non-numeric or
// non-positive values fall back to the defaults.
func parsePage(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

func offsetFor(page, limit int) int {
	return (page - 1) * limit
}
