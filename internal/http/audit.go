package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/entities"
)

type AuditController struct {
	events AuditReader
}

func NewAuditController(events AuditReader) *AuditController {
	return &AuditController{events: events}
}

// GetAuditEvents returns a page of audit events, newest first, optionally
// filtered by type.
// GET /audit?type=&page=&limit=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	page, limit := parsePage(c)
	if limit > maxLimit {
		limit = maxLimit
	}
	eventType := entities.AuditEventType(c.Query("type"))

	events, total, err := ac.events.GetEvents(c.Request.Context(), eventType, limit, offsetFor(page, limit))
	if err != nil {
		respondError(c, err, "list audit events")
		return
	}
	respondPage(c, "Audit events retrieved", events, total, page, limit)
}

// GetBorrowerHistory returns every checkout and return attempt recorded
// for a borrower, oldest first.
// GET /audit/borrowers/:borrowerId
func (ac *AuditController) GetBorrowerHistory(c *gin.Context) {
	borrowerID, ok := parseIDParam(c, "borrowerId")
	if !ok {
		return
	}

	events, err := ac.events.GetEventsForBorrower(c.Request.Context(), borrowerID)
	if err != nil {
		respondError(c, err, "list borrower history")
		return
	}
	if len(events) == 0 {
		respondOK(c, "No history found", []entities.AuditEvent{})
		return
	}
	respondOK(c, "Borrower history retrieved", events)
}
