package handlers

import (
	"net/http"
	"strconv"

	"github.com/bassy1992/tailsandtrails-sub000/internal/http/middleware"
	"github.com/bassy1992/tailsandtrails-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/destinations/:id/addons
func GetDestinationAddOns(c *gin.Context) {
	resolveAddOns(c, services.ItemTypeDestination)
}

// GET /api/tickets/:id/addons
func GetTicketAddOns(c *gin.Context) {
	resolveAddOns(c, services.ItemTypeTicket)
}

func resolveAddOns(c *gin.Context, itemType string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}

	svc := services.AddOnService{RequestID: middleware.GetRequestID(c)}
	categories, err := svc.Resolve(id, itemType)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	// defaults are applied server-side so the storefront can render the
	// initial selection without re-deriving the rules
	adults := 1
	if raw := c.Query("adults"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			adults = n
		}
	}
	defaults := services.NewSelection(categories, adults)

	c.JSON(http.StatusOK, gin.H{
		"categories":    categories,
		"default_lines": defaults.Lines(),
		"default_total": defaults.Total(),
	})
}
