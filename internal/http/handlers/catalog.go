package handlers

import (
	"net/http"
	"strconv"

	"github.com/bassy1992/tailsandtrails-sub000/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/destinations
func GetDestinations(c *gin.Context) {
	repo := repositories.CatalogRepository{}
	out, err := repo.ListDestinations(c.Query("category"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"destinations": out})
}

// GET /api/destinations/:id
func GetDestinationByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}

	repo := repositories.CatalogRepository{}
	dest, err := repo.GetDestinationByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	tiers, err := repo.ListPricingTiers(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"destination": dest, "pricing_tiers": tiers})
}

// GET /api/tickets
func GetTickets(c *gin.Context) {
	repo := repositories.CatalogRepository{}
	out, err := repo.ListTickets()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": out})
}

// GET /api/tickets/:id
func GetTicketByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}

	repo := repositories.CatalogRepository{}
	ticket, err := repo.GetTicketByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// GET /api/categories
func GetCategories(c *gin.Context) {
	repo := repositories.CatalogRepository{}
	out, err := repo.ListCategories()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// GET /api/gallery
func GetGallery(c *gin.Context) {
	var destinationID int64
	if raw := c.Query("destination_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid destination_id", err)
			return
		}
		destinationID = id
	}

	repo := repositories.CatalogRepository{}
	out, err := repo.ListGallery(destinationID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": out})
}
