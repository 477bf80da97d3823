package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/tourbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type PackageHandler struct {
	service booking.BookingUseCase
}

type availabilityResponse struct {
	PackageID int64 `json:"package_id"`
	PartySize int   `json:"party_size"`
	Available bool  `json:"available"`
}

func NewPackageHandler(service booking.BookingUseCase) *PackageHandler {
	return &PackageHandler{service: service}
}

func (h *PackageHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/availability", h.availability)
}

func (h *PackageHandler) availability(c *gin.Context) {
	packageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package id"})
		return
	}

	partySize, err := strconv.Atoi(c.DefaultQuery("party_size", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid party_size"})
		return
	}

	available, err := h.service.GetAvailability(c.Request.Context(), packageID, partySize)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, availabilityResponse{
		PackageID: packageID,
		PartySize: partySize,
		Available: available,
	})
}
