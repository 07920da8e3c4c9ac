package handlers

import (
	"net/http"
	"strconv"

	"delivery-eta-api/services"

	"github.com/gin-gonic/gin"
)

type LoadHandler struct {
	board *services.LoadBoard
}

func NewLoadHandler(board *services.LoadBoard) *LoadHandler {
	return &LoadHandler{board: board}
}

func (h *LoadHandler) GetLatest(c *gin.Context) {
	marketID, err := strconv.Atoi(c.Param("market_id"))
	if err != nil || marketID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid market_id, must be a positive integer"})
		return
	}

	snap, ok := h.board.Latest(c.Request.Context(), marketID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recent load snapshot for market"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
