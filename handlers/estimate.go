package handlers

import (
	"errors"
	"log"
	"net/http"

	"delivery-eta-api/features"
	"delivery-eta-api/services"

	"github.com/gin-gonic/gin"
)

type EstimateHandler struct {
	estimator *services.EstimatorService
	board     *services.LoadBoard
}

func NewEstimateHandler(estimator *services.EstimatorService, board *services.LoadBoard) *EstimateHandler {
	return &EstimateHandler{estimator: estimator, board: board}
}

func (h *EstimateHandler) Create(c *gin.Context) {
	var in features.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if h.board != nil {
		h.board.Fill(ctx, &in)
	}

	order, err := in.RawOrder()
	if err != nil {
		writeOrderError(c, err)
		return
	}

	est, err := h.estimator.Estimate(ctx, order)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, est)
}

func (h *EstimateHandler) GetSchema(c *gin.Context) {
	vocab := h.estimator.Vocabulary()
	categories := make(map[string][]string)
	for _, field := range features.CategoricalFields() {
		categories[field] = vocab.Values(field)
	}

	c.JSON(http.StatusOK, gin.H{
		"model_version": h.estimator.ModelVersion(),
		"variant":       h.estimator.Variant(),
		"features":      h.estimator.Schema().Names(),
		"categories":    categories,
	})
}

// writeOrderError rejects a single request. Input problems are 422; anything
// else is the model's fault.
func writeOrderError(c *gin.Context, err error) {
	var (
		missing *features.MissingFieldError
		domain  *features.NumericDomainError
		format  *features.FieldFormatError
	)
	switch {
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": missing.Field})
	case errors.As(err, &domain):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": domain.Field})
	case errors.As(err, &format):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "field": format.Field})
	default:
		log.Printf("estimate failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "estimate failed"})
	}
}
