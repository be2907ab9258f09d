package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/partsdesk/autoparts_backend/config"
	"github.com/partsdesk/autoparts_backend/utils"
)

// respondError maps domain errors to HTTP statuses. Anything unrecognized is
// logged and returned as a generic 500 so internals never leak to callers.
func respondError(c *gin.Context, moduleName string, funcName string, err error) {
	var validationErr *utils.ValidationError
	var stateErr *utils.IllegalStateError
	var stockErr *utils.InsufficientStockError
	var bindingErrs validator.ValidationErrors

	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorAlreadyCancelled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": stateErr.Error()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        stockErr.Error(),
			"product_id":   stockErr.ProductId,
			"product_name": stockErr.ProductName,
			"requested":    stockErr.Requested,
			"available":    stockErr.Available,
			"shortfall":    stockErr.Shortfall(),
		})
	case errors.As(err, &bindingErrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": utils.ProcessValidationErrors(bindingErrs)})
	default:
		logger := config.GetLogger()
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(logger, moduleName, funcName, "Unhandled error", cid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
