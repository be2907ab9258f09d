package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/partsdesk/autoparts_backend/models"
)

type webhookOrderItem struct {
	Sku      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

type webhookOrderProcessedRequest struct {
	ExternalOrderId string             `json:"external_order_id"`
	Items           []webhookOrderItem `json:"items" binding:"required"`
}

type webhookItemResult struct {
	Sku       string `json:"sku"`
	Ok        bool   `json:"ok"`
	NewStock  *int   `json:"new_stock,omitempty"`
	Error     string `json:"error,omitempty"`
	ProductId *int   `json:"product_id,omitempty"`
}

// webhookOrderProcessedHandler applies marketplace sale notifications to local
// stock, SKU by SKU. One bad line does not fail the batch: each item reports
// its own outcome and the marketplace reconciles from the per-item results.
func webhookOrderProcessedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager) {
			return
		}

		var req webhookOrderProcessedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, "webhooks_http.go", "webhookOrderProcessedHandler", err)
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "items are required"})
			return
		}

		ctx := c.Request.Context()
		results := make([]webhookItemResult, 0, len(req.Items))
		for _, item := range req.Items {
			result := webhookItemResult{Sku: item.Sku}
			if item.Quantity <= 0 {
				result.Error = "quantity must be greater than zero"
				results = append(results, result)
				continue
			}

			product, err := models.GetProductBySku(ctx, item.Sku)
			if err != nil {
				result.Error = "product not found"
				results = append(results, result)
				continue
			}
			result.ProductId = &product.ID

			updated, err := models.AdjustProductStock(ctx, product.ID, -item.Quantity)
			if err != nil {
				result.Error = err.Error()
				results = append(results, result)
				continue
			}
			result.Ok = true
			result.NewStock = &updated.StockQuantity
			results = append(results, result)
		}

		c.JSON(http.StatusOK, gin.H{
			"external_order_id": req.ExternalOrderId,
			"results":           results,
		})
	}
}

// webhookHealthHandler lets the marketplace probe the webhook surface with the
// same credentials it delivers notifications with.
func webhookHealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
