package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/partsdesk/autoparts_backend/docrender"
	"github.com/partsdesk/autoparts_backend/middlewares"
	"github.com/partsdesk/autoparts_backend/models"
	"github.com/partsdesk/autoparts_backend/utils"
)

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// canAccessOrder enforces ownership: salespeople only see orders assigned to
// them, managers and ads see everything in the company.
func canAccessOrder(claims *utils.JwtCustomClaim, order *models.Order) bool {
	if claims.Role == string(models.UserRoleSalesperson) {
		return order.UserId == claims.ID
	}
	return true
}

func createOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		var input models.NewOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, "orders_http.go", "createOrderHandler", err)
			return
		}
		// Salespeople can only open quotes under their own name.
		if claims.Role == string(models.UserRoleSalesperson) && input.UserId != claims.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		order, err := models.CreateOrder(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "orders_http.go", "createOrderHandler", err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())

		var filter models.OrderFilter
		if s := c.Query("status"); s != "" {
			status, err := models.ParseOrderStatus(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			filter.Status = &status
		}
		if s := c.Query("client_id"); s != "" {
			id, err := strconv.Atoi(s)
			if err != nil || id <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
				return
			}
			filter.ClientId = &id
		}
		if s := c.Query("user_id"); s != "" {
			id, err := strconv.Atoi(s)
			if err != nil || id <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
				return
			}
			filter.UserId = &id
		}
		filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
		filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

		// Salespeople are pinned to their own orders regardless of the filter.
		if claims.Role == string(models.UserRoleSalesperson) {
			filter.UserId = &claims.ID
		}

		summaries, err := models.GetOrderSummaries(c.Request.Context(), filter)
		if err != nil {
			respondError(c, "orders_http.go", "listOrdersHandler", err)
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

func getOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		id, ok := pathId(c)
		if !ok {
			return
		}
		details, err := models.GetOrderWithDetails(c.Request.Context(), id)
		if err != nil {
			respondError(c, "orders_http.go", "getOrderHandler", err)
			return
		}
		if !canAccessOrder(claims, &details.Order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.JSON(http.StatusOK, details)
	}
}

func updateOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		id, ok := pathId(c)
		if !ok {
			return
		}
		order, err := models.GetOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, "orders_http.go", "updateOrderHandler", err)
			return
		}
		if !canAccessOrder(claims, order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		var input models.UpdateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, "orders_http.go", "updateOrderHandler", err)
			return
		}
		updated, err := models.UpdateOrder(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, "orders_http.go", "updateOrderHandler", err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func updateOrderStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req orderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, "orders_http.go", "updateOrderStatusHandler", err)
			return
		}
		requested, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := models.GetOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, "orders_http.go", "updateOrderStatusHandler", err)
			return
		}
		if !canAccessOrder(claims, order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		updated, err := models.UpdateOrderStatus(c.Request.Context(), id, requested)
		if err != nil {
			respondError(c, "orders_http.go", "updateOrderStatusHandler", err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func convertOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		id, ok := pathId(c)
		if !ok {
			return
		}
		order, err := models.GetOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, "orders_http.go", "convertOrderHandler", err)
			return
		}
		if !canAccessOrder(claims, order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		converted, err := models.ConvertQuoteToSale(c.Request.Context(), id)
		if err != nil {
			respondError(c, "orders_http.go", "convertOrderHandler", err)
			return
		}
		c.JSON(http.StatusOK, converted)
	}
}

func cancelOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		id, ok := pathId(c)
		if !ok {
			return
		}
		order, err := models.GetOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, "orders_http.go", "cancelOrderHandler", err)
			return
		}
		if !canAccessOrder(claims, order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		cancelled, err := models.CancelOrder(c.Request.Context(), id)
		if err != nil {
			respondError(c, "orders_http.go", "cancelOrderHandler", err)
			return
		}
		c.JSON(http.StatusOK, cancelled)
	}
}

func orderPdfHandler(renderer docrender.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middlewares.CtxValue(c.Request.Context())
		id, ok := pathId(c)
		if !ok {
			return
		}
		details, err := models.GetOrderWithDetails(c.Request.Context(), id)
		if err != nil {
			respondError(c, "orders_http.go", "orderPdfHandler", err)
			return
		}
		if !canAccessOrder(claims, &details.Order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		payload := docrender.QuotePayload{
			OrderId:     details.ID,
			Status:      string(details.Status),
			CompanyName: details.CompanyName,
			ClientName:  details.ClientName,
			SellerName:  details.UserName,
			CreatedAt:   details.CreatedAt,
			TotalAmount: details.TotalAmount,
		}
		for _, item := range details.Items {
			line := docrender.QuoteLine{
				ProductId: item.ProductId,
				Quantity:  item.Quantity,
				UnitPrice: item.SalePrice,
				LineTotal: item.LineTotal(),
			}
			// Description is best effort; the product may have been renamed
			// since the quote was issued.
			if product, err := models.GetProduct(c.Request.Context(), item.ProductId); err == nil {
				line.Description = fmt.Sprintf("%s (%s)", product.Name, product.Sku)
			}
			payload.Lines = append(payload.Lines, line)
		}

		pdf, err := renderer.RenderQuote(c.Request.Context(), payload)
		if err == docrender.ErrNotConfigured {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "document rendering is not available"})
			return
		}
		if err != nil {
			respondError(c, "orders_http.go", "orderPdfHandler", err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=order-%d.pdf", details.ID))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}
