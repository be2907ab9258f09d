package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/partsdesk/autoparts_backend/models"
)

type stockAdjustmentRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func searchParams(c *gin.Context) (*string, int, int) {
	var search *string
	if s := c.Query("search"); s != "" {
		search = &s
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	return search, offset, limit
}

func createProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager, models.UserRoleAds) {
			return
		}
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, "products_http.go", "createProductHandler", err)
			return
		}
		product, err := models.CreateProduct(c.Request.Context(), &input)
		if err != nil {
			respondError(c, "products_http.go", "createProductHandler", err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func listProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		search, offset, limit := searchParams(c)
		products, err := models.GetProducts(c.Request.Context(), search, offset, limit)
		if err != nil {
			respondError(c, "products_http.go", "listProductsHandler", err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		product, err := models.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, "products_http.go", "getProductHandler", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func updateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager, models.UserRoleAds) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var input models.UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, "products_http.go", "updateProductHandler", err)
			return
		}
		product, err := models.UpdateProduct(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, "products_http.go", "updateProductHandler", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		product, err := models.DeleteProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, "products_http.go", "deleteProductHandler", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// adjustProductStockHandler applies a signed stock delta. Results below zero
// clamp at zero; order conversion does not use this path.
func adjustProductStockHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireRole(c, models.UserRoleManager, models.UserRoleAds) {
			return
		}
		id, ok := pathId(c)
		if !ok {
			return
		}
		var req stockAdjustmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, "products_http.go", "adjustProductStockHandler", err)
			return
		}
		product, err := models.AdjustProductStock(c.Request.Context(), id, req.Delta)
		if err != nil {
			respondError(c, "products_http.go", "adjustProductStockHandler", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
