package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/partsdesk/autoparts_backend/config"
	"github.com/partsdesk/autoparts_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Product struct {
	ID            int              `gorm:"primary_key" json:"id"`
	Name          string           `gorm:"size:255;not null;index" json:"name" binding:"required"`
	Description   string           `gorm:"type:text" json:"description"`
	Sku           string           `gorm:"size:100;not null;index:idx_product_company_sku" json:"sku"`
	PartNumber    string           `gorm:"size:100;index" json:"part_number"`
	Brand         string           `gorm:"size:100;index" json:"brand"`
	CostPrice     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"cost_price"`
	SalePrice     decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"sale_price" binding:"required"`
	StockQuantity int              `gorm:"not null;default:0" json:"stock_quantity"`
	Weight        *decimal.Decimal `gorm:"type:decimal(10,3)" json:"weight"`
	Height        *decimal.Decimal `gorm:"type:decimal(10,2)" json:"height"`
	Width         *decimal.Decimal `gorm:"type:decimal(10,2)" json:"width"`
	Length        *decimal.Decimal `gorm:"type:decimal(10,2)" json:"length"`
	CompanyId     int              `gorm:"not null;index:idx_product_company_sku" json:"company_id"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	Sku           string           `json:"sku"`
	PartNumber    string           `json:"part_number"`
	Brand         string           `json:"brand"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	SalePrice     decimal.Decimal  `json:"sale_price" binding:"required"`
	StockQuantity int              `json:"stock_quantity"`
	Weight        *decimal.Decimal `json:"weight"`
	Height        *decimal.Decimal `json:"height"`
	Width         *decimal.Decimal `json:"width"`
	Length        *decimal.Decimal `json:"length"`
}

type UpdateProductInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	PartNumber  *string          `json:"part_number"`
	Brand       *string          `json:"brand"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	Weight      *decimal.Decimal `json:"weight"`
	Height      *decimal.Decimal `json:"height"`
	Width       *decimal.Decimal `json:"width"`
	Length      *decimal.Decimal `json:"length"`
}

func productCacheKey(id int) string {
	return fmt.Sprintf("Product:%d", id)
}

// generateUniqueSku retries until the generated SKU is free within the company.
func generateUniqueSku(ctx context.Context, companyId int) (string, error) {
	for {
		sku := utils.GenerateSku()
		count, err := utils.ResourceCountWhere[Product](ctx, companyId, "sku = ?", sku)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return sku, nil
		}
	}
}

func (input NewProduct) validate() error {
	if !input.SalePrice.IsPositive() {
		return utils.NewValidationError("sale price must be greater than zero")
	}
	if input.StockQuantity < 0 {
		return utils.NewValidationError("stock quantity must not be negative")
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	sku := input.Sku
	if sku == "" {
		var err error
		sku, err = generateUniqueSku(ctx, companyId)
		if err != nil {
			return nil, err
		}
	} else {
		count, err := utils.ResourceCountWhere[Product](ctx, companyId, "sku = ?", sku)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, utils.NewValidationError("a product with sku %q already exists", sku)
		}
	}

	product := Product{
		Name:          input.Name,
		Description:   input.Description,
		Sku:           sku,
		PartNumber:    input.PartNumber,
		Brand:         input.Brand,
		CostPrice:     input.CostPrice,
		SalePrice:     input.SalePrice,
		StockQuantity: input.StockQuantity,
		Weight:        input.Weight,
		Height:        input.Height,
		Width:         input.Width,
		Length:        input.Length,
		CompanyId:     companyId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *UpdateProductInput) (*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	product, err := utils.FetchModel[Product](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	if input.SalePrice != nil && !input.SalePrice.IsPositive() {
		return nil, utils.NewValidationError("sale price must be greater than zero")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PartNumber != nil {
		product.PartNumber = *input.PartNumber
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.CostPrice != nil {
		product.CostPrice = input.CostPrice
	}
	if input.SalePrice != nil {
		product.SalePrice = *input.SalePrice
	}
	if input.Weight != nil {
		product.Weight = input.Weight
	}
	if input.Height != nil {
		product.Height = input.Height
	}
	if input.Width != nil {
		product.Width = input.Width
	}
	if input.Length != nil {
		product.Length = input.Length
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(productCacheKey(id))
	return product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	var cached Product
	exists, err := config.GetRedisObject(productCacheKey(id), &cached)
	if err == nil && exists && cached.CompanyId == companyId {
		return &cached, nil
	}

	product, err := utils.FetchModel[Product](ctx, companyId, id)
	if err != nil {
		return nil, err
	}
	_ = config.SetRedisObject(productCacheKey(id), product, utils.GetCacheLifespan())
	return product, nil
}

func GetProductBySku(ctx context.Context, sku string) (*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).
		Where("company_id = ? AND sku = ?", companyId, sku).
		First(&product).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &product, nil
}

func GetProducts(ctx context.Context, search *string, offset int, limit int) ([]*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("company_id = ?", companyId)
	if search != nil && len(*search) > 0 {
		like := "%" + *search + "%"
		dbCtx = dbCtx.Where("name LIKE ? OR sku LIKE ? OR part_number LIKE ? OR brand LIKE ?", like, like, like, like)
	}

	var results []*Product
	err := dbCtx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	product, err := utils.FetchModel[Product](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[OrderItem](ctx, 0, "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewValidationError("product appears on %d order items and cannot be deleted", count)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(product).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey(productCacheKey(id))
	return product, nil
}

// AdjustProductStock applies stock_quantity += delta, clamping the result at
// zero. This is the generic path used by stock edits and marketplace webhook
// notifications; the order-conversion path pre-validates sufficiency and never
// relies on the clamp.
func AdjustProductStock(ctx context.Context, id int, delta int) (*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	tx := db.Begin()

	var product Product
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ?", companyId).
		First(&product, id).Error
	if err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}

	newStock := product.StockQuantity + delta
	if newStock < 0 {
		newStock = 0 // Prevent negative stock
	}

	if err := tx.WithContext(ctx).Model(&product).Update("StockQuantity", newStock).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	product.StockQuantity = newStock
	_ = config.RemoveRedisKey(productCacheKey(id))
	return &product, nil
}
