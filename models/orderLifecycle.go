package models

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/partsdesk/autoparts_backend/config"
	"github.com/partsdesk/autoparts_backend/utils"
	"gorm.io/gorm/clause"
)

const stockLockType = "stockLock"

// stockRequirements collapses an order's items into total quantity needed per
// product, with product ids in ascending order so concurrent transitions lock
// rows in the same sequence.
func stockRequirements(items []OrderItem) (map[int]int, []int) {
	required := make(map[int]int, len(items))
	for _, item := range items {
		required[item.ProductId] += item.Quantity
	}
	ids := make([]int, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return required, ids
}

// ConvertQuoteToSale turns a quote into a sale, debiting stock for every line.
// All lines are validated against current stock before any debit is applied, so
// an order either converts fully or leaves stock untouched.
func ConvertQuoteToSale(ctx context.Context, orderId int) (*Order, error) {
	logger := config.GetLogger()

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	lock, err := utils.CompanyLock(ctx, companyId, stockLockType, "orderLifecycle.go", "ConvertQuoteToSale")
	if err != nil {
		return nil, err
	}
	defer utils.ReleaseLock(ctx, lock)

	db := config.GetDB()
	tx := db.Begin()

	var order Order
	if err := tx.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyId).
		First(&order, orderId).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if !order.Status.Convertible() {
		tx.Rollback()
		return nil, &utils.IllegalStateError{
			Current:  string(order.Status),
			Required: fmt.Sprintf("%s or %s", OrderStatusNewQuote, OrderStatusQuoteSent),
		}
	}

	required, productIds := stockRequirements(order.Items)

	// Lock every product row first, then validate every line before touching
	// stock. A single shortfall rolls the whole conversion back.
	products := make(map[int]*Product, len(productIds))
	for _, productId := range productIds {
		var product Product
		err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("company_id = ?", companyId).
			First(&product, productId).Error
		if err != nil {
			tx.Rollback()
			config.LogError(logger, "orderLifecycle.go", "ConvertQuoteToSale", "Product missing at conversion", productId, err)
			return nil, utils.ErrorRecordNotFound
		}
		products[productId] = &product
	}

	for _, productId := range productIds {
		product := products[productId]
		if product.StockQuantity < required[productId] {
			tx.Rollback()
			return nil, &utils.InsufficientStockError{
				ProductId:   product.ID,
				ProductName: product.Name,
				Requested:   required[productId],
				Available:   product.StockQuantity,
			}
		}
	}

	for _, productId := range productIds {
		product := products[productId]
		newStock := product.StockQuantity - required[productId]
		if err := tx.WithContext(ctx).Model(product).Update("StockQuantity", newStock).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.WithContext(ctx).Model(&order).Update("Status", OrderStatusSold).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	for _, productId := range productIds {
		_ = config.RemoveRedisKey(productCacheKey(productId))
	}

	order.Status = OrderStatusSold
	return &order, nil
}

// CancelOrder moves an order to the cancelled state. Stock debited at
// conversion is credited back; quotes that never sold leave stock alone.
// Cancelling twice is rejected.
func CancelOrder(ctx context.Context, orderId int) (*Order, error) {
	logger := config.GetLogger()

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	lock, err := utils.CompanyLock(ctx, companyId, stockLockType, "orderLifecycle.go", "CancelOrder")
	if err != nil {
		return nil, err
	}
	defer utils.ReleaseLock(ctx, lock)

	db := config.GetDB()
	tx := db.Begin()

	var order Order
	if err := tx.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyId).
		First(&order, orderId).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}

	if order.Status == OrderStatusCancelled {
		tx.Rollback()
		return nil, utils.ErrorAlreadyCancelled
	}

	wasSold := order.Status == OrderStatusSold
	var touched []int
	if wasSold {
		required, productIds := stockRequirements(order.Items)
		for _, productId := range productIds {
			var product Product
			err := tx.WithContext(ctx).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("company_id = ?", companyId).
				First(&product, productId).Error
			if err != nil {
				tx.Rollback()
				config.LogError(logger, "orderLifecycle.go", "CancelOrder", "Product missing at cancellation", productId, err)
				return nil, utils.ErrorRecordNotFound
			}
			newStock := product.StockQuantity + required[productId]
			if err := tx.WithContext(ctx).Model(&product).Update("StockQuantity", newStock).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
		touched = productIds
	}

	if err := tx.WithContext(ctx).Model(&order).Update("Status", OrderStatusCancelled).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	for _, productId := range touched {
		_ = config.RemoveRedisKey(productCacheKey(productId))
	}

	order.Status = OrderStatusCancelled
	return &order, nil
}

// UpdateOrderStatus routes a requested status through the guarded transitions.
// Raw status overwrites would skip stock side effects, so "Vendido" delegates
// to conversion, "Cancelado" to cancellation, and "Orçamento Enviado" is only
// reachable from a fresh quote.
func UpdateOrderStatus(ctx context.Context, orderId int, requested OrderStatus) (*Order, error) {
	switch requested {
	case OrderStatusSold:
		return ConvertQuoteToSale(ctx, orderId)
	case OrderStatusCancelled:
		return CancelOrder(ctx, orderId)
	case OrderStatusQuoteSent:
		return markQuoteSent(ctx, orderId)
	default:
		return nil, utils.NewValidationError("unsupported status transition to %q", requested)
	}
}

func markQuoteSent(ctx context.Context, orderId int) (*Order, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	order, err := utils.FetchModel[Order](ctx, companyId, orderId, "Items")
	if err != nil {
		return nil, err
	}
	if order.Status != OrderStatusNewQuote {
		return nil, &utils.IllegalStateError{
			Current:  string(order.Status),
			Required: string(OrderStatusNewQuote),
		}
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(order).Update("Status", OrderStatusQuoteSent).Error; err != nil {
		return nil, err
	}
	order.Status = OrderStatusQuoteSent
	return order, nil
}
