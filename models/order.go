package models

import (
	"context"
	"errors"
	"time"

	"github.com/partsdesk/autoparts_backend/config"
	"github.com/partsdesk/autoparts_backend/utils"
	"github.com/shopspring/decimal"
)

// Order is a quote or sale. The total is computed once at creation from the
// request's unit prices (negotiated prices may differ from the catalog) and is
// never recomputed; line items are immutable after creation.
type Order struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Status      OrderStatus     `gorm:"type:enum('Orçamento Novo','Orçamento Enviado','Vendido','Cancelado');not null;index:idx_order_company_status" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	ClientId    int             `gorm:"index;not null" json:"client_id"`
	UserId      int             `gorm:"index;not null" json:"user_id"`
	CompanyId   int             `gorm:"not null;index:idx_order_company_status" json:"company_id"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Items       []OrderItem     `gorm:"foreignKey:OrderId;constraint:OnDelete:CASCADE" json:"items"`
}

type OrderItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	OrderId   int             `gorm:"index;not null" json:"order_id"`
	ProductId int             `gorm:"index;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	SalePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`
}

// LineTotal is quantity * unit sale price, exact decimal.
func (item OrderItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(int64(item.Quantity)).Mul(item.SalePrice)
}

type NewOrderItem struct {
	ProductId int             `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	SalePrice decimal.Decimal `json:"sale_price" binding:"required"`
}

type NewOrder struct {
	ClientId int            `json:"client_id" binding:"required"`
	UserId   int            `json:"user_id" binding:"required"`
	Items    []NewOrderItem `json:"items" binding:"required"`
}

// UpdateOrderInput lists the only fields a generic order edit may change.
// Status changes go through UpdateOrderStatus so stock side effects are never
// skipped.
type UpdateOrderInput struct {
	ClientId *int `json:"client_id"`
	UserId   *int `json:"user_id"`
}

type OrderSummary struct {
	ID          int             `json:"id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ClientName  string          `json:"client_name"`
	UserName    string          `json:"user_name"`
	CreatedAt   time.Time       `json:"created_at"`
	ItemsCount  int             `json:"items_count"`
}

type OrderWithDetails struct {
	Order
	ClientName  string `json:"client_name"`
	UserName    string `json:"user_name"`
	CompanyName string `json:"company_name"`
}

type OrderFilter struct {
	Status   *OrderStatus
	ClientId *int
	UserId   *int
	Offset   int
	Limit    int
}

// CalculateOrderTotal sums quantity * unit price across all lines with exact
// decimal arithmetic.
func CalculateOrderTotal(items []NewOrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromInt(int64(item.Quantity)).Mul(item.SalePrice))
	}
	return total
}

func (input NewOrder) validate(ctx context.Context, companyId int) error {
	if len(input.Items) == 0 {
		return utils.NewValidationError("order must have at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return utils.NewValidationError("item quantity must be greater than zero")
		}
		if !item.SalePrice.IsPositive() {
			return utils.NewValidationError("item sale price must be greater than zero")
		}
	}
	// The client must exist; products are only checked at conversion time,
	// since totals come from request prices, not the catalog.
	if err := utils.ValidateResourceId[Client](ctx, companyId, input.ClientId); err != nil {
		return utils.ErrorRecordNotFound
	}
	if err := utils.ValidateResourceId[User](ctx, companyId, input.UserId); err != nil {
		return utils.ErrorRecordNotFound
	}
	return nil
}

// CreateOrder persists a new quote and its items atomically. Stock is not
// touched: a quote reserves nothing.
func CreateOrder(ctx context.Context, input *NewOrder) (*Order, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	if err := input.validate(ctx, companyId); err != nil {
		return nil, err
	}

	items := make([]OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, OrderItem{
			ProductId: item.ProductId,
			Quantity:  item.Quantity,
			SalePrice: item.SalePrice,
		})
	}

	order := Order{
		Status:      OrderStatusNewQuote,
		TotalAmount: CalculateOrderTotal(input.Items),
		ClientId:    input.ClientId,
		UserId:      input.UserId,
		CompanyId:   companyId,
		Items:       items,
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &order, nil
}

func GetOrder(ctx context.Context, id int) (*Order, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}
	return utils.FetchModel[Order](ctx, companyId, id, "Items")
}

func GetOrderWithDetails(ctx context.Context, id int) (*OrderWithDetails, error) {
	order, err := GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	details := OrderWithDetails{Order: *order}

	db := config.GetDB()
	db.WithContext(ctx).Model(&Client{}).Where("id = ?", order.ClientId).Select("name").Scan(&details.ClientName)
	db.WithContext(ctx).Model(&User{}).Where("id = ?", order.UserId).Select("full_name").Scan(&details.UserName)
	db.WithContext(ctx).Model(&Company{}).Where("id = ?", order.CompanyId).Select("name").Scan(&details.CompanyName)

	return &details, nil
}

func GetOrderSummaries(ctx context.Context, filter OrderFilter) ([]*OrderSummary, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Order{}).
		Select("orders.id, orders.status, orders.total_amount, clients.name AS client_name, users.full_name AS user_name, orders.created_at, COUNT(order_items.id) AS items_count").
		Joins("LEFT JOIN clients ON clients.id = orders.client_id").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Joins("LEFT JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.company_id = ?", companyId)

	if filter.Status != nil {
		dbCtx = dbCtx.Where("orders.status = ?", *filter.Status)
	}
	if filter.ClientId != nil && *filter.ClientId > 0 {
		dbCtx = dbCtx.Where("orders.client_id = ?", *filter.ClientId)
	}
	if filter.UserId != nil && *filter.UserId > 0 {
		dbCtx = dbCtx.Where("orders.user_id = ?", *filter.UserId)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var summaries []*OrderSummary
	err := dbCtx.Group("orders.id").
		Order("orders.created_at DESC").
		Offset(filter.Offset).
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// UpdateOrder reassigns the client or salesperson. It never touches status,
// totals or line items.
func UpdateOrder(ctx context.Context, id int, input *UpdateOrderInput) (*Order, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId <= 0 {
		return nil, errors.New("company id is required")
	}

	order, err := utils.FetchModel[Order](ctx, companyId, id, "Items")
	if err != nil {
		return nil, err
	}

	if input.ClientId != nil {
		if err := utils.ValidateResourceId[Client](ctx, companyId, *input.ClientId); err != nil {
			return nil, utils.ErrorRecordNotFound
		}
		order.ClientId = *input.ClientId
	}
	if input.UserId != nil {
		if err := utils.ValidateResourceId[User](ctx, companyId, *input.UserId); err != nil {
			return nil, utils.ErrorRecordNotFound
		}
		order.UserId = *input.UserId
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}
