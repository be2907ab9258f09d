package models_test

import (
	"context"
	"errors"
	"testing"

	"github.com/partsdesk/autoparts_backend/models"
	"github.com/partsdesk/autoparts_backend/utils"
	"github.com/shopspring/decimal"
)

func seedProduct(t *testing.T, ctx context.Context, name string, stock int, price int64) *models.Product {
	t.Helper()
	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:          name,
		SalePrice:     decimal.NewFromInt(price),
		StockQuantity: stock,
	})
	if err != nil {
		t.Fatalf("CreateProduct %s: %v", name, err)
	}
	return product
}

func seedClient(t *testing.T, ctx context.Context, name string) *models.Client {
	t.Helper()
	client, err := models.CreateClient(ctx, &models.NewClient{Name: name})
	if err != nil {
		t.Fatalf("CreateClient %s: %v", name, err)
	}
	return client
}

func productStock(t *testing.T, ctx context.Context, id int) int {
	t.Helper()
	product, err := models.GetProduct(ctx, id)
	if err != nil {
		t.Fatalf("GetProduct %d: %v", id, err)
	}
	return product.StockQuantity
}

// Full lifecycle: quote creation computes the total without touching stock,
// conversion debits every line atomically, cancellation credits it all back,
// and a second cancellation is rejected.
func TestOrderLifecycle_ConvertThenCancelRestoresStock(t *testing.T) {
	requireIntegration(t)
	setupIntegrationBackend(t)

	ctx, _, manager := seedCompanyContext(t, "Lifecycle Co")

	productA := seedProduct(t, ctx, "Brake Pad", 10, 50)
	productB := seedProduct(t, ctx, "Oil Filter", 5, 30)
	client := seedClient(t, ctx, "Oficina Central")

	order, err := models.CreateOrder(ctx, &models.NewOrder{
		ClientId: client.ID,
		UserId:   manager.ID,
		Items: []models.NewOrderItem{
			{ProductId: productA.ID, Quantity: 3, SalePrice: decimal.NewFromInt(50)},
			{ProductId: productB.ID, Quantity: 2, SalePrice: decimal.NewFromInt(30)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(210)) {
		t.Fatalf("total = %s, want 210", order.TotalAmount)
	}
	if order.Status != models.OrderStatusNewQuote {
		t.Fatalf("status = %s, want %s", order.Status, models.OrderStatusNewQuote)
	}
	// Quotes reserve nothing.
	if got := productStock(t, ctx, productA.ID); got != 10 {
		t.Fatalf("stock A after quote = %d, want 10", got)
	}

	converted, err := models.ConvertQuoteToSale(ctx, order.ID)
	if err != nil {
		t.Fatalf("ConvertQuoteToSale: %v", err)
	}
	if converted.Status != models.OrderStatusSold {
		t.Fatalf("status = %s, want %s", converted.Status, models.OrderStatusSold)
	}
	if got := productStock(t, ctx, productA.ID); got != 7 {
		t.Fatalf("stock A after convert = %d, want 7", got)
	}
	if got := productStock(t, ctx, productB.ID); got != 3 {
		t.Fatalf("stock B after convert = %d, want 3", got)
	}

	// Converting a sold order again must fail without touching stock.
	if _, err := models.ConvertQuoteToSale(ctx, order.ID); err == nil {
		t.Fatalf("expected error converting a sold order")
	} else {
		var stateErr *utils.IllegalStateError
		if !errors.As(err, &stateErr) {
			t.Fatalf("expected illegal state error, got %v", err)
		}
	}
	if got := productStock(t, ctx, productA.ID); got != 7 {
		t.Fatalf("stock A after rejected re-convert = %d, want 7", got)
	}

	cancelled, err := models.CancelOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != models.OrderStatusCancelled {
		t.Fatalf("status = %s, want %s", cancelled.Status, models.OrderStatusCancelled)
	}
	if got := productStock(t, ctx, productA.ID); got != 10 {
		t.Fatalf("stock A after cancel = %d, want 10", got)
	}
	if got := productStock(t, ctx, productB.ID); got != 5 {
		t.Fatalf("stock B after cancel = %d, want 5", got)
	}

	if _, err := models.CancelOrder(ctx, order.ID); !errors.Is(err, utils.ErrorAlreadyCancelled) {
		t.Fatalf("expected already-cancelled error, got %v", err)
	}
}

// A single shortfall must abort the entire conversion: no line is debited and
// the order stays a quote.
func TestConvertQuoteToSale_InsufficientStockLeavesEverythingUntouched(t *testing.T) {
	requireIntegration(t)
	setupIntegrationBackend(t)

	ctx, _, manager := seedCompanyContext(t, "Shortfall Co")

	productA := seedProduct(t, ctx, "Spark Plug", 10, 50)
	productC := seedProduct(t, ctx, "Alternator", 1, 400)
	client := seedClient(t, ctx, "Auto Pecas Sul")

	order, err := models.CreateOrder(ctx, &models.NewOrder{
		ClientId: client.ID,
		UserId:   manager.ID,
		Items: []models.NewOrderItem{
			{ProductId: productA.ID, Quantity: 3, SalePrice: decimal.NewFromInt(50)},
			{ProductId: productC.ID, Quantity: 5, SalePrice: decimal.NewFromInt(400)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	_, err = models.ConvertQuoteToSale(ctx, order.ID)
	var stockErr *utils.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if stockErr.ProductId != productC.ID || stockErr.ProductName != "Alternator" {
		t.Fatalf("error names product %d %q, want %d %q", stockErr.ProductId, stockErr.ProductName, productC.ID, "Alternator")
	}
	if stockErr.Shortfall() != 4 {
		t.Fatalf("shortfall = %d, want 4", stockErr.Shortfall())
	}

	// Nothing moved: not even the line that had enough stock.
	if got := productStock(t, ctx, productA.ID); got != 10 {
		t.Fatalf("stock A = %d, want 10", got)
	}
	if got := productStock(t, ctx, productC.ID); got != 1 {
		t.Fatalf("stock C = %d, want 1", got)
	}
	reloaded, err := models.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if reloaded.Status != models.OrderStatusNewQuote {
		t.Fatalf("status = %s, want %s", reloaded.Status, models.OrderStatusNewQuote)
	}
}

// Cancelling a quote that never sold flips the status without crediting stock.
func TestCancelOrder_QuoteLeavesStockAlone(t *testing.T) {
	requireIntegration(t)
	setupIntegrationBackend(t)

	ctx, _, manager := seedCompanyContext(t, "Quote Cancel Co")

	product := seedProduct(t, ctx, "Radiator", 4, 250)
	client := seedClient(t, ctx, "Mecanica do Porto")

	order, err := models.CreateOrder(ctx, &models.NewOrder{
		ClientId: client.ID,
		UserId:   manager.ID,
		Items: []models.NewOrderItem{
			{ProductId: product.ID, Quantity: 2, SalePrice: decimal.NewFromInt(250)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	cancelled, err := models.CancelOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != models.OrderStatusCancelled {
		t.Fatalf("status = %s, want %s", cancelled.Status, models.OrderStatusCancelled)
	}
	if got := productStock(t, ctx, product.ID); got != 4 {
		t.Fatalf("stock = %d, want 4", got)
	}
}

// Status routing: "Orçamento Enviado" is only reachable from a fresh quote,
// and terminal states reject further transitions.
func TestUpdateOrderStatus_GuardedTransitions(t *testing.T) {
	requireIntegration(t)
	setupIntegrationBackend(t)

	ctx, _, manager := seedCompanyContext(t, "Transitions Co")

	product := seedProduct(t, ctx, "Fuel Pump", 8, 120)
	client := seedClient(t, ctx, "Garagem Norte")

	order, err := models.CreateOrder(ctx, &models.NewOrder{
		ClientId: client.ID,
		UserId:   manager.ID,
		Items: []models.NewOrderItem{
			{ProductId: product.ID, Quantity: 1, SalePrice: decimal.NewFromInt(120)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	sent, err := models.UpdateOrderStatus(ctx, order.ID, models.OrderStatusQuoteSent)
	if err != nil {
		t.Fatalf("mark quote sent: %v", err)
	}
	if sent.Status != models.OrderStatusQuoteSent {
		t.Fatalf("status = %s, want %s", sent.Status, models.OrderStatusQuoteSent)
	}

	// Sending twice is rejected.
	if _, err := models.UpdateOrderStatus(ctx, order.ID, models.OrderStatusQuoteSent); err == nil {
		t.Fatalf("expected error re-sending a sent quote")
	}

	// A sent quote still converts, and the conversion debits stock.
	sold, err := models.UpdateOrderStatus(ctx, order.ID, models.OrderStatusSold)
	if err != nil {
		t.Fatalf("convert via status route: %v", err)
	}
	if sold.Status != models.OrderStatusSold {
		t.Fatalf("status = %s, want %s", sold.Status, models.OrderStatusSold)
	}
	if got := productStock(t, ctx, product.ID); got != 7 {
		t.Fatalf("stock = %d, want 7", got)
	}

	// Reverting a sale back to a quote is not a supported transition.
	if _, err := models.UpdateOrderStatus(ctx, order.ID, models.OrderStatusNewQuote); err == nil {
		t.Fatalf("expected error reverting a sale to a quote")
	}
}

// The generic adjustment path clamps at zero instead of going negative.
func TestAdjustProductStock_ClampsAtZero(t *testing.T) {
	requireIntegration(t)
	setupIntegrationBackend(t)

	ctx, _, _ := seedCompanyContext(t, "Clamp Co")

	product := seedProduct(t, ctx, "Wiper Blade", 3, 25)

	updated, err := models.AdjustProductStock(ctx, product.ID, -10)
	if err != nil {
		t.Fatalf("AdjustProductStock: %v", err)
	}
	if updated.StockQuantity != 0 {
		t.Fatalf("stock = %d, want 0 (clamped)", updated.StockQuantity)
	}

	restocked, err := models.AdjustProductStock(ctx, product.ID, 6)
	if err != nil {
		t.Fatalf("AdjustProductStock restock: %v", err)
	}
	if restocked.StockQuantity != 6 {
		t.Fatalf("stock = %d, want 6", restocked.StockQuantity)
	}
}

// Orders are invisible across companies even with a valid id.
func TestOrderTenantIsolation(t *testing.T) {
	requireIntegration(t)
	setupIntegrationBackend(t)

	ctxA, _, managerA := seedCompanyContext(t, "Tenant A")
	ctxB, _, _ := seedCompanyContext(t, "Tenant B")

	product := seedProduct(t, ctxA, "Clutch Kit", 6, 600)
	client := seedClient(t, ctxA, "Oficina A")

	order, err := models.CreateOrder(ctxA, &models.NewOrder{
		ClientId: client.ID,
		UserId:   managerA.ID,
		Items: []models.NewOrderItem{
			{ProductId: product.ID, Quantity: 1, SalePrice: decimal.NewFromInt(600)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if _, err := models.GetOrder(ctxB, order.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found across tenants, got %v", err)
	}
	if _, err := models.ConvertQuoteToSale(ctxB, order.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found converting across tenants, got %v", err)
	}
}
