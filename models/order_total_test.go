package models_test

import (
	"context"
	"errors"
	"testing"

	"github.com/partsdesk/autoparts_backend/models"
	"github.com/partsdesk/autoparts_backend/utils"
	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// The order total must equal the exact decimal sum of quantity * unit price
// over all lines, for any line mix.
func TestCalculateOrderTotal_MatchesExactSum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lineCount := rapid.IntRange(1, 20).Draw(rt, "lineCount")
		items := make([]models.NewOrderItem, 0, lineCount)
		expected := decimal.Zero
		for i := 0; i < lineCount; i++ {
			qty := rapid.IntRange(1, 500).Draw(rt, "qty")
			// Prices in whole cents, up to R$ 99999.99.
			cents := rapid.Int64Range(1, 9999999).Draw(rt, "cents")
			price := decimal.New(cents, -2)
			items = append(items, models.NewOrderItem{
				ProductId: i + 1,
				Quantity:  qty,
				SalePrice: price,
			})
			expected = expected.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}

		total := models.CalculateOrderTotal(items)
		if !total.Equal(expected) {
			rt.Fatalf("total = %s, want %s", total, expected)
		}
	})
}

func TestCalculateOrderTotal_KnownScenario(t *testing.T) {
	items := []models.NewOrderItem{
		{ProductId: 1, Quantity: 3, SalePrice: decimal.NewFromInt(50)},
		{ProductId: 2, Quantity: 2, SalePrice: decimal.NewFromInt(30)},
	}
	total := models.CalculateOrderTotal(items)
	if !total.Equal(decimal.NewFromInt(210)) {
		t.Fatalf("total = %s, want 210", total)
	}
}

func TestCreateOrder_RejectsEmptyItemList(t *testing.T) {
	ctx := utils.SetCompanyIdInContext(context.Background(), 1)

	_, err := models.CreateOrder(ctx, &models.NewOrder{
		ClientId: 1,
		UserId:   1,
		Items:    nil,
	})
	var validationErr *utils.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error for empty item list, got %v", err)
	}
}

func TestOrderItemLineTotal(t *testing.T) {
	item := models.OrderItem{Quantity: 7, SalePrice: decimal.RequireFromString("19.99")}
	if got := item.LineTotal(); !got.Equal(decimal.RequireFromString("139.93")) {
		t.Fatalf("line total = %s, want 139.93", got)
	}
}
