package domain_test

import (
	"fmt"
	"testing"
	"testing/quick"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

func itemA() domain.CartItemInput {
	return domain.CartItemInput{ID: "fs-101", DishName: "Butter Chicken Thali", VendorName: "Sharma's Kitchen", UnitPriceMinor: 100}
}

func itemB() domain.CartItemInput {
	return domain.CartItemInput{ID: "fs-103", DishName: "Masala Dosa", VendorName: "Udupi Express", UnitPriceMinor: 50}
}

func TestCartAdd_RepeatIncrementsQuantity(t *testing.T) {
	var cart domain.Cart

	cart.Add(itemA())
	cart.Add(itemB())
	cart.Add(itemA())

	if len(cart) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart))
	}
	if cart[0].ItemID != "fs-101" || cart[0].Quantity != 2 {
		t.Fatalf("expected fs-101 with quantity 2, got %+v", cart[0])
	}
	if cart[1].ItemID != "fs-103" || cart[1].Quantity != 1 {
		t.Fatalf("expected fs-103 with quantity 1, got %+v", cart[1])
	}
	if got := cart.SubtotalMinor(); got != 250 {
		t.Fatalf("expected subtotal 250, got %d", got)
	}
	if got := cart.TotalItemCount(); got != 3 {
		t.Fatalf("expected item count 3, got %d", got)
	}
}

func TestCartAdd_RejectsInvalidInput(t *testing.T) {
	var cart domain.Cart

	if cart.Add(domain.CartItemInput{ID: ""}) {
		t.Fatalf("empty id must be rejected")
	}
	if cart.Add(domain.CartItemInput{ID: "x", UnitPriceMinor: -1}) {
		t.Fatalf("negative price must be rejected")
	}
	if len(cart) != 0 {
		t.Fatalf("cart must stay empty, got %d lines", len(cart))
	}
}

func TestCartSetQuantity(t *testing.T) {
	var cart domain.Cart
	cart.Add(itemA())

	if !cart.SetQuantity("fs-101", 5) {
		t.Fatalf("set quantity must succeed for existing line")
	}
	if cart[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart[0].Quantity)
	}

	// Количество <= 0 удаляет позицию.
	if !cart.SetQuantity("fs-101", 0) {
		t.Fatalf("zero quantity must remove the line")
	}
	if len(cart) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart))
	}

	if cart.SetQuantity("missing", 3) {
		t.Fatalf("unknown id must be a no-op")
	}
}

func TestCartRemove_UnknownIDIsNoop(t *testing.T) {
	var cart domain.Cart
	cart.Add(itemA())

	if cart.Remove("missing") {
		t.Fatalf("removing unknown id must return false")
	}
	if len(cart) != 1 {
		t.Fatalf("cart must be untouched")
	}
	if !cart.Remove("fs-101") {
		t.Fatalf("removing existing id must return true")
	}
	if len(cart) != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestCartClear(t *testing.T) {
	var cart domain.Cart
	cart.Add(itemA())
	cart.Add(itemB())

	cart.Clear()
	if len(cart) != 0 {
		t.Fatalf("expected empty cart after clear")
	}
	if got := cart.SubtotalMinor(); got != 0 {
		t.Fatalf("expected zero subtotal, got %d", got)
	}
}

// Свойство: для любого сгенерированного набора строк subtotal равен
// Σ(price × quantity), а счётчик позиций — Σ(quantity).
func TestCartSubtotal_GeneratedCombinations(t *testing.T) {
	property := func(prices []uint16, counts []uint8) bool {
		n := len(prices)
		if len(counts) < n {
			n = len(counts)
		}

		var cart domain.Cart
		var wantSubtotal int64
		var wantCount int
		for i := 0; i < n; i++ {
			price := int64(prices[i])
			qty := int(counts[i]%9) + 1
			input := domain.CartItemInput{
				ID:             fmt.Sprintf("item-%d", i),
				DishName:       "generated",
				UnitPriceMinor: price,
			}
			// Повторные Add того же id сливаются в одну строку.
			for j := 0; j < qty; j++ {
				cart.Add(input)
			}
			wantSubtotal += price * int64(qty)
			wantCount += qty
		}

		return cart.SubtotalMinor() == wantSubtotal && cart.TotalItemCount() == wantCount
	}

	if err := quick.Check(property, nil); err != nil {
		t.Fatalf("subtotal property violated: %v", err)
	}
}

func TestCartClone_Independent(t *testing.T) {
	var cart domain.Cart
	cart.Add(itemA())

	clone := cart.Clone()
	clone[0].Quantity = 42

	if cart[0].Quantity == 42 {
		t.Fatalf("clone must not share memory with the original")
	}
}
