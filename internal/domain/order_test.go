package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

// helper для создания валидного заказа с двумя позициями.
func makeOrder() domain.Order {
	return domain.Order{
		ID:         "FS-1700000000000",
		CreatedAt:  time.Now().UTC(),
		Status:     domain.OrderStatusAccepted,
		ETAMinutes: 20,
		Items: []domain.CartLine{
			{ItemID: "fs-101", DishName: "Butter Chicken Thali", VendorName: "Sharma's Kitchen", UnitPriceMinor: 100, Quantity: 2},
			{ItemID: "fs-103", DishName: "Masala Dosa", VendorName: "Udupi Express", UnitPriceMinor: 50, Quantity: 1},
		},
		SubtotalMinor:    250,
		DiscountMinor:    25,
		DeliveryFeeMinor: 40,
		TotalMinor:       265,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
		want error
	}{
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.Items = nil
				o.SubtotalMinor = 0
				o.DiscountMinor = 0
				o.TotalMinor = 40
			},
			want: domain.ErrItemsRequired,
		},
		{
			name: "eta invalid",
			mut: func(o *domain.Order) {
				o.ETAMinutes = 0
			},
			want: domain.ErrETAInvalid,
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Quantity = 0
			},
			want: domain.ErrItemQtyInvalid,
		},
		{
			name: "price invalid",
			mut: func(o *domain.Order) {
				o.Items[0].UnitPriceMinor = -5
			},
			want: domain.ErrItemPriceInvalid,
		},
		{
			name: "subtotal mismatch",
			mut: func(o *domain.Order) {
				o.SubtotalMinor = 999
			},
			want: domain.ErrSubtotalMismatch,
		},
		{
			name: "discount negative",
			mut: func(o *domain.Order) {
				o.DiscountMinor = -1
			},
			want: domain.ErrDiscountInvalid,
		},
		{
			name: "discount exceeds subtotal",
			mut: func(o *domain.Order) {
				o.DiscountMinor = 251
			},
			want: domain.ErrDiscountInvalid,
		},
		{
			name: "delivery fee negative",
			mut: func(o *domain.Order) {
				o.DeliveryFeeMinor = -1
			},
			want: domain.ErrDeliveryFeeInvalid,
		},
		{
			name: "unknown status",
			mut: func(o *domain.Order) {
				o.Status = "shipped"
			},
			want: domain.ErrUnknownStatus,
		},
		{
			name: "total mismatch",
			mut: func(o *domain.Order) {
				o.TotalMinor = 1000
			},
			want: domain.ErrTotalMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			errs := order.ValidateInvariants()
			if len(errs) == 0 {
				t.Fatalf("expected validation errors")
			}
			found := false
			for _, err := range errs {
				if errors.Is(err, tc.want) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %v among %v", tc.want, errs)
			}
		})
	}
}

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		name                           string
		subtotal, discount, fee, total int64
	}{
		{name: "no discount", subtotal: 250, discount: 0, fee: 40, total: 290},
		{name: "with discount", subtotal: 250, discount: 25, fee: 40, total: 265},
		{name: "discount equals subtotal", subtotal: 100, discount: 100, fee: 40, total: 40},
		{name: "zero cart", subtotal: 0, discount: 0, fee: 0, total: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.ComputeTotal(tc.subtotal, tc.discount, tc.fee); got != tc.total {
				t.Fatalf("ComputeTotal(%d, %d, %d) = %d, want %d", tc.subtotal, tc.discount, tc.fee, got, tc.total)
			}
		})
	}
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to domain.OrderStatus
		ok       bool
	}{
		{domain.OrderStatusAccepted, domain.OrderStatusCooking, true},
		{domain.OrderStatusCooking, domain.OrderStatusOnTheWay, true},
		{domain.OrderStatusOnTheWay, domain.OrderStatusDelivered, true},
		// перескок через статус запрещён
		{domain.OrderStatusAccepted, domain.OrderStatusOnTheWay, false},
		{domain.OrderStatusAccepted, domain.OrderStatusDelivered, false},
		// назад и в тот же статус нельзя
		{domain.OrderStatusCooking, domain.OrderStatusAccepted, false},
		{domain.OrderStatusCooking, domain.OrderStatusCooking, false},
		// отмена из любого нетерминального
		{domain.OrderStatusAccepted, domain.OrderStatusCanceled, true},
		{domain.OrderStatusOnTheWay, domain.OrderStatusCanceled, true},
		// терминальные состояния никуда не переходят
		{domain.OrderStatusDelivered, domain.OrderStatusCanceled, false},
		{domain.OrderStatusCanceled, domain.OrderStatusCooking, false},
		{domain.OrderStatusDelivered, domain.OrderStatusDelivered, false},
		// неизвестные статусы
		{"shipped", domain.OrderStatusCooking, false},
		{domain.OrderStatusAccepted, "shipped", false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Fatalf("%s → %s: got %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestOrderStatusNext(t *testing.T) {
	next, ok := domain.OrderStatusAccepted.Next()
	if !ok || next != domain.OrderStatusCooking {
		t.Fatalf("expected cooking after accepted, got %s (%v)", next, ok)
	}
	if _, ok := domain.OrderStatusDelivered.Next(); ok {
		t.Fatalf("delivered is terminal, must have no next status")
	}
	if _, ok := domain.OrderStatusCanceled.Next(); ok {
		t.Fatalf("canceled is terminal, must have no next status")
	}
}

func TestOrderClone_Independent(t *testing.T) {
	order := makeOrder()
	clone := order.Clone()

	clone.Items[0].Quantity = 99
	if order.Items[0].Quantity == 99 {
		t.Fatalf("clone must not share items with the original")
	}
}
