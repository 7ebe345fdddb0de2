package domain

import "time"

// OrderStatus описывает жизненный цикл заказа после оформления корзины.
type OrderStatus string

const (
	// OrderStatusAccepted — заказ принят вендором, готовка ещё не началась.
	OrderStatusAccepted OrderStatus = "accepted"
	// OrderStatusCooking — блюда готовятся.
	OrderStatusCooking OrderStatus = "cooking"
	// OrderStatusOnTheWay — курьер забрал заказ и едет к клиенту.
	OrderStatusOnTheWay OrderStatus = "on_the_way"
	// OrderStatusDelivered — заказ доставлен, терминальное состояние.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCanceled — заказ отменён до доставки, терминальное состояние.
	OrderStatusCanceled OrderStatus = "canceled"
)

// DefaultETAMinutes используется, когда время доставки не указано при оформлении.
const DefaultETAMinutes = 20

// statusRank задаёт порядок прямых переходов статуса.
var statusRank = map[OrderStatus]int{
	OrderStatusAccepted:  0,
	OrderStatusCooking:   1,
	OrderStatusOnTheWay:  2,
	OrderStatusDelivered: 3,
}

// Known сообщает, входит ли статус в известный набор состояний.
func (s OrderStatus) Known() bool {
	if s == OrderStatusCanceled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal сообщает, является ли статус конечным.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// Next возвращает следующий статус прямой цепочки.
// Для терминальных состояний возвращает пустой статус и false.
func (s OrderStatus) Next() (OrderStatus, bool) {
	rank, ok := statusRank[s]
	if !ok || s == OrderStatusDelivered {
		return "", false
	}
	for status, r := range statusRank {
		if r == rank+1 {
			return status, true
		}
	}
	return "", false
}

// CanTransitionTo проверяет допустимость перехода: строго вперёд по цепочке
// accepted → cooking → on_the_way → delivered; отмена возможна из любого
// нетерминального состояния. Переходы назад и повторная установка того же
// статуса запрещены.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Known() || !next.Known() {
		return false
	}
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCanceled {
		return true
	}
	return statusRank[next] == statusRank[s]+1
}

// Order — неизменяемый после создания снимок оформленной корзины.
// Items копируются при создании и не разделяют память с корзиной,
// поэтому последующие мутации корзины не меняют размещённый заказ.
type Order struct {
	ID               string      `json:"id"`
	CreatedAt        time.Time   `json:"createdAt"`
	Status           OrderStatus `json:"status"`
	ETAMinutes       int         `json:"etaMinutes"`
	Items            []CartLine  `json:"items"`
	SubtotalMinor    int64       `json:"subtotal"`
	DiscountMinor    int64       `json:"discountAmount"`
	DeliveryFeeMinor int64       `json:"deliveryFee"`
	TotalMinor       int64       `json:"total"`
}

// ComputeTotal выводит итоговую сумму из трёх компонент.
// Итог никогда не хранится отдельно от входов: при любом пересчёте
// используется эта функция.
func ComputeTotal(subtotal, discount, deliveryFee int64) int64 {
	return subtotal - discount + deliveryFee
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.ETAMinutes <= 0 {
		errs = append(errs, ErrETAInvalid)
	}
	if o.DiscountMinor < 0 {
		errs = append(errs, ErrDiscountInvalid)
	}
	if o.DeliveryFeeMinor < 0 {
		errs = append(errs, ErrDeliveryFeeInvalid)
	}
	if !o.Status.Known() {
		errs = append(errs, ErrUnknownStatus)
	}

	// Сверяем subtotal с суммой позиций: qty * price.
	var calc int64
	for _, line := range o.Items {
		if line.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if line.UnitPriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += int64(line.Quantity) * line.UnitPriceMinor
	}
	if calc != o.SubtotalMinor {
		errs = append(errs, ErrSubtotalMismatch)
	}
	if o.DiscountMinor > o.SubtotalMinor {
		errs = append(errs, ErrDiscountInvalid)
	}
	if o.TotalMinor != ComputeTotal(o.SubtotalMinor, o.DiscountMinor, o.DeliveryFeeMinor) {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}

// Clone возвращает глубокую копию заказа.
func (o Order) Clone() Order {
	clone := o
	clone.Items = append([]CartLine(nil), o.Items...)
	return clone
}
