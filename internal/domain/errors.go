package domain

import "errors"

var (
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве позиции (<= 0).
	ErrItemQtyInvalid = errors.New("line quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("line price must be non-negative")
	// Ошибка несоответствия subtotal и суммы позиций.
	ErrSubtotalMismatch = errors.New("order subtotal does not match lines sum")
	// Ошибка несоответствия итога формуле subtotal - discount + deliveryFee.
	ErrTotalMismatch = errors.New("order total does not match its components")
	// Ошибка отрицательной или превышающей subtotal скидки.
	ErrDiscountInvalid = errors.New("discount must be within [0, subtotal]")
	// Ошибка отрицательной стоимости доставки.
	ErrDeliveryFeeInvalid = errors.New("delivery fee must be non-negative")
	// Ошибка неположительного времени доставки.
	ErrETAInvalid = errors.New("eta minutes must be greater than zero")
	// ErrUnknownStatus возвращается для статуса вне жизненного цикла заказа.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrInvalidTransition сигнализирует о запрещённом переходе статуса.
	ErrInvalidTransition = errors.New("order status transition is not allowed")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyCart возвращается при попытке оформить пустую корзину.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCatalogItemNotFound возвращается, если позиция каталога не найдена.
	ErrCatalogItemNotFound = errors.New("catalog item not found")
	// ErrStateNotFound возвращается state store, если ключ отсутствует.
	ErrStateNotFound = errors.New("state key not found")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsNotFound проверяет, является ли ошибка отсутствием сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrCatalogItemNotFound) ||
		errors.Is(err, ErrStateNotFound)
}

// IsInvalidTransition проверяет, является ли ошибка запретом перехода статуса.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}
