package domain

// CartLine — одна позиция корзины: ссылка на блюдо из каталога и количество.
// JSON-теги повторяют формат, в котором корзина сериализуется в state store.
type CartLine struct {
	ItemID         string `json:"id"`
	DishName       string `json:"dishName"`
	VendorName     string `json:"vendorName"`
	UnitPriceMinor int64  `json:"price"`
	ImageRef       string `json:"image"`
	Quantity       int    `json:"quantity"`
}

// CartItemInput — данные для добавления позиции в корзину.
type CartItemInput struct {
	ID             string
	DishName       string
	VendorName     string
	UnitPriceMinor int64
	ImageRef       string
}

// Cart — упорядоченный набор позиций. Инвариант: не более одной позиции
// на itemID, quantity каждой позиции >= 1.
type Cart []CartLine

// Add добавляет позицию: существующий itemID увеличивает количество на 1,
// новый — вставляется с количеством 1. Некорректный вход (пустой id,
// отрицательная цена) игнорируется.
func (c *Cart) Add(input CartItemInput) bool {
	if input.ID == "" || input.UnitPriceMinor < 0 {
		return false
	}
	for i := range *c {
		if (*c)[i].ItemID == input.ID {
			(*c)[i].Quantity++
			return true
		}
	}
	*c = append(*c, CartLine{
		ItemID:         input.ID,
		DishName:       input.DishName,
		VendorName:     input.VendorName,
		UnitPriceMinor: input.UnitPriceMinor,
		ImageRef:       input.ImageRef,
		Quantity:       1,
	})
	return true
}

// Remove удаляет позицию по itemID. Отсутствующий id — не ошибка.
func (c *Cart) Remove(itemID string) bool {
	for i := range *c {
		if (*c)[i].ItemID == itemID {
			*c = append((*c)[:i], (*c)[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity устанавливает количество позиции. Значение <= 0 эквивалентно
// удалению: корзина никогда не содержит позицию с quantity <= 0.
// Неизвестный itemID — no-op.
func (c *Cart) SetQuantity(itemID string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(itemID)
	}
	for i := range *c {
		if (*c)[i].ItemID == itemID {
			(*c)[i].Quantity = quantity
			return true
		}
	}
	return false
}

// Clear опустошает корзину.
func (c *Cart) Clear() {
	*c = (*c)[:0]
}

// SubtotalMinor возвращает Σ(price × quantity). Значение всегда
// вычисляется на чтении и нигде не хранится.
func (c Cart) SubtotalMinor() int64 {
	var sum int64
	for _, line := range c {
		sum += int64(line.Quantity) * line.UnitPriceMinor
	}
	return sum
}

// TotalItemCount возвращает Σ(quantity) по всем позициям.
func (c Cart) TotalItemCount() int {
	var count int
	for _, line := range c {
		count += line.Quantity
	}
	return count
}

// Clone возвращает копию, не разделяющую память с оригиналом.
func (c Cart) Clone() Cart {
	if len(c) == 0 {
		return Cart{}
	}
	return append(Cart(nil), c...)
}
