package domain

// CatalogItem — позиция каталога: блюдо вендора, доступное для заказа
// из live-трансляции. Каталог задаётся при старте процесса и неизменяем.
type CatalogItem struct {
	ID             string  `json:"id"`
	DishName       string  `json:"dishName"`
	VendorName     string  `json:"vendorName"`
	PriceMinor     int64   `json:"price"`
	ThumbnailRef   string  `json:"thumbnail"`
	Cuisine        string  `json:"cuisine"`
	DistanceMeters int     `json:"distanceMeters"`
	Rating         float64 `json:"rating"`
	Live           bool    `json:"live"`
}

// CartInput приводит позицию каталога к входу операции добавления в корзину.
func (i CatalogItem) CartInput() CartItemInput {
	return CartItemInput{
		ID:             i.ID,
		DishName:       i.DishName,
		VendorName:     i.VendorName,
		UnitPriceMinor: i.PriceMinor,
		ImageRef:       i.ThumbnailRef,
	}
}
