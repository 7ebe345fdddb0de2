package catalog

import "github.com/vladislavdragonenkov/foodstream/internal/domain"

// DefaultItems возвращает демонстрационный каталог. Цены — в минимальных
// денежных единицах.
func DefaultItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{
			ID:             "fs-101",
			DishName:       "Butter Chicken Thali",
			VendorName:     "Sharma's Kitchen",
			PriceMinor:     320,
			ThumbnailRef:   "images/butter-chicken-thali.jpg",
			Cuisine:        "North Indian",
			DistanceMeters: 850,
			Rating:         4.8,
			Live:           true,
		},
		{
			ID:             "fs-102",
			DishName:       "Hyderabadi Biryani",
			VendorName:     "Paradise Corner",
			PriceMinor:     280,
			ThumbnailRef:   "images/hyderabadi-biryani.jpg",
			Cuisine:        "Hyderabadi",
			DistanceMeters: 1200,
			Rating:         4.7,
			Live:           true,
		},
		{
			ID:             "fs-103",
			DishName:       "Masala Dosa",
			VendorName:     "Udupi Express",
			PriceMinor:     120,
			ThumbnailRef:   "images/masala-dosa.jpg",
			Cuisine:        "South Indian",
			DistanceMeters: 450,
			Rating:         4.5,
			Live:           false,
		},
		{
			ID:             "fs-104",
			DishName:       "Paneer Tikka Roll",
			VendorName:     "Roll Junction",
			PriceMinor:     150,
			ThumbnailRef:   "images/paneer-tikka-roll.jpg",
			Cuisine:        "Street Food",
			DistanceMeters: 600,
			Rating:         4.3,
			Live:           true,
		},
		{
			ID:             "fs-105",
			DishName:       "Momos Steamed (8 pc)",
			VendorName:     "Tibet Treats",
			PriceMinor:     100,
			ThumbnailRef:   "images/momos-steamed.jpg",
			Cuisine:        "Tibetan",
			DistanceMeters: 1500,
			Rating:         4.4,
			Live:           false,
		},
		{
			ID:             "fs-106",
			DishName:       "Chole Bhature",
			VendorName:     "Delhi Darbar",
			PriceMinor:     140,
			ThumbnailRef:   "images/chole-bhature.jpg",
			Cuisine:        "North Indian",
			DistanceMeters: 950,
			Rating:         4.6,
			Live:           true,
		},
		{
			ID:             "fs-107",
			DishName:       "Fish Curry Meal",
			VendorName:     "Coastal Catch",
			PriceMinor:     350,
			ThumbnailRef:   "images/fish-curry-meal.jpg",
			Cuisine:        "Coastal",
			DistanceMeters: 2100,
			Rating:         4.2,
			Live:           false,
		},
		{
			ID:             "fs-108",
			DishName:       "Veg Hakka Noodles",
			VendorName:     "Wok This Way",
			PriceMinor:     160,
			ThumbnailRef:   "images/veg-hakka-noodles.jpg",
			Cuisine:        "Indo-Chinese",
			DistanceMeters: 700,
			Rating:         4.1,
			Live:           true,
		},
		{
			ID:             "fs-109",
			DishName:       "Gulab Jamun (4 pc)",
			VendorName:     "Mithai Mahal",
			PriceMinor:     90,
			ThumbnailRef:   "images/gulab-jamun.jpg",
			Cuisine:        "Desserts",
			DistanceMeters: 500,
			Rating:         4.9,
			Live:           false,
		},
		{
			ID:             "fs-110",
			DishName:       "Filter Coffee",
			VendorName:     "Udupi Express",
			PriceMinor:     50,
			ThumbnailRef:   "images/filter-coffee.jpg",
			Cuisine:        "South Indian",
			DistanceMeters: 450,
			Rating:         4.5,
			Live:           false,
		},
	}
}
