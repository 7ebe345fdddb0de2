package catalog

import (
	"sort"
	"strings"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
)

// Source — read-only каталог позиций. Задаётся при старте процесса и
// не меняется в течение жизни приложения; хранилища корзины и избранного
// ссылаются на его элементы по id.
type Source struct {
	items []domain.CatalogItem
	index map[string]int
}

// NewSource строит каталог из переданных позиций. Дубликаты id
// отбрасываются, побеждает первая позиция.
func NewSource(items []domain.CatalogItem) *Source {
	s := &Source{
		items: make([]domain.CatalogItem, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, ok := s.index[item.ID]; ok {
			continue
		}
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	return s
}

// List возвращает копию всех позиций каталога.
func (s *Source) List() []domain.CatalogItem {
	return append([]domain.CatalogItem(nil), s.items...)
}

// Get возвращает позицию по id или ErrCatalogItemNotFound.
func (s *Source) Get(id string) (domain.CatalogItem, error) {
	i, ok := s.index[id]
	if !ok {
		return domain.CatalogItem{}, domain.ErrCatalogItemNotFound
	}
	return s.items[i], nil
}

// Search возвращает позиции, у которых блюдо, вендор или кухня содержат
// запрос (без учёта регистра). Пустой запрос возвращает весь каталог.
func (s *Source) Search(query string) []domain.CatalogItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.List()
	}

	result := make([]domain.CatalogItem, 0)
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.DishName), query) ||
			strings.Contains(strings.ToLower(item.VendorName), query) ||
			strings.Contains(strings.ToLower(item.Cuisine), query) {
			result = append(result, item)
		}
	}
	return result
}

// FilterLive возвращает позиции вендоров, ведущих трансляцию прямо сейчас,
// отсортированные по рейтингу (убывание).
func (s *Source) FilterLive() []domain.CatalogItem {
	result := make([]domain.CatalogItem, 0)
	for _, item := range s.items {
		if item.Live {
			result = append(result, item)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Rating > result[j].Rating
	})
	return result
}
