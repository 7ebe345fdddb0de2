package favorites_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/service/favorites"
	"github.com/vladislavdragonenkov/foodstream/internal/storage/memory"
)

func TestFavoritesAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	set := favorites.New(ctx, memory.NewStateStore(), nil, nil, nil)

	require.True(t, set.Add(ctx, "fs-101"))
	require.False(t, set.Add(ctx, "fs-101"))

	require.Equal(t, []string{"fs-101"}, set.IDs())
	require.True(t, set.IsFavorite("fs-101"))
}

func TestFavoritesRemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	set := favorites.New(ctx, memory.NewStateStore(), nil, nil, nil)

	require.False(t, set.Remove(ctx, "missing"))
	require.True(t, set.Add(ctx, "fs-101"))
	require.True(t, set.Remove(ctx, "fs-101"))
	require.False(t, set.IsFavorite("fs-101"))
}

func TestFavoritesToggleInvolution(t *testing.T) {
	ctx := context.Background()
	set := favorites.New(ctx, memory.NewStateStore(), nil, nil, nil)

	// Двойной toggle возвращает множество в исходное состояние.
	require.True(t, set.Toggle(ctx, "fs-101"))
	require.False(t, set.Toggle(ctx, "fs-101"))
	require.Empty(t, set.IDs())
}

func TestFavoritesFilterPreservesInputOrder(t *testing.T) {
	ctx := context.Background()
	set := favorites.New(ctx, memory.NewStateStore(), nil, nil, nil)

	set.Add(ctx, "c")
	set.Add(ctx, "a")

	items := []domain.CatalogItem{
		{ID: "a", DishName: "A"},
		{ID: "b", DishName: "B"},
		{ID: "c", DishName: "C"},
	}
	filtered := set.FilterFavorites(items)
	require.Len(t, filtered, 2)
	require.Equal(t, "a", filtered[0].ID)
	require.Equal(t, "c", filtered[1].ID)
}

func TestFavoritesPersistsAsArray(t *testing.T) {
	ctx := context.Background()
	state := memory.NewStateStore()
	set := favorites.New(ctx, state, nil, nil, nil)

	set.Add(ctx, "fs-101")
	set.Add(ctx, "fs-102")

	raw, err := state.Load(ctx, domain.StateKeyFavorites)
	require.NoError(t, err)

	var ids []string
	require.NoError(t, json.Unmarshal(raw, &ids))
	require.Equal(t, []string{"fs-101", "fs-102"}, ids)
}

func TestFavoritesRestore(t *testing.T) {
	ctx := context.Background()
	state := memory.NewStateStore()
	require.NoError(t, state.Save(ctx, domain.StateKeyFavorites, []byte(`["fs-101","fs-101","","fs-102"]`)))

	// Дубликаты и пустые id отбрасываются при восстановлении.
	set := favorites.New(ctx, state, nil, nil, nil)
	require.Equal(t, []string{"fs-101", "fs-102"}, set.IDs())
}

func TestFavoritesCorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	state := memory.NewStateStore()
	require.NoError(t, state.Save(ctx, domain.StateKeyFavorites, []byte(`{"oops":1}`)))

	set := favorites.New(ctx, state, nil, nil, nil)
	require.Empty(t, set.IDs())
}

func TestFavoritesIDsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	set := favorites.New(ctx, memory.NewStateStore(), nil, nil, nil)
	set.Add(ctx, "fs-101")

	ids := set.IDs()
	ids[0] = "mutated"

	require.Equal(t, []string{"fs-101"}, set.IDs())
}
