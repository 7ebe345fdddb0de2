package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/foodstream/internal/bus"
	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/service/cart"
	"github.com/vladislavdragonenkov/foodstream/internal/service/catalog"
	"github.com/vladislavdragonenkov/foodstream/internal/service/checkout"
	"github.com/vladislavdragonenkov/foodstream/internal/service/favorites"
	"github.com/vladislavdragonenkov/foodstream/internal/service/miniplayer"
	"github.com/vladislavdragonenkov/foodstream/internal/service/orders"
	"github.com/vladislavdragonenkov/foodstream/internal/service/rest"
	"github.com/vladislavdragonenkov/foodstream/internal/storage/memory"
)

// buildServer поднимает полный стек сервисов поверх общего state store,
// как это делает wiring приложения.
func buildServer(t *testing.T, state domain.StateStore, eventBus *bus.Bus) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	catalogSource := catalog.NewSource(catalog.DefaultItems())
	cartStore := cart.New(ctx, state, eventBus, nil, nil)
	orderStore := orders.New(ctx, state, eventBus, nil, nil)
	orderStore.SetOutbox(memory.NewOutboxRepository())
	favoriteSet := favorites.New(ctx, state, eventBus, nil, nil)
	checkoutSvc := checkout.New(cartStore, orderStore, memory.NewOutboxRepository(), nil, nil)
	miniPlayerStore := miniplayer.New(ctx, state, eventBus, nil)

	server := rest.NewServer(catalogSource, cartStore, orderStore, favoriteSet, checkoutSvc, miniPlayerStore, nil)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts
}

func request(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	state := memory.NewStateStore()
	ts := buildServer(t, state, bus.New(nil))
	client := ts.Client()

	// Наполняем корзину: две порции одного блюда и одна другого.
	resp, _ := request(t, client, http.MethodPost, ts.URL+"/api/v1/cart/items", map[string]string{"id": "fs-101"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	request(t, client, http.MethodPost, ts.URL+"/api/v1/cart/items", map[string]string{"id": "fs-101"})
	request(t, client, http.MethodPost, ts.URL+"/api/v1/cart/items", map[string]string{"id": "fs-103"})

	// Оформляем с промокодом.
	resp, body := request(t, client, http.MethodPost, ts.URL+"/api/v1/checkout", map[string]any{"apply_discount": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order domain.Order
	require.NoError(t, json.Unmarshal(body, &order))
	require.Equal(t, domain.OrderStatusAccepted, order.Status)
	// 2×320 + 120 = 760; скидка 76; доставка 40.
	require.Equal(t, int64(760), order.SubtotalMinor)
	require.Equal(t, int64(76), order.DiscountMinor)
	require.Equal(t, int64(724), order.TotalMinor)

	// Прогоняем заказ по жизненному циклу.
	for _, status := range []string{"cooking", "on_the_way", "delivered"} {
		resp, body = request(t, client, http.MethodPatch, ts.URL+"/api/v1/orders/"+order.ID+"/status", map[string]string{"status": status})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var updated domain.Order
		require.NoError(t, json.Unmarshal(body, &updated))
		require.Equal(t, domain.OrderStatus(status), updated.Status)
	}

	// Доставленный заказ дальше не двигается.
	resp, _ = request(t, client, http.MethodPatch, ts.URL+"/api/v1/orders/"+order.ID+"/status", map[string]string{"status": "canceled"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Состояние переживает перезапуск стека на том же state store.
	restarted := buildServer(t, state, bus.New(nil))
	resp, body = request(t, restarted.Client(), http.MethodGet, restarted.URL+"/api/v1/orders/current", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var restored domain.Order
	require.NoError(t, json.Unmarshal(body, &restored))
	require.Equal(t, order.ID, restored.ID)
	require.Equal(t, domain.OrderStatusDelivered, restored.Status)
}

func TestCartAndFavoritesSurviveRestart(t *testing.T) {
	state := memory.NewStateStore()
	ts := buildServer(t, state, bus.New(nil))
	client := ts.Client()

	request(t, client, http.MethodPost, ts.URL+"/api/v1/cart/items", map[string]string{"id": "fs-104"})
	request(t, client, http.MethodPut, ts.URL+"/api/v1/favorites/fs-104", nil)
	request(t, client, http.MethodPut, ts.URL+"/api/v1/favorites/fs-109", nil)

	restarted := buildServer(t, state, bus.New(nil))

	resp, body := request(t, restarted.Client(), http.MethodGet, restarted.URL+"/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cartBody struct {
		Items []domain.CartLine `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &cartBody))
	require.Len(t, cartBody.Items, 1)
	require.Equal(t, "fs-104", cartBody.Items[0].ItemID)

	resp, body = request(t, restarted.Client(), http.MethodGet, restarted.URL+"/api/v1/favorites", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var favBody struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(body, &favBody))
	require.Equal(t, []string{"fs-104", "fs-109"}, favBody.IDs)
}

func TestBusNotifiesDuringLifecycle(t *testing.T) {
	state := memory.NewStateStore()
	eventBus := bus.New(nil)
	ts := buildServer(t, state, eventBus)
	client := ts.Client()

	ordersCh, stopOrders := eventBus.Subscribe(bus.TopicOrdersChanged, 8)
	defer stopOrders()

	request(t, client, http.MethodPost, ts.URL+"/api/v1/cart/items", map[string]string{"id": "fs-102"})
	resp, body := request(t, client, http.MethodPost, ts.URL+"/api/v1/checkout", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order domain.Order
	require.NoError(t, json.Unmarshal(body, &order))

	event := <-ordersCh
	require.Equal(t, bus.TopicOrdersChanged, event.Topic)
	require.Equal(t, order.ID, event.Payload)
}
