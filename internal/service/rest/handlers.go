package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/service/checkout"
)

// --- catalog ---

func (s *Server) listCatalog(c *gin.Context) {
	if live, ok := c.GetQuery("live"); ok && parseBoolQuery(live) {
		c.JSON(http.StatusOK, gin.H{"items": s.catalog.FilterLive()})
		return
	}
	if q, ok := c.GetQuery("q"); ok {
		c.JSON(http.StatusOK, gin.H{"items": s.catalog.Search(q)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": s.catalog.List()})
}

func (s *Server) getCatalogItem(c *gin.Context) {
	item, err := s.catalog.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// --- cart ---

type cartResponse struct {
	Items         domain.Cart `json:"items"`
	SubtotalMinor int64       `json:"subtotal"`
	ItemCount     int         `json:"itemCount"`
}

type addCartItemRequest struct {
	ItemID string `json:"id" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) cartSnapshot() cartResponse {
	lines := s.cart.Lines()
	return cartResponse{
		Items:         lines,
		SubtotalMinor: lines.SubtotalMinor(),
		ItemCount:     lines.TotalItemCount(),
	}
}

func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.cartSnapshot())
}

// addCartItem добавляет позицию каталога в корзину по id: корзина сама
// не хранит каталоговых данных, строка собирается из позиции каталога.
func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := s.catalog.Get(req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}

	s.cart.AddItem(c.Request.Context(), item.CartInput())
	c.JSON(http.StatusOK, s.cartSnapshot())
}

func (s *Server) updateCartItemQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.cart.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, s.cartSnapshot())
}

func (s *Server) removeCartItem(c *gin.Context) {
	s.cart.RemoveItem(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, s.cartSnapshot())
}

func (s *Server) clearCart(c *gin.Context) {
	s.cart.Clear(c.Request.Context())
	c.JSON(http.StatusOK, s.cartSnapshot())
}

// --- checkout ---

type checkoutRequest struct {
	ApplyDiscount bool `json:"apply_discount"`
	ETAMinutes    int  `json:"eta_minutes"`
}

func (s *Server) checkoutCart(c *gin.Context) {
	var req checkoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	order, err := s.checkout.Checkout(c.Request.Context(), checkout.Params{
		ApplyPromo: req.ApplyDiscount,
		ETAMinutes: req.ETAMinutes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// --- orders ---

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"orders":         s.orders.List(),
		"currentOrderId": s.orders.CurrentOrderID(),
	})
}

func (s *Server) getCurrentOrder(c *gin.Context) {
	order, ok := s.orders.Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrOrderNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) getOrder(c *gin.Context) {
	order, err := s.orders.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.orders.UpdateStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- favorites ---

func (s *Server) listFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ids": s.favorites.IDs()})
}

func (s *Server) addFavorite(c *gin.Context) {
	id := c.Param("id")
	s.favorites.Add(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"id": id, "favorite": true})
}

func (s *Server) removeFavorite(c *gin.Context) {
	id := c.Param("id")
	s.favorites.Remove(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"id": id, "favorite": false})
}

func (s *Server) toggleFavorite(c *gin.Context) {
	id := c.Param("id")
	favorite := s.favorites.Toggle(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"id": id, "favorite": favorite})
}

func (s *Server) listFavoriteCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": s.favorites.FilterFavorites(s.catalog.List())})
}

// --- miniplayer ---

type miniPlayerRequest struct {
	Minimized       bool    `json:"minimized"`
	StreamID        string  `json:"streamId"`
	Title           string  `json:"title"`
	PositionSeconds float64 `json:"positionSeconds"`
}

func (s *Server) getMiniPlayer(c *gin.Context) {
	c.JSON(http.StatusOK, s.miniplayer.Get())
}

func (s *Server) putMiniPlayer(c *gin.Context) {
	var req miniPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := s.miniplayer.Set(c.Request.Context(), domain.MiniPlayerState{
		Minimized:       req.Minimized,
		StreamID:        req.StreamID,
		Title:           req.Title,
		PositionSeconds: req.PositionSeconds,
	})
	c.JSON(http.StatusOK, snap)
}

func (s *Server) clearMiniPlayer(c *gin.Context) {
	s.miniplayer.Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// parseBoolQuery трактует отсутствие значения как true ("?live" == "?live=true").
func parseBoolQuery(raw string) bool {
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}
