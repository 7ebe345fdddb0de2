package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodstream/internal/domain"
	"github.com/vladislavdragonenkov/foodstream/internal/service/cart"
	"github.com/vladislavdragonenkov/foodstream/internal/service/catalog"
	"github.com/vladislavdragonenkov/foodstream/internal/service/checkout"
	"github.com/vladislavdragonenkov/foodstream/internal/service/favorites"
	"github.com/vladislavdragonenkov/foodstream/internal/service/miniplayer"
	"github.com/vladislavdragonenkov/foodstream/internal/service/orders"
)

// Server — REST-фасад над сервисами приложения.
type Server struct {
	catalog    *catalog.Source
	cart       *cart.Store
	orders     *orders.Store
	favorites  *favorites.Set
	checkout   *checkout.Service
	miniplayer *miniplayer.Store
	logger     *log.Entry
}

// NewServer создаёт REST-фасад.
func NewServer(
	catalogSource *catalog.Source,
	cartStore *cart.Store,
	orderStore *orders.Store,
	favoriteSet *favorites.Set,
	checkoutService *checkout.Service,
	miniPlayerStore *miniplayer.Store,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.WithField("component", "rest-server")
	}
	return &Server{
		catalog:    catalogSource,
		cart:       cartStore,
		orders:     orderStore,
		favorites:  favoriteSet,
		checkout:   checkoutService,
		miniplayer: miniPlayerStore,
		logger:     logger,
	}
}

// Router строит gin-маршрутизатор со всеми эндпоинтами API.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api/v1")
	{
		api.GET("/catalog", s.listCatalog)
		api.GET("/catalog/:id", s.getCatalogItem)

		api.GET("/cart", s.getCart)
		api.POST("/cart/items", s.addCartItem)
		api.PATCH("/cart/items/:id", s.updateCartItemQuantity)
		api.DELETE("/cart/items/:id", s.removeCartItem)
		api.DELETE("/cart", s.clearCart)

		api.POST("/checkout", s.checkoutCart)

		api.GET("/orders", s.listOrders)
		api.GET("/orders/current", s.getCurrentOrder)
		api.GET("/orders/:id", s.getOrder)
		api.PATCH("/orders/:id/status", s.updateOrderStatus)

		api.GET("/favorites", s.listFavorites)
		api.PUT("/favorites/:id", s.addFavorite)
		api.DELETE("/favorites/:id", s.removeFavorite)
		api.POST("/favorites/:id/toggle", s.toggleFavorite)
		api.GET("/favorites/catalog", s.listFavoriteCatalog)

		api.GET("/miniplayer", s.getMiniPlayer)
		api.PUT("/miniplayer", s.putMiniPlayer)
		api.DELETE("/miniplayer", s.clearMiniPlayer)
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	}
}

// respondError транслирует доменные ошибки в HTTP-статусы:
// not found — 404, недопустимый переход — 409, остальное — 400.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsInvalidTransition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
