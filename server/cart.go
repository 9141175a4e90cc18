package server

import (
	"errors"
	"net/http"

	"github.com/example/shophub/pkg/cart"
	"github.com/example/shophub/pkg/models"
	"github.com/example/shophub/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) cartResponse(c *gin.Context, ledger *cart.Ledger) {
	c.JSON(http.StatusOK, gin.H{
		"items":       ledger.Items(),
		"total_items": ledger.TotalItems(),
		"total_price": ledger.TotalPrice(),
	})
}

func (s *Server) loadLedger(c *gin.Context, userID string) (*cart.Ledger, bool) {
	stored, err := s.deps.Carts.LoadCart(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return nil, false
	}
	return cart.NewLedger(stored.Items), true
}

func (s *Server) saveLedger(c *gin.Context, userID string, ledger *cart.Ledger) bool {
	err := s.deps.Carts.SaveCart(c.Request.Context(), &models.Cart{
		UserID: userID,
		Items:  ledger.Items(),
	})
	if err != nil {
		s.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cart"})
		return false
	}
	return true
}

func (s *Server) getCart(c *gin.Context) {
	claims := currentClaims(c)
	ledger, ok := s.loadLedger(c, claims.UserID)
	if !ok {
		return
	}
	s.cartResponse(c, ledger)
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) addCartItem(c *gin.Context) {
	claims := currentClaims(c)

	var req addCartItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}

	product, err := s.deps.Products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		s.logger.Error("Failed to get product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}

	ledger, ok := s.loadLedger(c, claims.UserID)
	if !ok {
		return
	}

	// Quantity is bounded by stock at add time; the cart is not
	// re-validated after that.
	existing := 0
	for _, item := range ledger.Items() {
		if item.Product.ID == req.ProductID {
			existing = item.Quantity
		}
	}
	if existing+req.Quantity > product.Stock {
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
		return
	}

	ledger.Add(*product, req.Quantity)

	if !s.saveLedger(c, claims.UserID, ledger) {
		return
	}
	s.cartResponse(c, ledger)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	claims := currentClaims(c)

	var req updateCartItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ledger, ok := s.loadLedger(c, claims.UserID)
	if !ok {
		return
	}

	ledger.SetQuantity(c.Param("productId"), req.Quantity)

	if !s.saveLedger(c, claims.UserID, ledger) {
		return
	}
	s.cartResponse(c, ledger)
}

func (s *Server) removeCartItem(c *gin.Context) {
	claims := currentClaims(c)

	ledger, ok := s.loadLedger(c, claims.UserID)
	if !ok {
		return
	}

	ledger.Remove(c.Param("productId"))

	if !s.saveLedger(c, claims.UserID, ledger) {
		return
	}
	s.cartResponse(c, ledger)
}

func (s *Server) clearCart(c *gin.Context) {
	claims := currentClaims(c)

	if err := s.deps.Carts.DeleteCart(c.Request.Context(), claims.UserID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", claims.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	s.cartResponse(c, cart.NewLedger(nil))
}
