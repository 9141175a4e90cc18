package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/example/shophub/pkg/cart"
	"github.com/example/shophub/pkg/models"
	"github.com/example/shophub/pkg/payment"
	"github.com/example/shophub/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// orderView is the API shape of an order with its item snapshots and
// shipping address expanded from their stored JSON columns.
type orderView struct {
	models.Order
	Items           []models.OrderItem `json:"items"`
	ShippingAddress models.Address     `json:"shipping_address"`
}

func viewOrder(o models.Order) orderView {
	return orderView{
		Order:           o,
		Items:           o.ItemList(),
		ShippingAddress: o.Address(),
	}
}

func viewOrders(orders []models.Order) []orderView {
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = viewOrder(o)
	}
	return views
}

type checkoutRequest struct {
	PaymentMethod   string         `json:"payment_method" binding:"required"`
	ShippingAddress models.Address `json:"shipping_address" binding:"required"`
}

func validPaymentMethod(method string) bool {
	switch method {
	case models.PaymentMethodCard, models.PaymentMethodUPI, models.PaymentMethodCOD:
		return true
	}
	return false
}

// checkout turns the user's cart into an order: charge through the
// payment processor, snapshot the cart lines into order items, write
// the order (decrementing stock), then clear the cart.
func (s *Server) checkout(c *gin.Context) {
	claims := currentClaims(c)

	var req checkoutRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validPaymentMethod(req.PaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
		return
	}

	stored, err := s.deps.Carts.LoadCart(c.Request.Context(), claims.UserID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}

	ledger := cart.NewLedger(stored.Items)
	if ledger.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	total := ledger.TotalPrice()

	charge, err := s.deps.Payments.Charge(&payment.ChargeRequest{
		UserID: claims.UserID,
		Method: req.PaymentMethod,
		Amount: total,
	})
	if err != nil {
		s.logger.Error("Payment processing failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment processing failed"})
		return
	}
	if charge.Status == models.PaymentStatusFailed {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment declined"})
		return
	}

	items := make([]models.OrderItem, 0, len(ledger.Items()))
	for _, line := range ledger.Items() {
		items = append(items, models.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
			Image:       line.Product.Image,
		})
	}

	now := time.Now()
	order := &models.Order{
		ID:            uuid.NewString(),
		UserID:        claims.UserID,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: charge.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := order.SetItems(items); err != nil {
		s.logger.Error("Failed to serialize order items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}
	if err := order.SetAddress(req.ShippingAddress); err != nil {
		s.logger.Error("Failed to serialize shipping address", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	if err := s.deps.Orders.CreateOrder(c.Request.Context(), order); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
			return
		}
		s.logger.Error("Failed to create order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	if err := s.deps.Carts.DeleteCart(c.Request.Context(), claims.UserID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("user_id", claims.UserID), zap.Error(err))
	}

	s.audit("create_order", order.ID, claims.UserID, map[string]interface{}{
		"total":          order.TotalAmount.String(),
		"payment_method": order.PaymentMethod,
		"payment_ref":    charge.Reference,
	})

	c.JSON(http.StatusCreated, viewOrder(*order))
}

func (s *Server) listOrders(c *gin.Context) {
	claims := currentClaims(c)

	orders, err := s.deps.Orders.ListOrders(c.Request.Context(), claims.UserID, "")
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": viewOrders(orders), "total": len(orders)})
}

func (s *Server) getOrder(c *gin.Context) {
	claims := currentClaims(c)

	order, err := s.deps.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		s.logger.Error("Failed to get order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get order"})
		return
	}

	// Customers can only read their own orders.
	if order.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	c.JSON(http.StatusOK, viewOrder(*order))
}

func (s *Server) adminListOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	orders, err := s.deps.Orders.ListOrders(c.Request.Context(), "", status)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": viewOrders(orders), "total": len(orders)})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	order, err := s.deps.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		s.logger.Error("Failed to get order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get order"})
		return
	}

	if !models.CanTransition(order.Status, req.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
		return
	}

	if err := s.deps.Orders.UpdateOrderStatus(c.Request.Context(), order.ID, req.Status); err != nil {
		s.logger.Error("Failed to update order status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
		return
	}

	s.audit("update_order_status", order.ID, currentClaims(c).UserID, map[string]interface{}{
		"from": order.Status,
		"to":   req.Status,
	})

	order.Status = req.Status
	order.UpdatedAt = time.Now()
	c.JSON(http.StatusOK, viewOrder(*order))
}

func (s *Server) auditLogs(c *gin.Context) {
	logs, err := s.deps.Auditor.GetAuditLogs(c.Request.Context(), c.Param("entityId"), 50)
	if err != nil {
		s.logger.Error("Failed to read audit logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read audit logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
