package server

import (
	"net/http"
	"time"

	"github.com/example/shophub/pkg/analytics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// dashboard serves the summary view: last 5 orders, top 5 products,
// 6 months of revenue.
func (s *Server) dashboard(c *gin.Context) {
	s.serveReport(c, analytics.DashboardOptions)
}

// analytics serves the detailed view: last 10 orders, top 10
// products, 12 months of revenue.
func (s *Server) analytics(c *gin.Context) {
	s.serveReport(c, analytics.AnalyticsOptions)
}

// serveReport loads the full order, catalog and user collections and
// aggregates them in one pass. The report is recomputed per request,
// never stored.
func (s *Server) serveReport(c *gin.Context, opts analytics.Options) {
	ctx := c.Request.Context()

	orders, err := s.deps.Orders.ListOrders(ctx, "", "")
	if err != nil {
		s.logger.Error("Failed to load orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	products, err := s.deps.Products.ListProducts(ctx, "", "")
	if err != nil {
		s.logger.Error("Failed to load products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	users, err := s.deps.Users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to load users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	report := analytics.Aggregate(orders, products, users, time.Now(), opts)
	c.JSON(http.StatusOK, report)
}
