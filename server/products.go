package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/example/shophub/pkg/models"
	"github.com/example/shophub/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Server) listProducts(c *gin.Context) {
	category := c.Query("category")
	search := c.Query("search")

	// Unfiltered listings are served from the catalog cache when warm.
	if category == "" && search == "" && s.deps.Cache != nil {
		if products, err := s.deps.Cache.GetCachedProducts(c.Request.Context()); err == nil {
			c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
			return
		}
	}

	products, err := s.deps.Products.ListProducts(c.Request.Context(), category, search)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	if category == "" && search == "" && s.deps.Cache != nil {
		if err := s.deps.Cache.CacheProducts(c.Request.Context(), products); err != nil {
			s.logger.Warn("Failed to cache products", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.deps.Products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		s.logger.Error("Failed to get product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.deps.Products.Categories(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type productRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Image       string          `json:"image"`
	Category    string          `json:"category" binding:"required"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() || req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price and stock must be non-negative"})
		return
	}

	now := time.Now()
	product := &models.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		Rating:      req.Rating,
		Reviews:     req.Reviews,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.deps.Products.CreateProduct(c.Request.Context(), product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	s.invalidateCatalog(c)
	s.audit("create_product", product.ID, currentClaims(c).UserID, map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
	})

	c.JSON(http.StatusCreated, product)
}

func (s *Server) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() || req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price and stock must be non-negative"})
		return
	}

	product := &models.Product{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		Rating:      req.Rating,
		Reviews:     req.Reviews,
		UpdatedAt:   time.Now(),
	}

	if err := s.deps.Products.UpdateProduct(c.Request.Context(), product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		s.logger.Error("Failed to update product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	s.invalidateCatalog(c)
	s.audit("update_product", product.ID, currentClaims(c).UserID, map[string]interface{}{
		"name": product.Name,
	})

	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := s.deps.Products.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		s.logger.Error("Failed to delete product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	s.invalidateCatalog(c)
	s.audit("delete_product", id, currentClaims(c).UserID, nil)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) invalidateCatalog(c *gin.Context) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.InvalidateProducts(c.Request.Context()); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}
