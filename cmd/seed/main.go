// Seeds the development catalog and the demo admin account.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/shophub/pkg/auth"
	"github.com/example/shophub/pkg/config"
	"github.com/example/shophub/pkg/models"
	"github.com/example/shophub/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	adminEmail    = "admin@shophub.com"
	adminPassword = "admin123"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	repo, err := repository.NewMySQLRepository(&cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}
	defer repo.Close()

	ctx := context.Background()

	if err := seedAdmin(ctx, repo); err != nil {
		logger.Fatal("Failed to seed admin account", zap.Error(err))
	}

	seeded := 0
	for _, product := range sampleProducts() {
		if _, err := repo.GetProduct(ctx, product.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			logger.Fatal("Failed to check product", zap.String("id", product.ID), zap.Error(err))
		}
		p := product
		if err := repo.CreateProduct(ctx, &p); err != nil {
			logger.Fatal("Failed to seed product", zap.String("id", product.ID), zap.Error(err))
		}
		seeded++
	}

	logger.Info("Seed complete", zap.Int("products_seeded", seeded))
}

func seedAdmin(ctx context.Context, repo *repository.MySQLRepository) error {
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	err = repo.CreateUser(ctx, &models.User{
		ID:           uuid.NewString(),
		Name:         "Admin User",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil
	}
	return err
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleProducts() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Premium Wireless Headphones",
			Description: "High-quality wireless headphones with active noise cancellation and 30-hour battery life.",
			Price:       price("299.99"),
			Image:       "https://images.pexels.com/photos/3394650/pexels-photo-3394650.jpeg?auto=compress&cs=tinysrgb&w=500",
			Category:    "Electronics",
			Stock:       25,
			Rating:      4.8,
			Reviews:     142,
			CreatedAt:   ts("2024-01-15T10:00:00Z"),
		},
		{
			ID:          "2",
			Name:        "Smart Fitness Watch",
			Description: "Advanced fitness tracking with heart rate monitoring, GPS, and water resistance.",
			Price:       price("199.99"),
			Image:       "https://images.pexels.com/photos/393047/pexels-photo-393047.jpeg?auto=compress&cs=tinysrgb&w=500",
			Category:    "Electronics",
			Stock:       30,
			Rating:      4.6,
			Reviews:     89,
			CreatedAt:   ts("2024-01-12T14:30:00Z"),
		},
		{
			ID:          "3",
			Name:        "Organic Cotton T-Shirt",
			Description: "Soft, breathable organic cotton t-shirt perfect for casual wear.",
			Price:       price("29.99"),
			Image:       "https://images.pexels.com/photos/1598507/pexels-photo-1598507.jpeg?auto=compress&cs=tinysrgb&w=500",
			Category:    "Clothing",
			Stock:       50,
			Rating:      4.4,
			Reviews:     67,
			CreatedAt:   ts("2024-01-10T09:15:00Z"),
		},
		{
			ID:          "4",
			Name:        "Professional Camera",
			Description: "High-resolution DSLR camera with multiple lenses and advanced features.",
			Price:       price("899.99"),
			Image:       "https://images.pexels.com/photos/90946/pexels-photo-90946.jpeg?auto=compress&cs=tinysrgb&w=500",
			Category:    "Electronics",
			Stock:       15,
			Rating:      4.9,
			Reviews:     234,
			CreatedAt:   ts("2024-01-08T16:45:00Z"),
		},
		{
			ID:          "5",
			Name:        "Leather Messenger Bag",
			Description: "Handcrafted leather messenger bag with multiple compartments and vintage style.",
			Price:       price("149.99"),
			Image:       "https://images.pexels.com/photos/1152077/pexels-photo-1152077.jpeg?auto=compress&cs=tinysrgb&w=500",
			Category:    "Accessories",
			Stock:       20,
			Rating:      4.7,
			Reviews:     45,
			CreatedAt:   ts("2024-01-05T11:20:00Z"),
		},
		{
			ID:          "6",
			Name:        "Ergonomic Office Chair",
			Description: "Comfortable ergonomic office chair with lumbar support and adjustable height.",
			Price:       price("249.99"),
			Image:       "https://images.pexels.com/photos/2181996/pexels-photo-2181996.jpeg?auto=compress&cs=tinysrgb&w=500",
			Category:    "Furniture",
			Stock:       12,
			Rating:      4.5,
			Reviews:     78,
			CreatedAt:   ts("2024-01-03T13:10:00Z"),
		},
		{
			ID:          "7",
			Name:        "Stainless Steel Water Bottle",
			Description: "Insulated stainless steel water bottle that keeps drinks cold for 24 hours.",
			Price:       price("24.99"),
			Image:       "https://images.pexels.com/photos/1000084/pexels-photo-1000084.jpeg?auto=compress&cs=tinysrgb&w=500",
			Category:    "Accessories",
			Stock:       40,
			Rating:      4.3,
			Reviews:     156,
			CreatedAt:   ts("2024-01-01T08:00:00Z"),
		},
		{
			ID:          "8",
			Name:        "Running Shoes",
			Description: "Lightweight running shoes with advanced cushioning and breathable mesh.",
			Price:       price("89.99"),
			Image:       "https://images.pexels.com/photos/2529148/pexels-photo-2529148.jpeg?auto=compress&cs=tinysrgb&w=500",
			Category:    "Sports",
			Stock:       35,
			Rating:      4.6,
			Reviews:     203,
			CreatedAt:   ts("2023-12-28T15:30:00Z"),
		},
	}
}
