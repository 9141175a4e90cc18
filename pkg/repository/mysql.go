package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/shophub/pkg/config"
	"github.com/example/shophub/pkg/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// MySQLRepository is the relational store for products, orders and
// users.
type MySQLRepository struct {
	db *gorm.DB
}

func NewMySQLRepository(cfg *config.MySQLConfig) (*MySQLRepository, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &MySQLRepository{db: db}, nil
}

func (r *MySQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Products

func (r *MySQLRepository) ListProducts(ctx context.Context, category, search string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Order("created_at")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MySQLRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *MySQLRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *MySQLRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).
		Select("Name", "Description", "Price", "Image", "Category", "Stock", "Rating", "Reviews", "UpdatedAt").
		Updates(product)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLRepository) DeleteProduct(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").Order("category").Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Orders

// CreateOrder inserts the order and decrements catalog stock for each
// item snapshot in one transaction. A guarded update keeps stock from
// going negative under concurrent checkouts.
func (r *MySQLRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.ItemList() {
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("update stock for %s: %w", item.ProductID, result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		return tx.Create(order).Error
	})
}

func (r *MySQLRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders in insertion order. Empty userID or
// status leaves that filter off.
func (r *MySQLRepository) ListOrders(ctx context.Context, userID, status string) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Order("created_at, id")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MySQLRepository) UpdateOrderStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Users

func (r *MySQLRepository) CreateUser(ctx context.Context, user *models.User) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *MySQLRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MySQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MySQLRepository) UpdateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Select("Name", "UpdatedAt").Updates(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
