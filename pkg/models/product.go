package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Image       string          `gorm:"type:varchar(500)" json:"image"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Rating      float64         `gorm:"type:decimal(2,1);default:0" json:"rating"`
	Reviews     int             `gorm:"default:0" json:"reviews"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
