package model

import (
	"time"

	"github.com/google/uuid"
)

// FavouriteModel mirrors the 'favourites' table. One entry per user per product.
type FavouriteModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favourites_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favourites_user_product"`
	CreatedAt time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (FavouriteModel) TableName() string {
	return "favourites"
}
