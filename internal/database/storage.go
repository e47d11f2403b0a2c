package database

import (
	"context"
	"database/sql"

	"com.martdev.sellerhub/internal/database/seller"
)

type Storage struct {
	Seller interface {
		CreateSeller(ctx context.Context, seller *seller.Seller) error
		GetSellerByEmail(ctx context.Context, email string) (*seller.Seller, error)
		GetSellerByEmailWithPassword(ctx context.Context, email string) (*seller.Seller, error)
		GetSellerByID(ctx context.Context, sellerID string) (*seller.Seller, error)
	}
}

func NewStorage(db *sql.DB) Storage {
	return Storage{
		Seller: &seller.SellerStore{DB: db},
	}
}
