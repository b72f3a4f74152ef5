package repository

import (
	"context"

	"github.com/alimikegami/point-of-sales/product-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepository interface {
	AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error)
	GetProducts(ctx context.Context) (data []domain.Product, err error)
	GetProductByID(ctx context.Context, id string) (product domain.Product, err error)
	UpdateProduct(ctx context.Context, id string, data domain.ProductUpdate) (matched int64, err error)
	DeleteProduct(ctx context.Context, id string) (deleted int64, err error)
}
