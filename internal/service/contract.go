package service

import (
	"context"

	"github.com/alimikegami/point-of-sales/product-service/internal/dto"
)

type ProductService interface {
	GetProducts(ctx context.Context) (resp dto.ProductListResponse, err error)
	GetProductByID(ctx context.Context, id string) (resp dto.ProductResponse, err error)
	AddProduct(ctx context.Context, data dto.ProductRequest) (resp dto.CreateProductResponse, err error)
	UpdateProduct(ctx context.Context, id string, ops []dto.UpdateOp) (resp dto.ProductActionResponse, err error)
	DeleteProduct(ctx context.Context, id string) (resp dto.ProductActionResponse, err error)
}
