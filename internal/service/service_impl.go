package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/alimikegami/point-of-sales/product-service/config"
	"github.com/alimikegami/point-of-sales/product-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-service/internal/dto"
	"github.com/alimikegami/point-of-sales/product-service/internal/event"
	"github.com/alimikegami/point-of-sales/product-service/internal/repository"
	"github.com/alimikegami/point-of-sales/product-service/pkg/errs"
)

type ProductServiceImpl struct {
	repo      repository.ProductRepository
	publisher event.Publisher
	config    config.Config
}

func CreateProductService(repo repository.ProductRepository, publisher event.Publisher, config config.Config) ProductService {
	return &ProductServiceImpl{repo: repo, publisher: publisher, config: config}
}

func (s *ProductServiceImpl) GetProducts(ctx context.Context) (resp dto.ProductListResponse, err error) {
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return
	}

	resp.Products = make([]dto.ProductResponse, 0, len(products))
	for _, product := range products {
		resp.Products = append(resp.Products, dto.ProductResponse{
			Name:         product.Name,
			Price:        product.Price,
			ID:           product.ID.Hex(),
			ProductImage: product.ProductImage,
			Request: dto.Request{
				Type:        "GET",
				Description: "REQUEST_TO_FETCH_THIS_PRODUCT",
				URL:         s.productURL(product.ID.Hex()),
			},
		})
	}
	resp.Count = len(resp.Products)

	return
}

func (s *ProductServiceImpl) GetProductByID(ctx context.Context, id string) (resp dto.ProductResponse, err error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	return dto.ProductResponse{
		Name:         product.Name,
		Price:        product.Price,
		ID:           product.ID.Hex(),
		ProductImage: product.ProductImage,
		Request: dto.Request{
			Type:        "GET",
			Description: "VIEW_ALL_PRODUCTS",
			URL:         s.collectionURL(),
		},
	}, nil
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, data dto.ProductRequest) (resp dto.CreateProductResponse, err error) {
	product, err := validateProductRequest(data)
	if err != nil {
		return
	}

	productID, err := s.repo.AddProduct(ctx, product)
	if err != nil {
		return
	}

	s.publish(ctx, productID.Hex(), dto.KafkaMessage{
		EventType: dto.EventAddProduct,
		Data: dto.ProductEvent{
			ID:           productID.Hex(),
			Name:         product.Name,
			Price:        product.Price,
			ProductImage: product.ProductImage,
		},
	})

	resp.Message = "product added"
	resp.CreatedProduct = dto.CreatedProduct{
		Name:  product.Name,
		Price: product.Price,
		ID:    productID.Hex(),
		Request: dto.Request{
			Type:        "GET",
			Description: "TO_FETCH_THIS_PRODUCT",
			URL:         s.productURL(productID.Hex()),
		},
	}

	return
}

// UpdateProduct reports success whether or not a product matched the id.
func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, id string, ops []dto.UpdateOp) (resp dto.ProductActionResponse, err error) {
	update, err := buildProductUpdate(ops)
	if err != nil {
		return
	}

	if !update.IsEmpty() {
		matched, err := s.repo.UpdateProduct(ctx, id, update)
		if err != nil {
			return resp, err
		}

		if matched == 0 {
			log.Ctx(ctx).Warn().Str("component", "UpdateProduct").Str("product_id", id).Msg("no product matched")
		} else {
			s.publish(ctx, id, dto.KafkaMessage{
				EventType: dto.EventUpdateProduct,
				Data:      dto.ProductEvent{ID: id, Fields: update.Fields()},
			})
		}
	}

	resp.Message = "Product has been updated"
	resp.Request = dto.Request{
		Type:        "GET",
		Description: "fetch-UPDATED-PRODUCT",
		URL:         s.productURL(id),
	}

	return
}

// DeleteProduct reports success whether or not a product matched the id. The
// navigation hint points at product creation.
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id string) (resp dto.ProductActionResponse, err error) {
	deleted, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return
	}

	if deleted == 0 {
		log.Ctx(ctx).Warn().Str("component", "DeleteProduct").Str("product_id", id).Msg("no product matched")
	} else {
		s.publish(ctx, id, dto.KafkaMessage{
			EventType: dto.EventDeleteProduct,
			Data:      dto.ProductEvent{ID: id},
		})
	}

	resp.Message = "Product Deleted"
	resp.Request = dto.Request{
		Type:        "POST",
		Description: "ADD_NEW PRODUCT",
		URL:         s.collectionURL(),
		Body: map[string]string{
			"name":  "String",
			"price": "Number",
		},
	}

	return
}

// publish is fire-once: a failed event is logged and the product operation
// still succeeds.
func (s *ProductServiceImpl) publish(ctx context.Context, key string, msg dto.KafkaMessage) {
	if err := s.publisher.Publish(ctx, key, msg); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "publish").Str("event_type", msg.EventType).Msg("")
	}
}

func (s *ProductServiceImpl) collectionURL() string {
	return strings.TrimRight(s.config.BaseURL, "/") + "/products"
}

func (s *ProductServiceImpl) productURL(id string) string {
	return s.collectionURL() + "/" + id
}

func validateProductRequest(data dto.ProductRequest) (product domain.Product, err error) {
	if data.ProductImage == "" {
		return product, fmt.Errorf("%w: productImage is required", errs.ErrValidation)
	}

	if strings.TrimSpace(data.Name) == "" {
		return product, fmt.Errorf("%w: name is required", errs.ErrValidation)
	}

	if strings.TrimSpace(data.Price) == "" {
		return product, fmt.Errorf("%w: price is required", errs.ErrValidation)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(data.Price), 64)
	if err != nil {
		return product, fmt.Errorf("%w: price %q is not a number", errs.ErrValidation, data.Price)
	}

	return domain.Product{
		Name:         data.Name,
		Price:        price,
		ProductImage: data.ProductImage,
	}, nil
}

func buildProductUpdate(ops []dto.UpdateOp) (update domain.ProductUpdate, err error) {
	for _, op := range ops {
		switch domain.ProductField(op.PropName) {
		case domain.FieldName:
			name, err := coerceString(op)
			if err != nil {
				return update, err
			}
			update.Name = &name
		case domain.FieldPrice:
			price, err := coerceNumber(op)
			if err != nil {
				return update, err
			}
			update.Price = &price
		case domain.FieldProductImage:
			image, ok := op.Value.(string)
			if !ok {
				return update, fmt.Errorf("%w: %s must be a string", errs.ErrInvalidFieldValue, op.PropName)
			}
			update.ProductImage = &image
		default:
			return update, fmt.Errorf("%w: %q", errs.ErrUnknownField, op.PropName)
		}
	}

	return update, nil
}

func coerceString(op dto.UpdateOp) (string, error) {
	switch v := op.Value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", errs.ErrInvalidFieldValue, op.PropName)
	}
}

func coerceNumber(op dto.UpdateOp) (float64, error) {
	switch v := op.Value.(type) {
	case float64:
		return v, nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", errs.ErrInvalidFieldValue, op.PropName)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", errs.ErrInvalidFieldValue, op.PropName)
	}
}
