package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alimikegami/point-of-sales/product-service/internal/domain"
	"github.com/alimikegami/point-of-sales/product-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productsCollection = "products"

// _id is returned unless excluded, so it is not listed.
var productProjection = bson.D{
	{Key: "name", Value: 1},
	{Key: "price", Value: 1},
	{Key: "productImage", Value: 1},
}

type MongoDBProductRepositoryImpl struct {
	db *mongo.Database
}

func CreateNewMongoDBRepository(db *mongo.Database) ProductRepository {
	return &MongoDBProductRepositoryImpl{db: db}
}

func (r *MongoDBProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error) {
	result, err := r.db.Collection(productsCollection).InsertOne(ctx, data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddProduct").Msg("")
		return
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return id, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	return id, nil
}

func (r *MongoDBProductRepositoryImpl) GetProducts(ctx context.Context) (data []domain.Product, err error) {
	opts := options.Find().SetProjection(productProjection)

	cursor, err := r.db.Collection(productsCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return
	}
	defer cursor.Close(ctx)

	data = []domain.Product{}
	if err = cursor.All(ctx, &data); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProducts").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *MongoDBProductRepositoryImpl) GetProductByID(ctx context.Context, id string) (product domain.Product, err error) {
	productID, err := parseProductID(id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		return
	}

	filter := bson.D{{Key: "_id", Value: productID}}
	opts := options.FindOne().SetProjection(productProjection)

	err = r.db.Collection(productsCollection).FindOne(ctx, filter, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return product, errs.ErrNotFound
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "GetProductByID").Msg("")
		return product, err
	}

	return product, nil
}

func (r *MongoDBProductRepositoryImpl) UpdateProduct(ctx context.Context, id string, data domain.ProductUpdate) (matched int64, err error) {
	productID, err := parseProductID(id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return
	}

	filter := bson.D{{Key: "_id", Value: productID}}
	update := bson.D{{Key: "$set", Value: updateDocument(data)}}

	result, err := r.db.Collection(productsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("Failed to update product")
		return
	}

	return result.MatchedCount, nil
}

func (r *MongoDBProductRepositoryImpl) DeleteProduct(ctx context.Context, id string) (deleted int64, err error) {
	productID, err := parseProductID(id)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return
	}

	filter := bson.D{{Key: "_id", Value: productID}}

	result, err := r.db.Collection(productsCollection).DeleteOne(ctx, filter)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return
	}

	return result.DeletedCount, nil
}

func parseProductID(id string) (primitive.ObjectID, error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return productID, fmt.Errorf("%w: %q", errs.ErrMalformedID, id)
	}

	return productID, nil
}

// updateDocument keeps a fixed field order so the $set is deterministic.
func updateDocument(data domain.ProductUpdate) bson.D {
	set := bson.D{}
	if data.Name != nil {
		set = append(set, bson.E{Key: string(domain.FieldName), Value: *data.Name})
	}
	if data.Price != nil {
		set = append(set, bson.E{Key: string(domain.FieldPrice), Value: *data.Price})
	}
	if data.ProductImage != nil {
		set = append(set, bson.E{Key: string(domain.FieldProductImage), Value: *data.ProductImage})
	}

	return set
}
