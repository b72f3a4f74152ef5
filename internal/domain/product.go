package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	ProductImage string             `bson:"productImage,omitempty" json:"productImage,omitempty"`
}

// ProductField names a field that PATCH may assign.
type ProductField string

const (
	FieldName         ProductField = "name"
	FieldPrice        ProductField = "price"
	FieldProductImage ProductField = "productImage"
)

// ProductUpdate holds the fields of a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name         *string
	Price        *float64
	ProductImage *string
}

func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Price == nil && u.ProductImage == nil
}

// Fields returns the assigned fields keyed by their stored name.
func (u ProductUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Name != nil {
		fields[string(FieldName)] = *u.Name
	}
	if u.Price != nil {
		fields[string(FieldPrice)] = *u.Price
	}
	if u.ProductImage != nil {
		fields[string(FieldProductImage)] = *u.ProductImage
	}

	return fields
}
