package dto

const (
	EventAddProduct    = "add_product"
	EventUpdateProduct = "update_product"
	EventDeleteProduct = "delete_product"
)

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

type ProductEvent struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name,omitempty"`
	Price        float64                `json:"price,omitempty"`
	ProductImage string                 `json:"product_image,omitempty"`
	Fields       map[string]interface{} `json:"fields,omitempty"`
}
