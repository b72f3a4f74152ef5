package dto

// Request is the navigation hint embedded in every product response.
type Request struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	URL         string            `json:"url"`
	Body        map[string]string `json:"body,omitempty"`
}

type ProductResponse struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ID           string  `json:"_id"`
	ProductImage string  `json:"productImage,omitempty"`
	Request      Request `json:"request"`
}

type ProductListResponse struct {
	Count    int               `json:"count"`
	Products []ProductResponse `json:"products"`
}

type CreatedProduct struct {
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	ID      string  `json:"_id"`
	Request Request `json:"request"`
}

type CreateProductResponse struct {
	Message        string         `json:"message"`
	CreatedProduct CreatedProduct `json:"createdProduct"`
}

type ProductActionResponse struct {
	Message string  `json:"message"`
	Request Request `json:"request"`
}
