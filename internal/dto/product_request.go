package dto

// ProductRequest is the multipart form of a create request. Price stays a
// string so that a missing value can be told apart from zero.
type ProductRequest struct {
	Name         string `form:"name"`
	Price        string `form:"price"`
	ProductImage string `form:"-"`
}

// UpdateOp is one entry of a PATCH body: [{"propName":"price","value":42}].
type UpdateOp struct {
	PropName string      `json:"propName"`
	Value    interface{} `json:"value"`
}
