package model

// AddItemRequest is optional on POST /cart/items/:book_id; an empty body adds one copy
type AddItemRequest struct {
	Quantity int `json:"quantity"`
}

type UpdateItemRequest struct {
	Quantity *int `json:"quantity"`
}
