package model

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// legalTransitions maps a status to the statuses it may move to. Completed
// and cancelled are terminal.
var legalTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine permits moving from s
// to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ShippingAddress is the delivery address captured at checkout. All fields
// are required.
type ShippingAddress struct {
	Name    string `json:"name" bson:"name"`
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zip_code"`
	Country string `json:"country" bson:"country"`
}

// PaymentMethod records how the customer intends to pay. Payment is never
// captured by this service; only the method is recorded.
type PaymentMethod struct {
	Type  string `json:"type" bson:"type"`
	Last4 string `json:"last4,omitempty" bson:"last4,omitempty"`
}

// OrderItem is one line of an order. Name, image and price are snapshotted
// from the catalogue at order time and are never recomputed, even if the
// live product changes afterwards.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Image     string  `json:"image" bson:"image"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// Order is a durable order record. Only Status may change after creation.
type Order struct {
	ID              string          `json:"id" bson:"_id"`
	UserID          string          `json:"user" bson:"user_id"`
	Items           []OrderItem     `json:"items" bson:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" bson:"payment_method"`
	TotalAmount     float64         `json:"totalAmount" bson:"total_amount"`
	Status          OrderStatus     `json:"status" bson:"status"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at"`
}

// CreateOrderRequest is the checkout payload. A client-supplied total, if
// any, is ignored; the total is always recomputed server-side.
type CreateOrderRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	TotalAmount     float64         `json:"totalAmount,omitempty"`
}

// UpdateStatusRequest is the payload for an administrative status change.
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status"`
}

// OrderPage is the admin order listing response.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
	Total  int64   `json:"total"`
}
