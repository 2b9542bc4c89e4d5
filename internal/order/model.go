package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions is the full set of allowed status moves. Anything not listed
// here is rejected, including no-op updates to the current status.
var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusShipped, StatusCancelled},
	StatusShipped: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uint            `json:"id"`
	BuyerID         uint            `json:"buyerId"`
	AddressID       uint            `json:"addressId"`
	Status          Status          `json:"status"`
	Total           decimal.Decimal `json:"total"`
	ServiceFee      decimal.Decimal `json:"serviceFee"`
	BuyerServiceFee decimal.Decimal `json:"buyerServiceFee"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Items           []*OrderItem    `json:"items,omitempty"`
}

// OrderItem snapshots the product at checkout time. Later price or name
// changes on the product never reach past orders.
type OrderItem struct {
	ID          uint            `json:"id"`
	OrderID     uint            `json:"orderId"`
	ProductID   uint            `json:"productId"`
	StoreID     uint            `json:"storeId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SellerOrder is an order as seen by one store: only that store's items,
// with the seller total computed over them alone.
type SellerOrder struct {
	Order       *Order          `json:"order"`
	Items       []*OrderItem    `json:"items"`
	SellerTotal decimal.Decimal `json:"sellerTotal"`
}

type RequestedItem struct {
	ProductID uint
	Quantity  int
}

type CreateParams struct {
	BuyerID   uint
	AddressID uint
}
