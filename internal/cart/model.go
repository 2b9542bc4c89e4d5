package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type CartItem struct {
	ID        uint      `json:"id"`
	CartID    uint      `json:"cartId"`
	ProductID uint      `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartLine is a cart item joined with live product data. Prices are never
// snapshotted in the cart; they are read from the product at view time.
type CartLine struct {
	ItemID       uint            `json:"itemId"`
	ProductID    uint            `json:"productId"`
	ProductName  string          `json:"productName"`
	StoreID      uint            `json:"storeId"`
	StoreName    string          `json:"storeName"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Status       string          `json:"status"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type CartView struct {
	Items     []*CartLine `json:"items"`
	ItemCount int         `json:"itemCount"`
	Total     string      `json:"total"`
}

type AddParams struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

type UpdateParams struct {
	UserID    uint
	ProductID uint
	Quantity  int
}
