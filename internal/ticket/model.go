package ticket

import (
	"time"

	"github.com/google/uuid"
)

// TicketQr is one admission unit. An order item with quantity 3 gets three
// rows, unit indexes 0 through 2.
type TicketQr struct {
	ID          uint       `json:"id"`
	OrderID     uint       `json:"orderId"`
	OrderItemID uint       `json:"orderItemId"`
	Serial      uuid.UUID  `json:"serial"`
	UnitIndex   int        `json:"unitIndex"`
	QRImage     []byte     `json:"qrImage"`
	IsUsed      bool       `json:"isUsed"`
	UsedAt      *time.Time `json:"usedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TicketItem is an order item whose product is a ticket.
type TicketItem struct {
	OrderItemID uint
	OrderID     uint
	StoreID     uint
	ProductName string
	Quantity    int
}

// StoreTicket is the tourism manager's view of one sold ticket unit.
type StoreTicket struct {
	Qr          *TicketQr `json:"qr"`
	OrderID     uint      `json:"orderId"`
	ProductName string    `json:"productName"`
	BuyerName   string    `json:"buyerName"`
	OrderStatus string    `json:"orderStatus"`
}
