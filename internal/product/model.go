package product

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	// TypeTicket marks tourism tickets; paid orders issue one QR per unit.
	TypeTicket = "ticket"
)

type Product struct {
	ID          uint            `json:"id"`
	StoreID     uint            `json:"storeId"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
	Type        *string         `json:"type,omitempty"`
	ImageURL    *string         `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p *Product) IsTicket() bool {
	return p.Type != nil && *p.Type == TypeTicket
}

type CreateParams struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	Type        *string
	ImageURL    *string
}

type UpdateParams struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Status      *string
	Type        *string
	ImageURL    *string
}

type ListOptions struct {
	StoreID    *uint
	Search     *string
	OnlyActive bool
	Limit      int
	Page       int
}
