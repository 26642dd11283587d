package models

import (
	"time"

	"github.com/diewo77/workshop-quotes/internal/money"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CompanySnapshot is the issuing business as it was when the quote was created.
// It is copied into every quote so old quotes keep rendering the same.
type CompanySnapshot struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Logo    string `json:"logo"`
}

// ClientData is the customer and vehicle the quote is for.
type ClientData struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
	Plate   string `json:"plate"`
}

// Item is one quote line. ID only keeps list keys stable in the form.
type Item struct {
	ID           int64   `json:"id"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	UnitPrice    float64 `json:"unitPrice" validate:"gte=0"`
	DisplayPrice string  `json:"displayPrice"`
}

// LineTotal returns quantity × unit price.
func (i Item) LineTotal() decimal.Decimal {
	return money.LineTotal(i.Quantity, i.UnitPrice)
}

// Quote is an itemized price estimate ("orçamento") keyed by its number.
type Quote struct {
	Number  string                              `gorm:"primaryKey;size:64" json:"number"`
	Date    string                              `gorm:"not null;index" json:"date"` // ISO-8601, stored verbatim
	Company datatypes.JSONType[CompanySnapshot] `gorm:"not null" json:"company"`
	Client  datatypes.JSONType[ClientData]      `gorm:"not null" json:"client"`
	Items   datatypes.JSONType[[]Item]          `gorm:"not null" json:"items"`
	Total   float64                             `gorm:"not null;default:0" json:"total"`

	// Resend tracking
	ResendCount  int        `gorm:"not null;default:0" json:"resendCount"`
	LastResentAt *time.Time `json:"lastResentAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewQuote assembles a quote from its parts.
func NewQuote(number, date string, company CompanySnapshot, client ClientData, items []Item, total float64) *Quote {
	if items == nil {
		items = []Item{}
	}
	return &Quote{
		Number:  number,
		Date:    date,
		Company: datatypes.NewJSONType(company),
		Client:  datatypes.NewJSONType(client),
		Items:   datatypes.NewJSONType(items),
		Total:   total,
	}
}

// ComputedTotal sums quantity × unit price over all items.
func (q *Quote) ComputedTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range q.Items.Data() {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// TotalConsistent reports whether the stored total matches the items to the cent.
func (q *Quote) TotalConsistent() bool {
	return money.SameCents(money.FromFloat(q.Total), q.ComputedTotal())
}

// IssuedAt parses Date. ok is false when Date is not ISO-8601.
func (q *Quote) IssuedAt() (t time.Time, ok bool) {
	t, err := time.Parse(time.RFC3339Nano, q.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
