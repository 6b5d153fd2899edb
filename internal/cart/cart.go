package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
)

// LineItem is one product in a cart. PriceTiers and BasePrice are the
// catalog snapshot taken when the product was added; Price is always the
// resolution of that snapshot at Quantity.
type LineItem struct {
	ProductID  uuid.UUID         `json:"productId"`
	Slug       string            `json:"slug"`
	Name       string            `json:"name"`
	Mode       enums.PricingMode `json:"mode"`
	Quantity   int               `json:"quantity"`
	Price      decimal.Decimal   `json:"price"`
	BasePrice  decimal.Decimal   `json:"basePrice"`
	PriceTiers []pricing.Tier    `json:"priceTiers"`
	LineTotal  decimal.Decimal   `json:"lineTotal"`
	AddedAt    time.Time         `json:"addedAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Cart is the session-scoped shopping cart. Subtotal and ItemCount are
// derived from Items by Recalculate and never patched incrementally.
type Cart struct {
	SessionID string          `json:"sessionId"`
	Items     []LineItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
	Currency  enums.Currency  `json:"currency,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// New returns an empty cart for sessionID.
func New(sessionID string, now time.Time) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []LineItem{},
		Subtotal:  decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reprice sets the quantity and resolves the unit price from the snapshot.
func (l *LineItem) Reprice(quantity int, rounding pricing.Rounding) {
	l.Quantity = quantity
	l.Price = pricing.Resolve(l.PriceTiers, quantity, l.BasePrice)
	l.LineTotal = rounding.Total(l.Price, quantity)
}

// Recalculate rederives Subtotal and ItemCount from the lines. Subtotal is
// the sum of price x quantity rounded once, so it can differ by a cent from
// the sum of the rounded LineTotals when unit prices carry sub-cent digits.
func (c *Cart) Recalculate(rounding pricing.Rounding) {
	subtotal := decimal.Zero
	count := 0
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	c.Subtotal = rounding.Round(subtotal)
	c.ItemCount = count
	if len(c.Items) == 0 {
		c.Currency = ""
	}
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Line returns the line for productID, if present.
func (c *Cart) Line(productID uuid.UUID) (*LineItem, bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return nil, false
	}
	return &c.Items[i], true
}

func (c *Cart) remove(productID uuid.UUID) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now
}

// RepriceLine applies a quantity change to the line for productID.
// A nil quantity is a validation error; zero or less removes the line.
// Totals are rederived and UpdatedAt refreshed either way.
func RepriceLine(c *Cart, productID uuid.UUID, quantity *int, rounding pricing.Rounding, now time.Time) error {
	if quantity == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity is required")
	}
	line, ok := c.Line(productID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found").
			WithDetails(map[string]any{"productId": productID.String()})
	}
	if *quantity <= 0 {
		c.remove(productID)
	} else {
		line.Reprice(*quantity, rounding)
		line.UpdatedAt = now
	}
	c.Recalculate(rounding)
	c.touch(now)
	return nil
}

func (c *Cart) clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Items = make([]LineItem, len(c.Items))
	for i, item := range c.Items {
		item.PriceTiers = append([]pricing.Tier(nil), item.PriceTiers...)
		out.Items[i] = item
	}
	return &out
}
