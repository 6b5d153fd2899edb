package cart

import (
	cartdto "github.com/angelmondragon/textilehouse-backend/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/textilehouse-backend/internal/cart"
)

func newCart(c *cartsvc.Cart) cartdto.Cart {
	items := make([]cartdto.LineItem, 0, len(c.Items))
	for _, item := range c.Items {
		tiers := make([]cartdto.PriceTier, 0, len(item.PriceTiers))
		for _, tier := range item.PriceTiers {
			tiers = append(tiers, cartdto.PriceTier{Min: tier.MinQuantity, Price: tier.UnitPrice.InexactFloat64()})
		}
		items = append(items, cartdto.LineItem{
			ProductID:  item.ProductID,
			Slug:       item.Slug,
			Name:       item.Name,
			Mode:       item.Mode.String(),
			Quantity:   item.Quantity,
			Price:      item.Price.InexactFloat64(),
			BasePrice:  item.BasePrice.InexactFloat64(),
			PriceTiers: tiers,
			LineTotal:  item.LineTotal.InexactFloat64(),
			AddedAt:    item.AddedAt,
			UpdatedAt:  item.UpdatedAt,
		})
	}

	return cartdto.Cart{
		SessionID: c.SessionID,
		Items:     items,
		Subtotal:  c.Subtotal.InexactFloat64(),
		ItemCount: c.ItemCount,
		Currency:  c.Currency.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
