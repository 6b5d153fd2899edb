package cart

import (
	"strings"

	"github.com/google/uuid"

	cartdto "github.com/angelmondragon/textilehouse-backend/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/textilehouse-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
)

func toAddItemInput(payload cartdto.AddItemRequest) (cartsvc.AddItemInput, error) {
	productID, err := parseProductID(payload.ProductID)
	if err != nil {
		return cartsvc.AddItemInput{}, err
	}
	return cartsvc.AddItemInput{
		ProductID:   productID,
		Quantity:    payload.Quantity,
		Mode:        payload.Mode,
		ClientPrice: payload.Price,
		ClientTiers: payload.PriceTiers,
	}, nil
}

func toUpdateItemInput(payload cartdto.UpdateItemRequest) cartsvc.UpdateItemInput {
	return cartsvc.UpdateItemInput{
		Quantity:    payload.Quantity,
		ClientPrice: payload.Price,
		ClientTiers: payload.PriceTiers,
	}
}

func parseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id").WithDetails(map[string]any{"field": "productId"})
	}
	return id, nil
}
