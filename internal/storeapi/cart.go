package storeapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/avignatattva/storefront/internal/cart"
	"github.com/avignatattva/storefront/internal/domain"
	"github.com/avignatattva/storefront/internal/webserver"
	"github.com/labstack/echo/v4"
)

type addItemPayload struct {
	EntityID      string `json:"entityId" validate:"required"`
	ItemType      string `json:"itemType" validate:"required,oneof=product service"`
	VariationName string `json:"variationName"`
	Quantity      *int   `json:"quantity"`
}

// quantityPayload an explicit quantity is required; zero or less removes the line
type quantityPayload struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiDELETE("/cart", clearCart)
	webserver.ApiPOST("/cart/items", addCartItem)
	webserver.ApiPUT("/cart/items/:cartItemId", updateCartItem)
	webserver.ApiDELETE("/cart/items/:cartItemId", removeCartItem)
}

// visitorCart returns the cart named by the session, starting a new one when
// the session has none or its cart has ended
func visitorCart(c echo.Context) (*cart.Store, error) {
	registry := appCtx(c).Carts()
	s := registry.GetOrCreate(c.Request().Context(), webserver.SessionCartID(c))
	if err := webserver.SetSessionCartID(c, s.ID()); err != nil {
		return nil, err
	}
	return s, nil
}

func getCart(c echo.Context) error {
	s, err := visitorCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Unable to start session", err.Error())
	}
	return ok(c, s.Snapshot())
}

func clearCart(c echo.Context) error {
	s, err := visitorCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Unable to start session", err.Error())
	}
	s.ClearCart()
	return ok(c, s.Snapshot())
}

func addCartItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	payload.EntityID = strings.TrimSpace(payload.EntityID)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "entityId and itemType (product or service) are required", err.Error())
	}
	quantity := 1
	if payload.Quantity != nil {
		quantity = *payload.Quantity
	}

	itemType := domain.ItemType(payload.ItemType)
	entity, err := lookupEntity(c.Request().Context(), c, itemType, payload.EntityID)
	if err != nil {
		return catalogFail(c, err, string(itemType))
	}
	variation, found := domain.FindVariation(entity, payload.VariationName)
	if !found {
		return fail(c, http.StatusBadRequest, "UNKNOWN_VARIATION", "No such option: "+payload.VariationName, nil)
	}

	s, err := visitorCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Unable to start session", err.Error())
	}
	s.AddToCart(entity, variation, itemType, quantity)
	return ok(c, s.Snapshot())
}

func lookupEntity(ctx context.Context, c echo.Context, itemType domain.ItemType, id string) (domain.Purchasable, error) {
	svc := appCtx(c).Storefront()
	if itemType == domain.ItemTypeService {
		t, err := svc.Therapy(ctx, id)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	p, err := svc.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func updateCartItem(c echo.Context) error {
	var payload quantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "quantity is required", err.Error())
	}
	s, err := visitorCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Unable to start session", err.Error())
	}
	s.UpdateQuantity(c.Param("cartItemId"), *payload.Quantity)
	return ok(c, s.Snapshot())
}

func removeCartItem(c echo.Context) error {
	s, err := visitorCart(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Unable to start session", err.Error())
	}
	s.RemoveFromCart(c.Param("cartItemId"))
	return ok(c, s.Snapshot())
}
